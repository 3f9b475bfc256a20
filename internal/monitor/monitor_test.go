// =============================
// File: internal/monitor/monitor_test.go
// =============================
package monitor

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/liquidity-watch/internal/dex"
	"github.com/rovshanmuradov/liquidity-watch/internal/notify"
	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
	"github.com/rovshanmuradov/liquidity-watch/internal/token"
	"github.com/rovshanmuradov/liquidity-watch/internal/watchlist"
)

const (
	testMint1 = "Mint1xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	testMint2 = "Mint2xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
	testPool  = "Poolxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx"
)

// recordingNotifier collects alerts for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	alerts []notify.Alert
}

func (n *recordingNotifier) SendLiquidityAlert(alert notify.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) SendMessage(string) error { return nil }

func (n *recordingNotifier) Alerts() []notify.Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Alert, len(n.alerts))
	copy(out, n.alerts)
	return out
}

// staticTokens maps mints to fixed symbols.
type staticTokens struct {
	symbols map[string]string
}

func (s *staticTokens) GetTokenInfo(_ context.Context, mint string) *token.Info {
	if symbol, ok := s.symbols[mint]; ok {
		return &token.Info{Mint: mint, Name: symbol + " Token", Symbol: symbol}
	}
	return &token.Info{Mint: mint, Name: token.UnknownName, Symbol: token.UnknownSymbol}
}

// staticFetcher serves one canned transaction for any signature.
type staticFetcher struct {
	tx *solana.ParsedTransaction
}

func (f *staticFetcher) GetParsedTransaction(context.Context, string) (*solana.ParsedTransaction, error) {
	return f.tx, nil
}

// addLiquidityTransaction builds the jsonParsed shape of a DLMM
// add-liquidity transaction: 5 Mint1 (6 decimals) + 2 Mint2 (9 decimals)
// into testPool.
func addLiquidityTransaction(t *testing.T, signature string) *solana.ParsedTransaction {
	t.Helper()

	payload := make([]byte, 24)
	copy(payload, []byte{7, 3, 150, 127, 148, 40, 61, 200})
	binary.LittleEndian.PutUint64(payload[8:16], 5_000_000)
	binary.LittleEndian.PutUint64(payload[16:24], 2_000_000_000)

	transfer := func(mint, amount string, decimals int) solana.Instruction {
		blob := fmt.Sprintf(
			`{"type":"transferChecked","info":{"mint":"%s","tokenAmount":{"amount":"%s","decimals":%d}}}`,
			mint, amount, decimals)
		return solana.Instruction{
			Program:   "spl-token",
			ProgramID: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			Parsed:    json.RawMessage(blob),
		}
	}

	return &solana.ParsedTransaction{
		Meta: &solana.TransactionMeta{
			LogMessages: []string{
				"Program LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo invoke [1]",
				"Program log: Instruction: AddLiquidityByStrategy",
			},
			InnerInstructions: []solana.InnerInstructionGroup{
				{
					Index: 0,
					Instructions: []solana.Instruction{
						transfer(testMint1, "5000000", 6),
						transfer(testMint2, "2000000000", 9),
					},
				},
			},
		},
		Transaction: solana.TransactionBody{
			Signatures: []string{signature},
			Message: solana.Message{
				Instructions: []solana.Instruction{
					{
						ProgramID: dex.MeteoraDLMMProgramID,
						Accounts:  []string{"UserWallet", testPool, "Reserve1", "Reserve2"},
						Data:      base58.Encode(payload),
					},
				},
			},
		},
	}
}

type pipelineFixture struct {
	monitor  *Monitor
	notifier *recordingNotifier
	store    *watchlist.Store
	cancel   context.CancelFunc
}

func startPipeline(t *testing.T, fetcher TransactionFetcher, watched ...string) *pipelineFixture {
	t.Helper()

	store := watchlist.NewStore(5)
	for _, id := range watched {
		require.NoError(t, store.Add(id))
	}

	notifier := &recordingNotifier{}
	mon := New(&Config{
		Registry: dex.DefaultRegistry(),
		Fetcher:  fetcher,
		Store:    store,
		Tokens: &staticTokens{symbols: map[string]string{
			testMint1: "SYM1",
			testMint2: "SYM2",
		}},
		Notifier: notifier,
		Cooldown: 5 * time.Minute,
		Logger:   zap.NewNop(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = mon.Run(ctx) }()
	t.Cleanup(cancel)

	require.Eventually(t, mon.Active, time.Second, 5*time.Millisecond)
	return &pipelineFixture{monitor: mon, notifier: notifier, store: store, cancel: cancel}
}

func TestPipeline_WebhookToAlert(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigWebhook1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, testMint1)

	fx.monitor.HandleWebhookTransaction(tx)

	require.Eventually(t, func() bool {
		return len(fx.notifier.Alerts()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	alert := fx.notifier.Alerts()[0]
	assert.Equal(t, "add", alert.Kind)
	assert.Equal(t, "Meteora DLMM", alert.Dex)
	assert.Equal(t, testPool, alert.Pool)
	assert.Equal(t, testMint1, alert.MintA)
	assert.Equal(t, testMint2, alert.MintB)
	assert.Equal(t, "SYM1 | SYM2", alert.Pair)
	assert.Equal(t, "5 SYM1 + 2 SYM2", alert.Liquidity)
	assert.Equal(t, "SigWebhook1", alert.Tx)
}

func TestPipeline_CooldownSuppressesSecondAlert(t *testing.T) {
	first := addLiquidityTransaction(t, "SigCooldown1")
	second := addLiquidityTransaction(t, "SigCooldown2")
	fx := startPipeline(t, &staticFetcher{tx: first}, testMint1)

	fx.monitor.HandleWebhookTransaction(first)
	require.Eventually(t, func() bool {
		return len(fx.notifier.Alerts()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Distinct signature, same watched mint, inside the cooldown window.
	fx.monitor.HandleWebhookTransaction(second)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, fx.notifier.Alerts(), 1)
}

func TestPipeline_DuplicateSignatureDropped(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigDup1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, testMint1)

	fx.monitor.HandleWebhookTransaction(tx)
	fx.monitor.HandleWebhookTransaction(tx)
	fx.monitor.HandleWebhookTransaction(tx)

	require.Eventually(t, func() bool {
		return len(fx.notifier.Alerts()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, fx.notifier.Alerts(), 1)
}

func TestPipeline_DualPathAtMostOneAlert(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigDual1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, testMint1)

	// The same transaction arrives on both channels at once.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fx.monitor.HandleWebhookTransaction(tx)
	}()
	go func() {
		defer wg.Done()
		fx.monitor.HandleLogEvent(dex.MeteoraDLMMProgramID, solana.LogEvent{
			Signature: "SigDual1",
			Logs:      tx.LogMessages(),
		})
	}()
	wg.Wait()

	require.Eventually(t, func() bool {
		return len(fx.notifier.Alerts()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, fx.notifier.Alerts(), 1)
}

func TestPipeline_UnwatchedTransactionIgnored(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigUnwatched1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, "SomeOtherMint")

	fx.monitor.HandleWebhookTransaction(tx)
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, fx.notifier.Alerts())
}

func TestPipeline_WatchedPoolMatches(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigPoolMatch1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, testPool)

	fx.monitor.HandleWebhookTransaction(tx)
	require.Eventually(t, func() bool {
		return len(fx.notifier.Alerts()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, testPool, fx.notifier.Alerts()[0].Pool)
}

func TestPipeline_FailedLogEventIgnored(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigFailed1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, testMint1)

	fx.monitor.HandleLogEvent(dex.MeteoraDLMMProgramID, solana.LogEvent{
		Signature: "SigFailed1",
		Logs:      tx.LogMessages(),
		Failed:    true,
	})
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, fx.notifier.Alerts())
}

func TestPipeline_KeywordGate(t *testing.T) {
	tx := addLiquidityTransaction(t, "SigNoKeyword1")
	fx := startPipeline(t, &staticFetcher{tx: tx}, testMint1)

	fx.monitor.HandleLogEvent(dex.MeteoraDLMMProgramID, solana.LogEvent{
		Signature: "SigNoKeyword1",
		Logs:      []string{"Program log: Instruction: Swap"},
	})
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, fx.notifier.Alerts())
}

func TestHasLiquidityKeyword(t *testing.T) {
	assert.True(t, hasLiquidityKeyword([]string{"Program log: Instruction: AddLiquidityByStrategy"}))
	assert.True(t, hasLiquidityKeyword([]string{"noise", "Program log: Instruction: RemoveLiquidityByRange"}))
	assert.False(t, hasLiquidityKeyword([]string{"Program log: Instruction: Swap"}))
	assert.False(t, hasLiquidityKeyword(nil))
}

func TestSeenSet_Eviction(t *testing.T) {
	set := newSeenSet(2)

	assert.True(t, set.firstSeen("a"))
	assert.False(t, set.firstSeen("a"))
	assert.True(t, set.firstSeen("b"))
	assert.True(t, set.firstSeen("c")) // evicts "a"
	assert.True(t, set.firstSeen("a"))
	assert.True(t, set.firstSeen(""), "empty signatures are never deduplicated")
	assert.True(t, set.firstSeen(""))
}
