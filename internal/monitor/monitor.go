// =============================
// File: internal/monitor/monitor.go
// =============================
package monitor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/liquidity-watch/internal/dex"
	"github.com/rovshanmuradov/liquidity-watch/internal/metrics"
	"github.com/rovshanmuradov/liquidity-watch/internal/notify"
	"github.com/rovshanmuradov/liquidity-watch/internal/quote"
	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
	"github.com/rovshanmuradov/liquidity-watch/internal/watchlist"
)

const (
	jobBufferSize   = 256
	seenSetCapacity = 1024
	pipelineWorkers = 4
	fetchTimeout    = 15 * time.Second
)

// liquidityKeywords gate which signatures are worth fetching. Program logs
// name the executed instruction, so this is a cheap pre-filter in front of
// the RPC fetch.
var liquidityKeywords = []string{"AddLiquidity", "RemoveLiquidity"}

// TransactionFetcher resolves a signature into a parsed transaction.
type TransactionFetcher interface {
	GetParsedTransaction(ctx context.Context, signature string) (*solana.ParsedTransaction, error)
}

// job is one unit of pipeline work. Tx is pre-populated on the webhook
// path; the subscription path carries only the signature and the worker
// fetches the body.
type job struct {
	signature string
	tx        *solana.ParsedTransaction
	source    string
}

// Monitor is the event detection pipeline: two producers (log
// subscription, webhook) feed a job channel consumed by a worker pool
// that decodes, correlates, assembles and gates liquidity events.
type Monitor struct {
	registry *dex.Registry
	fetcher  TransactionFetcher
	gate     *alertGate
	logger   *zap.Logger

	jobs   chan job
	seen   *seenSet
	active atomic.Bool
	wg     sync.WaitGroup
}

// Config wires the Monitor's collaborators.
type Config struct {
	Registry *dex.Registry
	Fetcher  TransactionFetcher
	Store    *watchlist.Store
	Tokens   TokenInfoProvider
	Quotes   quote.Provider // optional
	Notifier notify.Notifier
	Cooldown time.Duration
	Logger   *zap.Logger
}

func New(cfg *Config) *Monitor {
	logger := cfg.Logger.Named("monitor")
	return &Monitor{
		registry: cfg.Registry,
		fetcher:  cfg.Fetcher,
		gate: &alertGate{
			store:    cfg.Store,
			cooldown: cfg.Cooldown,
			tokens:   cfg.Tokens,
			quotes:   cfg.Quotes,
			notifier: cfg.Notifier,
			logger:   logger,
		},
		logger: logger,
		jobs:   make(chan job, jobBufferSize),
		seen:   newSeenSet(seenSetCapacity),
	}
}

// Run consumes the job channel until ctx is cancelled. It is the single
// consumer side of both ingestion paths; the workers run decode and
// correlation in parallel across events.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.active.CompareAndSwap(false, true) {
		m.logger.Warn("monitoring is already running")
		return nil
	}
	defer m.active.Store(false)

	m.logger.Info("liquidity monitoring started", zap.Int("workers", pipelineWorkers))

	for i := 0; i < pipelineWorkers; i++ {
		m.wg.Add(1)
		go m.worker(ctx)
	}

	<-ctx.Done()
	m.wg.Wait()
	m.logger.Info("liquidity monitoring stopped")
	return ctx.Err()
}

// Active reports whether the pipeline is consuming events.
func (m *Monitor) Active() bool {
	return m.active.Load()
}

// HandleLogEvent is the subscription producer. It enqueues signatures
// whose logs mention a liquidity instruction; it never blocks the
// websocket read loop longer than the channel send.
func (m *Monitor) HandleLogEvent(programID string, event solana.LogEvent) {
	metrics.LogEventsTotal.WithLabelValues(programID).Inc()

	if !m.active.Load() || event.Failed || !hasLiquidityKeyword(event.Logs) {
		return
	}
	m.enqueue(job{signature: event.Signature, source: "subscription"})
}

// HandleWebhookTransaction is the webhook producer. The body already
// carries the parsed transaction, so no fetch step is needed.
func (m *Monitor) HandleWebhookTransaction(tx *solana.ParsedTransaction) {
	if !m.active.Load() || tx == nil || !hasLiquidityKeyword(tx.LogMessages()) {
		return
	}
	m.enqueue(job{signature: tx.Signature(), tx: tx, source: "webhook"})
}

func (m *Monitor) enqueue(j job) {
	select {
	case m.jobs <- j:
	default:
		// Bursty arrival beyond the buffer: drop rather than block the
		// ingestion paths. Both channels are best-effort.
		m.logger.Warn("pipeline backlog full, dropping transaction",
			zap.String("signature", j.signature),
			zap.String("source", j.source))
	}
}

func (m *Monitor) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-m.jobs:
			m.process(ctx, j)
		}
	}
}

func (m *Monitor) process(ctx context.Context, j job) {
	if !m.seen.firstSeen(j.signature) {
		m.logger.Debug("duplicate transaction skipped",
			zap.String("signature", j.signature),
			zap.String("source", j.source))
		return
	}

	tx := j.tx
	if tx == nil {
		fctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		fetched, err := m.fetcher.GetParsedTransaction(fctx, j.signature)
		cancel()
		if err != nil {
			metrics.FetchErrorsTotal.Inc()
			m.logger.Warn("failed to fetch parsed transaction",
				zap.String("signature", j.signature),
				zap.Error(err))
			return
		}
		if fetched == nil {
			m.logger.Debug("transaction not found",
				zap.String("signature", j.signature))
			return
		}
		tx = fetched
	}

	m.processTransaction(ctx, tx)
}

// processTransaction walks the top-level instructions, decoding each
// opaque payload against the registry and pushing matches through
// correlation, assembly and the alert gate.
func (m *Monitor) processTransaction(ctx context.Context, tx *solana.ParsedTransaction) {
	signature := tx.Signature()

	for i, ix := range tx.Transaction.Message.Instructions {
		if ix.Data == "" {
			continue
		}
		dexName, ok := m.registry.DexName(ix.ProgramID)
		if !ok {
			continue
		}
		payload, err := base58.Decode(ix.Data)
		if err != nil {
			continue
		}
		partial, ok := m.registry.Decode(ix.ProgramID, payload)
		if !ok {
			continue
		}

		metrics.EventsDecodedTotal.WithLabelValues(dexName, partial.Kind.String()).Inc()

		effects := correlateSideEffects(tx, i)
		event := assembleEvent(partial, ix, effects, dexName, signature)

		m.logger.Debug("liquidity instruction decoded",
			zap.String("dex", dexName),
			zap.String("kind", partial.Kind.String()),
			zap.Int("instruction_index", i),
			zap.String("signature", signature))

		m.gate.handle(ctx, event)
	}
}

func hasLiquidityKeyword(logs []string) bool {
	for _, line := range logs {
		for _, keyword := range liquidityKeywords {
			if strings.Contains(line, keyword) {
				return true
			}
		}
	}
	return false
}
