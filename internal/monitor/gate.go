// =============================
// File: internal/monitor/gate.go
// =============================
package monitor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/liquidity-watch/internal/dex"
	"github.com/rovshanmuradov/liquidity-watch/internal/metrics"
	"github.com/rovshanmuradov/liquidity-watch/internal/notify"
	"github.com/rovshanmuradov/liquidity-watch/internal/quote"
	"github.com/rovshanmuradov/liquidity-watch/internal/token"
	"github.com/rovshanmuradov/liquidity-watch/internal/watchlist"
)

const enrichmentTimeout = 5 * time.Second

// TokenInfoProvider resolves display metadata for a mint. It never fails;
// unresolvable mints come back as the Unknown Token sentinel.
type TokenInfoProvider interface {
	GetTokenInfo(ctx context.Context, mint string) *token.Info
}

// alertGate is the last pipeline stage: watchlist match, cooldown check,
// enrichment and dispatch. The match and the cooldown update happen as one
// atomic store operation so concurrent duplicates cannot double-alert.
type alertGate struct {
	store    *watchlist.Store
	cooldown time.Duration
	tokens   TokenInfoProvider
	quotes   quote.Provider
	notifier notify.Notifier
	logger   *zap.Logger
}

// handle runs the gate for one assembled event and reports whether an
// alert was dispatched.
func (g *alertGate) handle(ctx context.Context, event dex.LiquidityEvent) bool {
	var candidates []string
	for _, id := range []string{event.MintA, event.MintB, event.PoolAddress} {
		if id != "" {
			candidates = append(candidates, id)
		}
	}

	matched := g.store.WatchedOf(candidates...)
	if len(matched) == 0 {
		metrics.AlertsSuppressedTotal.WithLabelValues("not_watched").Inc()
		return false
	}

	if !g.store.TryAlert(matched[0], g.cooldown) {
		metrics.AlertsSuppressedTotal.WithLabelValues("cooldown").Inc()
		g.logger.Debug("alert cooldown active",
			zap.String("identifier", matched[0]),
			zap.String("tx", event.TxSignature))
		return false
	}

	g.dispatch(ctx, event)
	return true
}

// dispatch enriches the event and delivers the alert. Every enrichment
// call has its own timeout and its failure degrades the alert text; only
// the delivery itself can lose the alert, and that loss is logged and
// swallowed.
func (g *alertGate) dispatch(ctx context.Context, event dex.LiquidityEvent) {
	infoA := g.lookupToken(ctx, event.MintA)
	infoB := g.lookupToken(ctx, event.MintB)

	alert := notify.Alert{
		Kind:      event.Kind.String(),
		Dex:       event.Dex,
		TokenA:    infoA.Name,
		TokenB:    infoB.Name,
		MintA:     event.MintA,
		MintB:     event.MintB,
		Pair:      fmt.Sprintf("%s | %s", infoA.Symbol, infoB.Symbol),
		Pool:      event.PoolAddress,
		Liquidity: g.liquidityLine(event, infoA.Symbol, infoB.Symbol),
		Price:     g.lookupQuote(ctx, event),
		Tx:        event.TxSignature,
	}

	if err := g.notifier.SendLiquidityAlert(alert); err != nil {
		metrics.AlertsSuppressedTotal.WithLabelValues("dispatch_failed").Inc()
		g.logger.Warn("failed to dispatch liquidity alert",
			zap.String("pool", event.PoolAddress),
			zap.String("tx", event.TxSignature),
			zap.Error(err))
		return
	}

	metrics.AlertsSentTotal.Inc()
	g.logger.Info("liquidity alert dispatched",
		zap.String("kind", event.Kind.String()),
		zap.String("dex", event.Dex),
		zap.String("pool", event.PoolAddress),
		zap.String("tx", event.TxSignature))
}

func (g *alertGate) lookupToken(ctx context.Context, mint string) *token.Info {
	tctx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()
	return g.tokens.GetTokenInfo(tctx, mint)
}

func (g *alertGate) lookupQuote(ctx context.Context, event dex.LiquidityEvent) string {
	if g.quotes == nil || event.Kind != dex.KindAdd ||
		event.PoolAddress == "" || event.DecimalsA == dex.DecimalsUnknown {
		return quote.Unavailable
	}

	qctx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()

	price, err := g.quotes.Quote(qctx, event.PoolAddress, event.DecimalsA)
	if err != nil {
		g.logger.Debug("failed to get swap quote",
			zap.String("pool", event.PoolAddress),
			zap.Error(err))
		return quote.Unavailable
	}
	return price
}

func (g *alertGate) liquidityLine(event dex.LiquidityEvent, symbolA, symbolB string) string {
	if event.Kind == dex.KindRemove {
		return "n/a (removal amounts not decoded)"
	}
	return fmt.Sprintf("%s %s + %s %s",
		notify.FormatAmount(event.AmountA, event.DecimalsA), symbolA,
		notify.FormatAmount(event.AmountB, event.DecimalsB), symbolB)
}
