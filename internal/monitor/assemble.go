// =============================
// File: internal/monitor/assemble.go
// =============================
package monitor

import (
	"github.com/rovshanmuradov/liquidity-watch/internal/dex"
	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
)

// poolAccountIndex is where the pool account sits in a DLMM liquidity
// instruction's account list. Protocol convention observed empirically;
// a layout revision would move it, so a short account list just leaves
// the pool unknown.
const poolAccountIndex = 1

// assembleEvent combines the decoder output with the correlated side
// effects into a complete LiquidityEvent. Missing pieces stay unknown;
// the event is still delivered in degraded form.
func assembleEvent(
	partial dex.PartialEvent,
	ix solana.Instruction,
	effects sideEffects,
	dexName string,
	signature string,
) dex.LiquidityEvent {
	event := dex.LiquidityEvent{
		Kind:        partial.Kind,
		Dex:         dexName,
		MintA:       effects.mintX,
		MintB:       effects.mintY,
		AmountA:     partial.AmountX,
		AmountB:     partial.AmountY,
		DecimalsA:   effects.decimalsX,
		DecimalsB:   effects.decimalsY,
		TxSignature: signature,
	}
	if len(ix.Accounts) > poolAccountIndex {
		event.PoolAddress = ix.Accounts[poolAccountIndex]
	}
	return event
}
