// =============================
// File: internal/monitor/correlate.go
// =============================
package monitor

import (
	"github.com/rovshanmuradov/liquidity-watch/internal/dex"
	"github.com/rovshanmuradov/liquidity-watch/internal/solana"
)

// sideEffects holds the token identities recovered from the nested
// instructions of one liquidity instruction. Unresolved legs keep an empty
// mint and DecimalsUnknown; they are never filled with placeholders.
type sideEffects struct {
	mintX     string
	mintY     string
	decimalsX int
	decimalsY int
}

// correlateSideEffects extracts the pool legs for the top-level
// instruction at index. Protocol convention: a liquidity instruction's
// first two parsed token transfers, in emission order, are the X and Y
// legs. The order is positional, not derived from semantic roles.
func correlateSideEffects(tx *solana.ParsedTransaction, index int) sideEffects {
	effects := sideEffects{
		decimalsX: dex.DecimalsUnknown,
		decimalsY: dex.DecimalsUnknown,
	}

	var transfers []*solana.TokenTransfer
	for _, inner := range tx.InnerGroup(index) {
		if transfer, ok := inner.ParsedTransfer(); ok {
			transfers = append(transfers, transfer)
			if len(transfers) == 2 {
				break
			}
		}
	}

	if len(transfers) > 0 {
		effects.mintX = transfers[0].Mint
		effects.decimalsX = transfers[0].TokenAmount.Decimals
	}
	if len(transfers) > 1 {
		effects.mintY = transfers[1].Mint
		effects.decimalsY = transfers[1].TokenAmount.Decimals
	}
	return effects
}
