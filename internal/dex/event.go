// =============================
// File: internal/dex/event.go
// =============================
package dex

// Kind classifies a liquidity instruction.
type Kind int

const (
	KindAdd Kind = iota
	KindRemove
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// DecimalsUnknown marks a pool leg whose decimal scale could not be
// recovered from the transaction.
const DecimalsUnknown = -1

// PartialEvent is the decoder output: instruction kind plus the raw
// amounts carried in the payload. Mints, decimals and pool address are
// resolved later from the transaction's inner instructions.
type PartialEvent struct {
	Kind    Kind
	AmountX uint64
	AmountY uint64
}

// LiquidityEvent is a fully assembled liquidity change observed on chain.
// Empty mint/pool strings and DecimalsUnknown mean the field could not be
// resolved; such events are still delivered in degraded form.
type LiquidityEvent struct {
	Kind        Kind
	Dex         string
	PoolAddress string
	MintA       string
	MintB       string
	AmountA     uint64
	AmountB     uint64
	DecimalsA   int
	DecimalsB   int
	TxSignature string
}
