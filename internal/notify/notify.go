// =============================
// File: internal/notify/notify.go
// =============================
package notify

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Alert carries everything the notification layer needs to render one
// liquidity alert. Fields left empty render as degraded placeholders.
type Alert struct {
	Kind      string // "add" or "remove"
	Dex       string
	TokenA    string
	TokenB    string
	MintA     string
	MintB     string
	Pair      string
	Pool      string
	Liquidity string
	Price     string
	Tx        string
}

// Notifier delivers alerts to the operator. Implementations are
// fire-and-forget collaborators: a delivery failure is logged by the
// caller and the alert is considered lost.
type Notifier interface {
	SendLiquidityAlert(alert Alert) error
	SendMessage(text string) error
}

// FormatAmount renders a raw token amount at the given decimal scale,
// without floating point drift. Unknown decimals render the raw amount.
func FormatAmount(raw uint64, decimals int) string {
	if decimals < 0 {
		decimals = 0
	}
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(raw), 0).Shift(int32(-decimals))
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
