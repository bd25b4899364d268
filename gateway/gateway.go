// Package gateway talks to the payment providers: PayPal through its orders
// API and a simulated card processor for direct checkout.
package gateway

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Prefixes of the transaction ids recorded in the payment ledger.
const (
	PaypalTransactionPrefix = "PP-"
	CardTransactionPrefix   = "CC-"
)

// ErrDeclined is returned when the provider refuses to settle an order.
var ErrDeclined = errors.New("payment declined by provider")

type OrderRequest struct {
	CourseID  string
	Title     string
	Amount    decimal.Decimal
	Currency  string
	ReturnURL string
	CancelURL string
}
