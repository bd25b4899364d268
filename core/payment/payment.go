// Package payment is the append-only ledger of purchase payments. Rows are
// inserted once and never updated or deleted.
package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCreditCard Method = "CREDIT_CARD"
	MethodPaypal     Method = "PAYPAL"
)

func (m Method) Valid() bool {
	return m == MethodCreditCard || m == MethodPaypal
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

type Payment struct {
	ID              string          `json:"id" db:"payment_id"`
	UserID          string          `json:"userId" db:"user_id"`
	CourseID        string          `json:"courseId" db:"course_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Currency        string          `json:"currency" db:"currency"`
	Method          Method          `json:"paymentMethod" db:"method"`
	Status          Status          `json:"status" db:"status"`
	TransactionID   string          `json:"transactionId" db:"transaction_id"`
	ProviderOrderID *string         `json:"providerOrderId,omitempty" db:"provider_order_id"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// Record is a payment as shown in the purchase history.
type Record struct {
	Payment
	CourseTitle string `json:"courseTitle" db:"title"`
}
