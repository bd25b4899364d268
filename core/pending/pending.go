// Package pending stores the short-lived orders that link a payment
// provider's order id back to the user and course across the provider's
// redirect based approval step.
package pending

import (
	"time"

	"github.com/irsalhamdi/course-market/validate"
	"github.com/shopspring/decimal"
)

// DefaultTTL is shorter than the provider's own order lifetime (about three
// hours) so a stale order is rejected here before the provider drops it.
const DefaultTTL = time.Hour

type Order struct {
	ID              string          `json:"id" db:"pending_order_id"`
	UserID          string          `json:"userId" db:"user_id"`
	CourseID        string          `json:"courseId" db:"course_id"`
	ProviderOrderID string          `json:"orderId" db:"provider_order_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	ExpiresAt       time.Time       `json:"expiresAt" db:"expires_at"`
}

func New(userID, courseID, providerOrderID string, amount decimal.Decimal, now time.Time, ttl time.Duration) Order {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return Order{
		ID:              validate.GenerateID(),
		UserID:          userID,
		CourseID:        courseID,
		ProviderOrderID: providerOrderID,
		Amount:          amount,
		CreatedAt:       now,
		ExpiresAt:       now.Add(ttl),
	}
}

// Expired reports whether now is strictly past the expiry instant.
func (o Order) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
