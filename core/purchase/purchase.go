// Package purchase runs the course purchase workflow: PayPal order creation
// and capture, direct card checkout, and the atomic write of a payment
// together with the entitlement it pays for.
package purchase

import (
	"context"
	"errors"
	"time"

	"github.com/irsalhamdi/course-market/gateway"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrPendingOrderNotFound = errors.New("pending order not found")
	ErrAlreadyPurchased     = errors.New("course already purchased")
	ErrOrderExpired         = errors.New("order expired, please start the payment again")
	ErrProviderDeclined     = errors.New("payment was not completed by the provider")
	ErrInvalidInstrument    = errors.New("invalid payment instrument")
	ErrUseRedirectFlow      = errors.New("paypal payments must go through create-order and capture-order")
	ErrUnknownMethod        = errors.New("unknown payment method")
)

// Gateway is the redirect based payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (string, error)
	ApprovalURL(ctx context.Context, providerOrderID string) (string, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (string, error)
}

// CardProcessor charges a card whose details were already validated.
type CardProcessor interface {
	Charge(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
}

// Runner runs housekeeping outside of the request.
type Runner interface {
	Go(fn func())
}

type Config struct {
	Currency       string
	PendingTTL     time.Duration
	GatewayTimeout time.Duration
	FrontendURL    string
}

type Outcome int

const (
	Completed Outcome = iota + 1
	AlreadyOwned
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "COMPLETED"
	case AlreadyOwned:
		return "ALREADY_OWNED"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of a purchase attempt that did not fail. A caller
// that already owns the course gets AlreadyOwned instead of an error, so
// retried captures stay successful.
type Result struct {
	Outcome       Outcome
	TransactionID string
	PaymentID     string
}

type CreatedOrder struct {
	OrderID     string
	ApprovalURL string
	CourseID    string
}
