package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/plutov/paypal/v4"
)

const (
	paypalIntentCapture   = "CAPTURE"
	paypalStatusCompleted = "COMPLETED"

	paypalIssueAlreadyCaptured = "ORDER_ALREADY_CAPTURED"
)

// PayPal creates and captures orders with the PayPal v2 orders API.
type PayPal struct {
	Client *paypal.Client
}

func NewPayPal(cl *paypal.Client) *PayPal {
	return &PayPal{Client: cl}
}

// CreateOrder opens a provider order for a single course and returns its id.
func (p *PayPal) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	value := req.Amount.StringFixed(2)

	units := []paypal.PurchaseUnitRequest{{
		ReferenceID: req.CourseID,
		Description: req.Title,

		Items: []paypal.Item{{
			Quantity: "1",
			Name:     req.Title,

			UnitAmount: &paypal.Money{
				Currency: req.Currency,
				Value:    value,
			},
		}},

		Amount: &paypal.PurchaseUnitAmount{
			Currency: req.Currency,
			Value:    value,

			Breakdown: &paypal.PurchaseUnitAmountBreakdown{ItemTotal: &paypal.Money{
				Currency: req.Currency,
				Value:    value,
			}},
		},
	}}

	app := &paypal.ApplicationContext{
		ReturnURL: req.ReturnURL,
		CancelURL: req.CancelURL,
	}

	ord, err := p.Client.CreateOrder(ctx, paypalIntentCapture, units, nil, app)
	if err != nil {
		return "", fmt.Errorf("creating paypal order for course[%s]: %w", req.CourseID, err)
	}

	if ord.ID == "" {
		return "", errors.New("paypal returned an order without id")
	}

	return ord.ID, nil
}

// ApprovalURL returns the link the buyer follows to approve the order.
func (p *PayPal) ApprovalURL(ctx context.Context, providerOrderID string) (string, error) {
	ord, err := p.Client.GetOrder(ctx, providerOrderID)
	if err != nil {
		return "", fmt.Errorf("fetching paypal order[%s]: %w", providerOrderID, err)
	}

	for _, l := range ord.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			return l.Href, nil
		}
	}

	return "", fmt.Errorf("paypal order[%s] has no approval link", providerOrderID)
}

// CaptureOrder settles an approved order. It returns the ledger transaction
// id when the capture completed and an empty id when PayPal reports any other
// status. Orders PayPal refuses to capture yield ErrDeclined, except orders an
// earlier attempt already captured, which report their transaction id again.
func (p *PayPal) CaptureOrder(ctx context.Context, providerOrderID string) (string, error) {
	resp, err := p.Client.CaptureOrder(ctx, providerOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		var perr *paypal.ErrorResponse
		if !errors.As(err, &perr) || perr.Response == nil || perr.Response.StatusCode != http.StatusUnprocessableEntity {
			return "", fmt.Errorf("capturing paypal order[%s]: %w", providerOrderID, err)
		}

		if alreadyCaptured(perr) {
			return p.capturedOrder(ctx, providerOrderID)
		}
		return "", fmt.Errorf("capturing paypal order[%s]: %s: %w", providerOrderID, perr.Message, ErrDeclined)
	}

	if resp.Status != paypalStatusCompleted {
		return "", nil
	}

	return PaypalTransactionPrefix + providerOrderID, nil
}

// capturedOrder confirms with PayPal that an order reported as captured is
// completed.
func (p *PayPal) capturedOrder(ctx context.Context, providerOrderID string) (string, error) {
	ord, err := p.Client.GetOrder(ctx, providerOrderID)
	if err != nil {
		return "", fmt.Errorf("fetching captured paypal order[%s]: %w", providerOrderID, err)
	}

	if ord.Status != paypalStatusCompleted {
		return "", fmt.Errorf("paypal order[%s] reported captured in status %s: %w", providerOrderID, ord.Status, ErrDeclined)
	}

	return PaypalTransactionPrefix + providerOrderID, nil
}

func alreadyCaptured(perr *paypal.ErrorResponse) bool {
	for _, d := range perr.Details {
		if d.Issue == paypalIssueAlreadyCaptured {
			return true
		}
	}
	return false
}
