package purchase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/course-market/api/web"
	"github.com/irsalhamdi/course-market/api/weberr"
	"github.com/irsalhamdi/course-market/core/claims"
	"github.com/irsalhamdi/course-market/core/course"
	"github.com/irsalhamdi/course-market/core/payment"
	"github.com/irsalhamdi/course-market/validate"
)

type CreateOrderRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	BaseURL  string `json:"baseUrl" validate:"omitempty,url"`
}

type CreateOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     string `json:"orderId"`
	ApprovalURL string `json:"approvalUrl"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type CheckoutRequest struct {
	CourseID      string         `json:"courseId" validate:"required"`
	PaymentMethod payment.Method `json:"paymentMethod" validate:"required"`
	CardDetails   *Card          `json:"cardDetails"`
}

type PaymentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId,omitempty"`
}

type PendingOrderResponse struct {
	Success  bool   `json:"success"`
	CourseID string `json:"courseId"`
	OrderID  string `json:"orderId"`
}

func HandleCreateOrder(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in CreateOrderRequest
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		ord, err := svc.CreateOrder(ctx, clm.UserID, in.CourseID, in.BaseURL)
		if err != nil {
			return toWebError(err, map[string]any{"user_id": clm.UserID, "course_id": in.CourseID})
		}

		resp := CreateOrderResponse{
			Success:     true,
			OrderID:     ord.OrderID,
			ApprovalURL: ord.ApprovalURL,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

func HandleCaptureOrder(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in CaptureOrderRequest
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		res, err := svc.CaptureOrder(ctx, clm.UserID, in.OrderID)
		if err != nil {
			return toWebError(err, map[string]any{"user_id": clm.UserID, "order_id": in.OrderID})
		}

		return web.Respond(ctx, w, paymentResponse(res), http.StatusOK)
	}
}

func HandlePendingOrder(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		po, err := svc.PendingOrder(ctx, clm.UserID, web.Param(r, "order_id"))
		if err != nil {
			return toWebError(err, map[string]any{"user_id": clm.UserID, "order_id": web.Param(r, "order_id")})
		}

		resp := PendingOrderResponse{
			Success:  true,
			CourseID: po.CourseID,
			OrderID:  po.ProviderOrderID,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

func HandleCheckout(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var in CheckoutRequest
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		res, err := svc.Checkout(ctx, clm.UserID, in.CourseID, in.PaymentMethod, in.CardDetails)
		if err != nil {
			return toWebError(err, map[string]any{"user_id": clm.UserID, "course_id": in.CourseID, "method": in.PaymentMethod})
		}

		return web.Respond(ctx, w, paymentResponse(res), http.StatusOK)
	}
}

func HandleHistory(svc *Service) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		history, err := svc.History(ctx, clm.UserID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, history, http.StatusOK)
	}
}

func paymentResponse(res Result) PaymentResponse {
	msg := "payment completed successfully"
	if res.Outcome == AlreadyOwned {
		msg = "course already purchased"
	}

	return PaymentResponse{
		Success:       true,
		Message:       msg,
		TransactionID: res.TransactionID,
	}
}

// toWebError decorates the purchase errors a caller can act on and attaches
// fields to every error for the log line. Errors without a decoration are
// answered with a generic 500.
func toWebError(err error, fields map[string]any) error {
	var ie *InstrumentError
	withFields := weberr.WithFields(fields)

	switch {
	case errors.As(err, &ie):
		return weberr.NewError(err, weberr.ReasonInvalidInstrument, ie.Error(), http.StatusBadRequest,
			withFields, weberr.WithFields(map[string]any{"field": ie.Field}))
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCourseNotFound),
		errors.Is(err, ErrPendingOrderNotFound):
		return weberr.NewError(err, weberr.ReasonNotFound, err.Error(), http.StatusNotFound, withFields)
	case errors.Is(err, ErrAlreadyPurchased):
		return weberr.NewError(err, weberr.ReasonAlreadyPurchased, ErrAlreadyPurchased.Error(), http.StatusBadRequest, withFields)
	case errors.Is(err, ErrOrderExpired):
		return weberr.NewError(err, weberr.ReasonOrderExpired, ErrOrderExpired.Error(), http.StatusBadRequest, withFields)
	case errors.Is(err, ErrProviderDeclined):
		return weberr.NewError(err, weberr.ReasonProviderDeclined, ErrProviderDeclined.Error(), http.StatusBadRequest, withFields)
	case errors.Is(err, course.ErrInvalidPrice):
		return weberr.NewError(err, weberr.ReasonBadRequest, "course cannot be purchased at its current price", http.StatusBadRequest, withFields)
	case errors.Is(err, ErrUseRedirectFlow), errors.Is(err, ErrUnknownMethod):
		return weberr.BadRequest(err, withFields)
	}

	return weberr.Annotate(err, fields)
}
