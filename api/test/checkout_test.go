package test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/irsalhamdi/course-market/api/weberr"
	"github.com/irsalhamdi/course-market/core/payment"
	"github.com/irsalhamdi/course-market/core/purchase"
)

func TestCardCheckout(t *testing.T) {
	env, err := NewTestEnv(t, "checkout_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	pt := &purchaseTest{TestEnv: env}
	pt.createCourseOK(t, "go-basics", "$9.50")
	pt.token = pt.Signup(t, "u1@example.com")

	bad := purchase.CheckoutRequest{
		CourseID:      "go-basics",
		PaymentMethod: payment.MethodCreditCard,
		CardDetails:   &purchase.Card{Number: "4111111111111111", CVV: "123", ExpiryMonth: "13", ExpiryYear: "2030"},
	}

	var e weberr.ErrorResponse
	status := pt.Do(t, http.MethodPost, "/purchases/checkout", pt.token, bad, &e)
	if status != http.StatusBadRequest || e.Reason != weberr.ReasonInvalidInstrument || !strings.Contains(e.Message, "expiryMonth") {
		t.Fatalf("invalid month: status %d %+v", status, e)
	}

	var history []payment.Record
	pt.Do(t, http.MethodGet, "/purchases/history", pt.token, nil, &history)
	if len(history) != 0 {
		t.Fatalf("invalid card wrote payments %+v", history)
	}

	paypal := purchase.CheckoutRequest{CourseID: "go-basics", PaymentMethod: payment.MethodPaypal}
	if status := pt.Do(t, http.MethodPost, "/purchases/checkout", pt.token, paypal, &e); status != http.StatusBadRequest {
		t.Fatalf("paypal through checkout: status %d", status)
	}

	good := bad
	good.CardDetails = &purchase.Card{Number: "4111 1111 1111 1111", CVV: "123", ExpiryMonth: "12", ExpiryYear: "2099"}

	var paid purchase.PaymentResponse
	status = pt.Do(t, http.MethodPost, "/purchases/checkout", pt.token, good, &paid)
	if status != http.StatusOK || !paid.Success || !strings.HasPrefix(paid.TransactionID, "CC-") {
		t.Fatalf("checkout: status %d %+v", status, paid)
	}

	status = pt.Do(t, http.MethodPost, "/purchases/checkout", pt.token, good, &e)
	if status != http.StatusBadRequest || e.Reason != weberr.ReasonAlreadyPurchased {
		t.Fatalf("buying twice: status %d %+v", status, e)
	}

	if owned := pt.ownedCourses(t); len(owned) != 1 || owned[0] != "go-basics" {
		t.Fatalf("owned courses = %v", owned)
	}
}

func TestProgress(t *testing.T) {
	env, err := NewTestEnv(t, "progress_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	pt := &purchaseTest{TestEnv: env}
	pt.createCourseOK(t, "go-basics", "$9.50")
	pt.createCourseOK(t, "ts-mastery", "$16.99")
	pt.token = pt.Signup(t, "u1@example.com")

	req := purchase.CheckoutRequest{
		CourseID:      "go-basics",
		PaymentMethod: payment.MethodCreditCard,
		CardDetails:   &purchase.Card{Number: "4111111111111111", CVV: "123", ExpiryMonth: "12", ExpiryYear: "2099"},
	}
	if status := pt.Do(t, http.MethodPost, "/purchases/checkout", pt.token, req, nil); status != http.StatusOK {
		t.Fatalf("checkout: status %d", status)
	}

	type progress struct {
		Progress int `json:"progress"`
	}

	for _, tt := range []struct{ in, want int }{{150, 100}, {-5, 0}, {40, 40}} {
		var out progress
		status := pt.Do(t, http.MethodPut, "/purchases/courses/go-basics/progress", pt.token, progress{tt.in}, &out)
		if status != http.StatusOK || out.Progress != tt.want {
			t.Fatalf("progress %d: status %d stored %d, want %d", tt.in, status, out.Progress, tt.want)
		}
	}

	status := pt.Do(t, http.MethodPut, "/purchases/courses/ts-mastery/progress", pt.token, progress{10}, nil)
	if status != http.StatusNotFound {
		t.Fatalf("progress on a course not owned: status %d", status)
	}
}

func TestHealth(t *testing.T) {
	env, err := NewTestEnv(t, "health_test")
	if err != nil {
		t.Fatalf("initializing test env: %v", err)
	}

	var out struct {
		Status string `json:"status"`
	}
	if status := env.Do(t, http.MethodGet, "/health", "", nil, &out); status != http.StatusOK || out.Status != "ok" {
		t.Fatalf("health: status %d %+v", status, out)
	}
}
