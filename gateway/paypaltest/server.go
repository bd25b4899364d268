// Package paypaltest runs an in-process stand-in for the PayPal orders API.
package paypaltest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
	"github.com/plutov/paypal/v4"
)

// Server records created orders and captures them on demand.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	seq      int
	orders   map[string]paypal.PurchaseUnitRequest
	captures map[string]int
	captured map[string]bool
	decline  map[string]bool
	pending  map[string]bool
}

func NewServer() *Server {
	s := &Server{
		orders:   make(map[string]paypal.PurchaseUnitRequest),
		captures: make(map[string]int),
		captured: make(map[string]bool),
		decline:  make(map[string]bool),
		pending:  make(map[string]bool),
	}

	r := mux.NewRouter()
	r.HandleFunc("/v1/oauth2/token", s.token).Methods(http.MethodPost)
	r.HandleFunc("/v2/checkout/orders", s.create).Methods(http.MethodPost)
	r.HandleFunc("/v2/checkout/orders/{id}", s.show).Methods(http.MethodGet)
	r.HandleFunc("/v2/checkout/orders/{id}/capture", s.capture).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

// Client returns an authenticated PayPal client pointed at the server.
func (s *Server) Client() (*paypal.Client, error) {
	cl, err := paypal.NewClient("client-id", "secret", s.URL)
	if err != nil {
		return nil, err
	}

	if _, err := cl.GetAccessToken(context.Background()); err != nil {
		return nil, err
	}
	return cl, nil
}

// Decline makes captures of the order fail with 422.
func (s *Server) Decline(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.decline[id] = true
}

// HoldPending makes captures of the order report a non-completed status.
func (s *Server) HoldPending(id string, hold bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[id] = hold
}

// Capture completes the order on the provider side only, as if the caller of
// an earlier capture never saw the response.
func (s *Server) Capture(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.captured[id] {
		s.captured[id] = true
		s.captures[id]++
	}
}

// Unit returns the purchase unit the order was created with.
func (s *Server) Unit(id string) (paypal.PurchaseUnitRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.orders[id]
	return u, ok
}

// Captures returns how many capture calls completed the order. PayPal
// completes an order at most once.
func (s *Server) Captures(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.captures[id]
}

// ApprovalURL is the approval link reported for an order.
func (s *Server) ApprovalURL(id string) string {
	return s.URL + "/checkoutnow?token=" + id
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]any{
		"access_token": "token",
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Intent string                       `json:"intent"`
		Units  []paypal.PurchaseUnitRequest `json:"purchase_units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Intent != "CAPTURE" || len(in.Units) != 1 || in.Units[0].Amount == nil {
		respond(w, http.StatusBadRequest, map[string]any{"name": "INVALID_REQUEST", "message": "malformed order"})
		return
	}

	s.mu.Lock()
	s.seq++
	id := fmt.Sprintf("ORDER-%04d", s.seq)
	s.orders[id] = in.Units[0]
	s.mu.Unlock()

	respond(w, http.StatusCreated, paypal.Order{ID: id, Status: "CREATED"})
}

func (s *Server) show(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.orders[id]
	status := "CREATED"
	if s.captured[id] {
		status = "COMPLETED"
	}
	s.mu.Unlock()

	if !ok {
		respond(w, http.StatusNotFound, map[string]any{"name": "RESOURCE_NOT_FOUND", "message": "unknown order"})
		return
	}

	respond(w, http.StatusOK, paypal.Order{
		ID:     id,
		Status: status,
		Links: []paypal.Link{
			{Href: s.URL + "/v2/checkout/orders/" + id, Rel: "self", Method: http.MethodGet},
			{Href: s.ApprovalURL(id), Rel: "approve", Method: http.MethodGet},
		},
	})
}

func (s *Server) capture(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	_, ok := s.orders[id]
	decline := s.decline[id]
	pending := s.pending[id]
	captured := s.captured[id]
	if ok && !decline && !pending && !captured {
		s.captured[id] = true
		s.captures[id]++
	}
	s.mu.Unlock()

	switch {
	case !ok:
		respond(w, http.StatusNotFound, map[string]any{"name": "RESOURCE_NOT_FOUND", "message": "unknown order"})
	case decline:
		respond(w, http.StatusUnprocessableEntity, map[string]any{"name": "UNPROCESSABLE_ENTITY", "message": "ORDER_NOT_APPROVED"})
	case captured:
		respond(w, http.StatusUnprocessableEntity, map[string]any{
			"name":    "UNPROCESSABLE_ENTITY",
			"message": "The requested action could not be performed.",
			"details": []map[string]any{{"issue": "ORDER_ALREADY_CAPTURED", "description": "Order already captured."}},
		})
	case pending:
		respond(w, http.StatusCreated, map[string]any{"id": id, "status": "PAYER_ACTION_REQUIRED"})
	default:
		respond(w, http.StatusCreated, map[string]any{"id": id, "status": "COMPLETED"})
	}
}

func respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
