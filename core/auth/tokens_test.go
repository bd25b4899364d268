package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/course-market/api/middleware"
	"github.com/irsalhamdi/course-market/api/web"
	"github.com/irsalhamdi/course-market/core/claims"
	"github.com/sirupsen/logrus"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens(testKey, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	want := claims.Claims{UserID: "u1", Role: claims.RoleUser}
	tok, err := tokens.Sign(want, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	got, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parsing token: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected claims (-want +got):\n%s", diff)
	}
}

func TestTokensRejected(t *testing.T) {
	tokens, _ := NewTokens(testKey, time.Hour)
	other, _ := NewTokens("ffffffffffffffffffffffffffffffff", time.Hour)

	expired, _ := tokens.Sign(claims.Claims{UserID: "u1"}, time.Now().Add(-2*time.Hour))
	foreign, _ := other.Sign(claims.Claims{UserID: "u1"}, time.Now())

	for name, tok := range map[string]string{"expired": expired, "foreign": foreign, "garbage": "a.b.c"} {
		if _, err := tokens.Parse(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}

	if _, err := NewTokens("short", time.Hour); err == nil {
		t.Error("expected a short key to be refused")
	}
}

func TestAuthenticate(t *testing.T) {
	tokens, _ := NewTokens(testKey, time.Hour)
	log := logrus.New()
	log.SetOutput(io.Discard)

	var seen claims.Claims
	h := web.WrapMiddleware(
		[]web.Middleware{middleware.Errors(log), Authenticate(tokens)},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			seen, _ = claims.Get(ctx)
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		},
	)

	call := func(header string) int {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		if err := h(r.Context(), w, r); err != nil {
			t.Fatal(err)
		}
		return w.Code
	}

	if code := call(""); code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", code)
	}
	if code := call("Basic abc"); code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: expected 401, got %d", code)
	}

	tok, _ := tokens.Sign(claims.Claims{UserID: "u7", Role: claims.RoleUser}, time.Now())
	if code := call("Bearer " + tok); code != http.StatusNoContent {
		t.Fatalf("valid token: expected 204, got %d", code)
	}
	if seen.UserID != "u7" {
		t.Fatalf("expected claims for u7, got %+v", seen)
	}
}
