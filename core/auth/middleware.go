package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/irsalhamdi/course-market/api/web"
	"github.com/irsalhamdi/course-market/api/weberr"
	"github.com/irsalhamdi/course-market/core/claims"
)

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the caller's claims in the request context.
func Authenticate(tokens *Tokens) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			header := r.Header.Get("Authorization")
			if header == "" {
				return weberr.NotAuthorized(errors.New("no token provided"))
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return weberr.NotAuthorized(errors.New("invalid authorization header"))
			}

			clm, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return weberr.NotAuthorized(err)
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

// Admin is Authenticate restricted to callers with the admin role.
func Admin(tokens *Tokens) web.Middleware {
	authen := Authenticate(tokens)

	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !claims.IsAdmin(ctx) {
				return weberr.Forbidden(errors.New("admin role required"))
			}
			return handler(ctx, w, r)
		}
		return authen(h)
	}
	return m
}
