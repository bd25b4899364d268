package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/irsalhamdi/course-market/api/web"
)

const (
	RequestIDHeader = "X-Request-Id"

	maxRequestIDLen = 64
)

type ctxKey int

const requestIDKey ctxKey = 1

// RequestID tags the request with the caller's X-Request-Id when it is a
// plain token, and with a fresh uuid otherwise. The id is echoed back.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			id := r.Header.Get(RequestIDHeader)
			if !plainToken(id) {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			return handler(context.WithValue(ctx, requestIDKey, id), w, r)
		}
		return h
	}
	return m
}

// ContextRequestID returns the id RequestID stored in ctx, if any.
func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// plainToken keeps ids that end up in log lines to letters, digits and a few
// separators.
func plainToken(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}

	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.':
		default:
			return false
		}
	}
	return true
}
