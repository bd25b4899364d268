package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/irsalhamdi/course-market/api/web"
	"github.com/irsalhamdi/course-market/api/weberr"
)

// Panics turns a panic in the handler chain into an error so the Errors
// middleware can log it and answer with a 500.
func Panics() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = weberr.Annotate(
						fmt.Errorf("PANIC [%v]", rec),
						map[string]any{"trace": string(debug.Stack())},
					)
				}
			}()

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
