package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/course-market/api/web"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

// Logger writes one line per request, keyed by the route template so that
// captures of different orders group together.
func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			start := time.Now()

			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			entry := log.WithFields(logrus.Fields{
				"req_id":      ContextRequestID(ctx),
				"method":      r.Method,
				"route":       routeTemplate(r),
				"status":      lw.Status(),
				"bytes":       lw.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if lw.Status() >= http.StatusInternalServerError {
				entry.Warn("request failed")
			} else {
				entry.Info("request served")
			}

			return err
		}
		return h
	}
	return m
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
