package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/course-market/api/web"
	"github.com/irsalhamdi/course-market/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs every error returned by the handler chain and writes its
// decorated response. Undecorated errors never reach the client; they are
// answered with a generic 500 body.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields(weberr.Fields(err))
			fields["req_id"] = ContextRequestID(ctx)
			fields["message"] = err

			body, code, ok := weberr.Response(err)
			if !ok {
				body = &weberr.ErrorResponse{Message: "internal server error", Reason: weberr.ReasonInternal}
				code = http.StatusInternalServerError
			}

			if code >= http.StatusInternalServerError {
				log.WithFields(fields).Error("ERROR")
			} else {
				log.WithFields(fields).Warn("request rejected")
			}

			return web.Respond(ctx, w, body, code)
		}
		return h
	}
	return m
}
