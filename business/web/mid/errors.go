package mid

import (
	"context"
	"net/http"

	"github.com/EmekaIwuagwu/aurelis-blockchain/business/web/errs"
	"github.com/EmekaIwuagwu/aurelis-blockchain/foundation/web"
	"go.uber.org/zap"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a uniform
// way. Unexpected errors (status >= 500) are logged.
func Errors(log *zap.SugaredLogger) web.Middleware {

	m := func(handler web.Handler) web.Handler {

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if err := handler(ctx, w, r); err != nil {
				log.Errorw("ERROR", "traceid", web.GetTraceID(ctx), "message", err)

				var er errs.Response
				var status int
				switch {
				case errs.IsTrusted(err):
					trs := errs.GetTrusted(err)
					er = errs.Response{Error: trs.Error()}
					status = trs.Status

				default:
					er = errs.Response{Error: http.StatusText(http.StatusInternalServerError)}
					status = http.StatusInternalServerError
				}

				if err := web.Respond(ctx, w, er, status); err != nil {
					return err
				}
			}

			return nil
		}

		return h
	}

	return m
}
