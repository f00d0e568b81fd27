// Package recovery converts handler panics into the service's JSON 500 body.
package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/api/respond"
)

// Middleware must sit inside the request logger so the per-request logger
// and X-Request-ID are already set when a recipe handler panics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			l := zerolog.Ctx(r.Context())
			if l.GetLevel() == zerolog.Disabled {
				l = &log.Logger
			}
			l.Error().
				Str("panic", fmt.Sprint(rec)).
				Str("route", r.Method+" "+r.URL.Path).
				Str("request_id", w.Header().Get("X-Request-ID")).
				Bytes("stack", debug.Stack()).
				Msg("recipe handler panicked")
			respond.WriteInternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
