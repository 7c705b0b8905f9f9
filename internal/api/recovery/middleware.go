// Package recovery turns handler panics into the keepsake error envelope so
// one bad request cannot take the whole service process down with it.
package recovery

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/keepsakehq/keepsake/server/internal/api/respond"
)

// Middleware recovers panics raised below it, logs the stack with request
// context, and answers 500 using the same envelope the handlers use. A panic
// after the handler has started writing cannot be unwritten; the log entry is
// the useful part in that case.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Error().
				Interface("panic", rec).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote", r.RemoteAddr).
				Bytes("stack", debug.Stack()).
				Msg("request handler panicked")
			respond.WriteInternalError(w, "unexpected server error")
		}()
		next.ServeHTTP(w, r)
	})
}
