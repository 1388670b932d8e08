package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
)

// Recover recovers from panics and logs the error. The stack trace is
// included in the response only in development mode.
func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				m.log.Error().
					Interface("error", err).
					Str("stack", stack).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("panic recovered")

				resp := map[string]interface{}{
					"error":   fmt.Sprint(err),
					"message": "Internal Server Error",
				}
				if m.cfg.IsDevelopment() {
					resp["stack"] = stack
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(resp)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
