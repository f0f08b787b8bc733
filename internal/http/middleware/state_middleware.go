package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/sandeepkv93/shophub-client/internal/http/response"
)

const StateParam = "state"

// CallbackState rejects callbacks whose state parameter does not match the
// one issued with the sign-in URL.
func CallbackState(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.URL.Query().Get(StateParam)
			if expected == "" || got == "" {
				response.Error(w, r, http.StatusForbidden, "STATE_MISSING", "missing oauth state", nil)
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				response.Error(w, r, http.StatusForbidden, "STATE_MISMATCH", "oauth state mismatch", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
