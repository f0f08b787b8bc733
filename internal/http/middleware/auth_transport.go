package middleware

import (
	"net/http"

	"golang.org/x/oauth2"
)

// BearerToken attaches the source's token when one is available. Requests
// go out unauthenticated when the source has no token.
func BearerToken(src oauth2.TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if src == nil || r.Header.Get("Authorization") != "" {
				return next.RoundTrip(r)
			}
			tok, err := src.Token()
			if err != nil || tok == nil || tok.AccessToken == "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			tok.SetAuthHeader(r)
			return next.RoundTrip(r)
		})
	}
}
