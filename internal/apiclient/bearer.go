package apiclient

import (
	"net/http"

	"golang.org/x/oauth2"
)

// WithBearer returns a copy of h carrying "Authorization: Bearer <token>".
// An empty token returns an unmodified copy. h itself is never mutated.
func WithBearer(h http.Header, token string) http.Header {
	out := h.Clone()
	if out == nil {
		out = make(http.Header)
	}
	if token == "" {
		return out
	}
	carrier := &http.Request{Header: out}
	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(carrier)
	return carrier.Header
}
