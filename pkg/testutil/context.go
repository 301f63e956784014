package testutil

import (
	"net/http"
	"time"

	"veritrust/pkg/requestcontext"
)

// WithBearer sets a placeholder bearer token, which is all the auth
// middleware checks for.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// WithRequestTime pins the request-scoped clock so ledger timestamps are
// predictable.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
