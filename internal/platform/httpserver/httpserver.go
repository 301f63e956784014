package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Write timeouts stay above the ledger connect and
// operation budgets so a degraded backend still answers within one request.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
