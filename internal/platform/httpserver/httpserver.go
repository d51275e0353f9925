package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with the timeouts every listener here uses. The
// write timeout leaves room for the handler timeout plus the response.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
