// Package httpserver wraps http.Server construction so timeouts stay
// consistent and main stays small.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server with conservative timeouts. Request bodies are
// tiny JSON documents from a local extension; anything slow is a stuck peer.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
