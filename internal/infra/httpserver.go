package infra

import (
	"context"
	"net/http"
	"time"
)

// Uploads (receipts, logos) arrive as multipart bodies, so header size stays
// at a tight 64 KiB while bodies are capped by the handlers themselves.
const maxHeaderBytes = 64 << 10

// HTTPServer wraps http.Server with the timeouts from Config and graceful
// shutdown for the API process.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the server around the assembled router.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		MaxHeaderBytes:    maxHeaderBytes,
	}

	return &HTTPServer{server: srv}
}

// Addr returns the listen address for startup logging.
func (s *HTTPServer) Addr() string {
	if s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start runs the HTTP server in the current goroutine.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting new connections and drains in-flight requests
// until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
