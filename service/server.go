// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/memvault/adapter"
)

const (
	// DefaultAppName and DefaultVersion appear on / and /health unless overridden.
	DefaultAppName = "memvault"
	DefaultVersion = "0.1.0"

	// shutdownTimeout bounds how long in-flight requests may run after the
	// serve context is cancelled.
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP façade over a single adapter.
type Server struct {
	adapter adapter.Adapter

	appName     string
	version     string
	corsOrigins []string
	rateRPS     float64
	rateBurst   int
	logger      *slog.Logger

	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAppInfo sets the name and version reported by / and /health.
func WithAppInfo(name, version string) Option {
	return func(s *Server) {
		if name != "" {
			s.appName = name
		}
		if version != "" {
			s.version = version
		}
	}
}

// WithCORSOrigins restricts cross-origin callers. "*" or no origins allows all.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithRateLimit enables per-client rate limiting. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rateRPS = rps
		s.rateBurst = burst
	}
}

// New builds a server around a. A nil adapter is allowed and keeps every
// gated route answering 503.
func New(a adapter.Adapter, opts ...Option) *Server {
	s := &Server{
		adapter: a,
		appName: DefaultAppName,
		version: DefaultVersion,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "service")
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("POST /dialogue", s.requireReady(s.handleAddDialogue))
	mux.Handle("POST /dialogues", s.requireReady(s.handleAddDialogues))
	mux.Handle("POST /finalize", s.requireReady(s.handleFinalize))
	mux.Handle("POST /query", s.requireReady(s.handleQuery))
	mux.Handle("POST /ask", s.requireReady(s.handleQuery))
	mux.Handle("GET /retrieve", s.requireReady(s.handleRetrieve))
	mux.Handle("DELETE /memory/{entry_id}", s.requireReady(s.handleDeleteMemory))
	mux.Handle("GET /stats", s.requireReady(s.handleStats))
	mux.Handle("DELETE /clear", s.requireReady(s.handleClear))

	var h http.Handler = mux
	if s.rateRPS > 0 {
		h = newRateLimiter(s.rateRPS, s.rateBurst).middleware(h)
	}
	h = s.withCORS(h)
	h = s.withLogging(h)
	return withRequestID(h)
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ready() bool {
	return s.adapter != nil && s.adapter.IsInitialized()
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "ready", s.ready())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
