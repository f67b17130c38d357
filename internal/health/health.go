// Package health serves the operational HTTP endpoints of the bot.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/ratebot/core/buildinfo"
	"github.com/m3rciful/ratebot/core/logger"
)

const checkTimeout = 3 * time.Second

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Response is the JSON body of /healthz.
type Response struct {
	Status     string                `json:"status"`
	Version    string                `json:"version"`
	Components map[string]CompStatus `json:"components,omitempty"`
}

// CompStatus is the status of one dependency.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Handler builds the chi router exposing /healthz and /version.
func Handler(checks map[string]Check) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", healthz(checks))
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Current())
	})
	return r
}

func healthz(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := Response{Status: "ok", Version: buildinfo.Current().Version}
		if len(names) > 0 {
			resp.Components = make(map[string]CompStatus, len(names))
		}
		for _, name := range names {
			start := time.Now()
			if err := checks[name](ctx); err != nil {
				resp.Status = "down"
				resp.Components[name] = CompStatus{Status: "down"}
				logger.Warn(ctx, logger.CompHealth, "health.check",
					slog.String("status", "fail"),
					slog.String("check", name),
					slog.String("err", err.Error()),
				)
				continue
			}
			resp.Components[name] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
		}

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Server runs the health endpoints on their own listener.
type Server struct {
	srv *http.Server
}

// NewServer returns a server listening on addr.
func NewServer(addr string, checks map[string]Check) *Server {
	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           Handler(checks),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	logger.Info(ctx, logger.CompHealth, "health.listen",
		slog.String("status", "ok"),
		slog.String("addr", ln.Addr().String()),
	)
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), logger.CompHealth, "health.serve",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
