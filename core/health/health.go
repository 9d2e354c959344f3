// Package health serves liveness and readiness probes for the bot process.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/historybot/core/logger"
)

// Probe tracks readiness; it is live as soon as it exists.
type Probe struct {
	component string
	ready     atomic.Bool
	started   time.Time
}

// NewProbe returns a probe for the named component, not yet ready.
func NewProbe(component string) *Probe {
	return &Probe{component: component, started: time.Now()}
}

// SetReady flips the readiness flag.
func (p *Probe) SetReady(v bool) { p.ready.Store(v) }

// Ready reports the readiness flag.
func (p *Probe) Ready() bool { return p.ready.Load() }

type status struct {
	Status    string `json:"status"`
	Component string `json:"component"`
	UptimeS   int64  `json:"uptime_s"`
}

// Handler exposes GET /healthz and GET /readyz.
func (p *Probe) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		p.write(w, http.StatusOK, "ok")
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !p.Ready() {
			p.write(w, http.StatusServiceUnavailable, "starting")
			return
		}
		p.write(w, http.StatusOK, "ready")
	})
	return r
}

func (p *Probe) write(w http.ResponseWriter, code int, state string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status{
		Status:    state,
		Component: p.component,
		UptimeS:   int64(time.Since(p.started).Seconds()),
	})
}

// Server is a running health endpoint.
type Server struct {
	srv  *http.Server
	addr string
	done chan struct{}
}

// Addr returns the bound listen address.
func (s *Server) Addr() string { return s.addr }

// Start binds listen and serves the probe until ctx is done or Shutdown is called.
func Start(ctx context.Context, listen string, p *Probe) (*Server, error) {
	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return nil, fmt.Errorf("health: listen %s: %w", listen, err)
	}
	s := &Server{
		srv: &http.Server{
			Handler:           p.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		addr: ln.Addr().String(),
		done: make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "health", "health.serve_failed",
				slog.String("addr", s.addr),
				slog.String("err", err.Error()),
			)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Shutdown(context.Background())
		case <-s.done:
		}
	}()

	logger.Info(ctx, "health", "health.listen", slog.String("addr", s.addr))
	return s, nil
}

// Shutdown stops the server gracefully within two seconds.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	<-s.done
	return err
}
