// Package httpapi serves the threads API over JSON/HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/pulse/internal/logging"
	"github.com/dmitrijs2005/pulse/internal/server/threads"
	"github.com/dmitrijs2005/pulse/internal/server/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// Stats counts handled requests per endpoint.
type Stats struct {
	Login        int64
	Register     int64
	Me           int64
	Refresh      int64
	ListThreads  int64
	CreateThread int64
	Subscribe    int64
	Unsubscribe  int64
	Unauthorized int64
}

type counters struct {
	login, register, me, refresh                               atomic.Int64
	listThreads, createThread, subscribe, unsubscribe, unauthz atomic.Int64
}

type Server struct {
	address string
	users   *users.Service
	threads *threads.Service
	logger  logging.Logger
	stats   counters
	handler http.Handler
}

func NewServer(address string, l logging.Logger, us *users.Service, ts *threads.Service) *Server {
	s := &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		users:   us,
		threads: ts,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		s.requestLogger,
	)

	r.Post("/auth/login", s.login)
	r.Post("/auth/register", s.register)
	r.Post("/auth/refresh", s.refresh)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/auth/me", s.me)
		r.Get("/thread/all", s.listThreads)
		r.Post("/thread", s.createThread)
		r.Post("/thread/{id}/subscribe", s.subscribe)
		r.Delete("/thread/{id}/subscribe", s.unsubscribe)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Stats() Stats {
	return Stats{
		Login:        s.stats.login.Load(),
		Register:     s.stats.register.Load(),
		Me:           s.stats.me.Load(),
		Refresh:      s.stats.refresh.Load(),
		ListThreads:  s.stats.listThreads.Load(),
		CreateThread: s.stats.createThread.Load(),
		Subscribe:    s.stats.subscribe.Load(),
		Unsubscribe:  s.stats.unsubscribe.Load(),
		Unauthorized: s.stats.unauthz.Load(),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
