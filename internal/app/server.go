// Package app wires the ledgers, views, and optional persistence into the
// watch HTTP JSON service.
//
// The service is a thin adapter: the ledgers validate and reject input, the
// analysis and view packages derive reports, and the handlers only translate
// between JSON and domain types. Timestamps are always caller-supplied.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/cardhall/pitwatch/internal/flow"
	"github.com/cardhall/pitwatch/internal/risk"
	"github.com/cardhall/pitwatch/internal/signal"
	"github.com/cardhall/pitwatch/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const shutdownTimeout = 10 * time.Second

// Options configures the watch service.
type Options struct {
	// Store enables write-through persistence and reload when set.
	Store storage.RecordStore
}

// Server holds the three ledgers and serves the JSON API.
type Server struct {
	signals *signal.Ledger
	rules   *risk.Ledger
	flows   *flow.Ledger
	store   storage.RecordStore
	tracer  trace.Tracer
}

// NewServer builds a server, reloading persisted ledgers when a store is
// configured. Reloaded chains are verified before the server accepts them.
func NewServer(ctx context.Context, opts Options) (*Server, error) {
	s := &Server{
		signals: signal.NewLedger(),
		rules:   risk.NewLedger(),
		flows:   flow.NewLedger(),
		store:   opts.Store,
		tracer:  otel.Tracer("pitwatch/app"),
	}
	if opts.Store != nil {
		if err := s.reload(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/signals", s.handleAppendSignal)
	mux.HandleFunc("POST /v1/flows", s.handleAppendFlow)
	mux.HandleFunc("POST /v1/rules", s.handleAppendRule)
	mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /v1/integrity", s.handleIntegrity)

	mux.HandleFunc("GET /v1/views/global", s.handleGlobalView)
	mux.HandleFunc("GET /v1/views/kinds/{kind}", s.handleKindView)
	mux.HandleFunc("GET /v1/views/players/{id}", s.handlePlayerView)
	mux.HandleFunc("GET /v1/views/players/{id}/trace", s.handleTraceView)
	mux.HandleFunc("GET /v1/views/tables/{id}", s.handleTableView)
	mux.HandleFunc("GET /v1/views/sessions/{id}", s.handleSessionView)
	mux.HandleFunc("GET /v1/views/top/players", s.handleTopPlayers)
	mux.HandleFunc("GET /v1/views/top/tables", s.handleTopTables)
	mux.HandleFunc("GET /v1/flows/report", s.handleFlowReport)

	return s.traced(mux)
}

// traced wraps the mux with a span per request.
func (s *Server) traced(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Run serves the API on the given port until the context is canceled.
func Run(ctx context.Context, port int, opts Options) error {
	return RunWithAddr(ctx, fmt.Sprintf(":%d", port), opts)
}

// RunWithAddr serves the API on the given address until the context is
// canceled.
func RunWithAddr(ctx context.Context, addr string, opts Options) error {
	server, err := NewServer(ctx, opts)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("watch listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
