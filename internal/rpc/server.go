// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package rpc implements the scheduling server's RPC surface: an
// HTTP transport (gorilla/mux) dispatching JSON request bodies to the
// Domain Store and Scheduling Engine through a method-name lookup table
// (spec.md §6, §9).
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/shiftforge/scheduler/internal/store"
	schedcontext "github.com/shiftforge/scheduler/pkg/context"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
	"github.com/shiftforge/scheduler/pkg/logging"
	"github.com/shiftforge/scheduler/pkg/metrics"
	"github.com/shiftforge/scheduler/pkg/middleware"
	"github.com/shiftforge/scheduler/pkg/streaming"
)

// Server is the scheduling server's RPC surface: a dispatch table over a
// Domain Store, reachable over HTTP.
type Server struct {
	store   *store.Store
	logger  logging.Logger
	metrics metrics.Collector
	timeouts *schedcontext.TimeoutConfig

	dispatch      map[string]Handler
	openapiDoc    *openapi3.T
	router        *mux.Router
	httpServer    *http.Server
	exitRequested atomic.Bool

	wsStream  *streaming.WebSocketServer
	sseStream *streaming.SSEServer
}

// NewServer builds a Server wired to st, ready to ListenAndServe at addr.
func NewServer(addr string, st *store.Store, logger logging.Logger, collector metrics.Collector, timeouts *schedcontext.TimeoutConfig) *Server {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	if timeouts == nil {
		timeouts = schedcontext.DefaultTimeoutConfig()
	}

	metrics.SetCodeExtractor(codeOf)

	s := &Server{
		store:     st,
		logger:    logger,
		metrics:   collector,
		timeouts:  timeouts,
		wsStream:  streaming.NewWebSocketServer(st),
		sseStream: streaming.NewSSEServer(st),
	}
	s.dispatch = s.dispatchTable()
	s.openapiDoc = buildOpenAPIDoc(s.dispatch)
	s.router = s.newRouter()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s
}

// newRouter builds the mux.Router serving the RPC surface, wrapped in the
// standard logging/metrics/recovery middleware chain (grounded on
// tests/mocks/server.go's router.Use(...) chain).
func (s *Server) newRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/rpc/{method}", s.rpcHandler).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/metrics", s.metricsHandler).Methods(http.MethodGet)
	router.HandleFunc("/openapi.json", s.openAPIHandler).Methods(http.MethodGet)
	router.HandleFunc("/watch", s.sseStream.HandleSSE).Methods(http.MethodGet)
	router.HandleFunc("/watch/ws", s.wsStream.HandleWebSocket).Methods(http.MethodGet)

	router.Use(mux.MiddlewareFunc(middleware.Chain(
		middleware.WithRecovery(s.logger),
		middleware.WithLogging(s.logger),
		middleware.WithMetrics(s.metrics, methodFromRequest),
	)))
	return router
}

// methodFromRequest extracts the RPC method name from the mux route
// variables for pkg/middleware.WithMetrics.
func methodFromRequest(r *http.Request) string {
	if method, ok := mux.Vars(r)["method"]; ok {
		return method
	}
	return r.URL.Path
}

// rpcHandler looks method up in the dispatch table, decodes the request
// body, runs the handler under a per-category timeout, and encodes the
// result or fault.
func (s *Server) rpcHandler(w http.ResponseWriter, r *http.Request) {
	method := mux.Vars(r)["method"]
	requestID := uuid.New().String()

	handler, ok := s.dispatch[method]
	if !ok {
		writeFault(w, requestID, scheduler_errors.New(scheduler_errors.CodeNotFound, fmt.Sprintf("unknown method %q", method)))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeFault(w, requestID, scheduler_errors.NewValidationError("body", "%s", err))
		return
	}

	ctx, cancel := schedcontext.WithTimeout(r.Context(), operationTypeFor(method), s.timeouts)
	defer cancel()

	result, err := handler(ctx, json.RawMessage(body))
	if err != nil {
		writeFault(w, requestID, err)
		return
	}
	writeResult(w, result)
}

// operationTypeFor classifies method into the schedcontext.OperationType
// that bounds its timeout (spec.md §6's method table).
func operationTypeFor(method string) schedcontext.OperationType {
	switch {
	case method == "schedule":
		return schedcontext.OpSchedule
	case strings.HasPrefix(method, "get_"):
		return schedcontext.OpQuery
	case method == "quit":
		return schedcontext.OpDefault
	default:
		return schedcontext.OpMutate
	}
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.exitRequested.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "draining"})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, s.metrics.Render())
}

// ExitRequested reports whether quit has been called; ListenAndServe
// polls the same flag and shuts the transport down once it's true.
func (s *Server) ExitRequested() bool {
	return s.exitRequested.Load()
}

// ListenAndServe starts the HTTP transport, blocking until it stops, ctx
// is cancelled, or quit has set the exit flag.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("rpc server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return s.Shutdown(context.Background())
		case err := <-errCh:
			return err
		case <-ticker.C:
			if s.exitRequested.Load() {
				return s.Shutdown(context.Background())
			}
		}
	}
}

// Shutdown gracefully stops the HTTP transport.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
