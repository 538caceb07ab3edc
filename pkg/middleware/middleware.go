// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package middleware provides HTTP middleware for the RPC server.
package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shiftforge/scheduler/pkg/logging"
	"github.com/shiftforge/scheduler/pkg/metrics"
)

// Middleware wraps an http.Handler, mirroring gorilla/mux's
// MiddlewareFunc shape so a Chain can be registered directly via
// (*mux.Router).Use.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares into one, applied outermost-first: the
// first middleware given sees the request before any of the others.
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// statusRecorder captures the status code a handler wrote, since
// http.ResponseWriter doesn't expose it after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the underlying ResponseWriter when it supports
// http.Flusher, so middleware-wrapped SSE handlers can still stream.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack forwards to the underlying ResponseWriter when it supports
// http.Hijacker, so middleware-wrapped WebSocket upgrades still work.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("middleware: underlying ResponseWriter does not support hijacking")
	}
	return hj.Hijack()
}

// WithLogging logs one line per request: method, path, status, latency.
func WithLogging(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			reqLogger := logger.WithContext(r.Context())
			reqLogger.Debug("dispatching request", "method", r.Method, "path", r.URL.Path)

			next.ServeHTTP(rec, r)

			reqLogger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// WithMetrics records one metrics.Collector.RecordCall per request,
// keyed by the mux route's last path segment (the RPC method name).
func WithMetrics(collector metrics.Collector, methodOf func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			var err error
			if rec.status >= 400 {
				err = errStatus{rec.status}
			}
			collector.RecordCall(methodOf(r), time.Since(start), err)
		})
	}
}

type errStatus struct{ code int }

func (e errStatus) Error() string { return http.StatusText(e.code) }

// WithRecovery converts a panicking handler into a 500 response instead
// of taking down the whole server — a single malformed request must
// never abort the handler loop (spec.md §7: "the RPC server loop
// continues past any handler error").
func WithRecovery(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panicked", "recovered", rec, "path", r.URL.Path)
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// WithTimeout bounds request handling to timeout, unless the request's
// context already carries an earlier deadline.
func WithTimeout(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.TimeoutHandler(next, timeout, "request timed out")
	}
}
