// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
	"github.com/shiftforge/scheduler/pkg/logging"
	"github.com/shiftforge/scheduler/pkg/metrics"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer("127.0.0.1:0", store.New(logging.NoOpLogger{}), logging.NoOpLogger{}, metrics.NewInMemoryCollector(), nil)
}

func postRPC(t *testing.T, s *Server, method string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rpc/"+method, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestAddAndGetUsersRoundTrip(t *testing.T) {
	s := newTestServer(t)

	rec := postRPC(t, s, "add_users", []store.UserSpec{{Name: "Ada"}, {Name: "Bea"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var ids []domain.UserID
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
	require.Len(t, ids, 2)

	rec = postRPC(t, s, "get_users", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	var users map[string]store.UserProjection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}

func TestUnknownMethodIsFault(t *testing.T) {
	s := newTestServer(t)

	rec := postRPC(t, s, "not_a_method", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var fault faultBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fault))
	assert.Equal(t, "NOT_FOUND", string(fault.Code))
	assert.NotEmpty(t, fault.RequestID)
}

func TestMalformedBodyIsValidationFault(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/rpc/add_users", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var fault faultBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fault))
	assert.Equal(t, "VALIDATION", string(fault.Code))
}

func TestQuitSetsExitRequestedAndHealthzReportsDraining(t *testing.T) {
	s := newTestServer(t)
	assert.False(t, s.ExitRequested())

	rec := postRPC(t, s, "quit", map[string]any{})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.ExitRequested())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpointReflectsDispatchedCalls(t *testing.T) {
	s := newTestServer(t)
	postRPC(t, s, "add_users", []store.UserSpec{{Name: "Ada"}})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "scheduler_rpc_calls_total")
}

func TestOpenAPIEndpointListsDispatchedMethods(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/rpc/add_users")
	assert.Contains(t, rec.Body.String(), "/rpc/schedule")
}

func TestWatchSSEEndpointStreamsConnectedEvent(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/watch?stream=users", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: connected")
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")
}

func TestWatchSSEEndpointRejectsMissingStreamParam(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/watch", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "stream parameter required")
}

func TestScheduleEndpointReturnsAScheduleForAnEmptyStore(t *testing.T) {
	s := newTestServer(t)

	rec := postRPC(t, s, "schedule", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	var sched struct {
		Slots []any `json:"Slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sched))
	assert.Empty(t, sched.Slots)
}
