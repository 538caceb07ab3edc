// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package streaming

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
	"github.com/shiftforge/scheduler/pkg/logging"
)

// Test NewWebSocketServer
func TestNewWebSocketServer(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	require.NotNil(t, server)
	assert.Equal(t, st, server.store)
}

// Test WebSocket upgrade and connection
func TestHandleWebSocket_Upgrade(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	assert.NotNil(t, conn)
}

// Test stream request for users
func TestHandleWebSocket_UsersStreamRequest(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := StreamRequest{
		Stream:  StreamTypeUsers,
		Options: UserStreamOptions{NamePrefix: "Ada"},
	}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	st.AddUsers([]store.UserSpec{{Name: "Ada Lovelace"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	err = conn.ReadJSON(&msg)
	require.NoError(t, err)

	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, StreamTypeUsers, msg.Stream)
}

// Test stream request for tasks
func TestHandleWebSocket_TasksStreamRequest(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := StreamRequest{
		Stream:  StreamTypeTasks,
		Options: TaskStreamOptions{TitlePrefix: "Write"},
	}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	st.AddTasks([]store.TaskSpec{{Title: "Write report"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	err = conn.ReadJSON(&msg)
	require.NoError(t, err)

	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, StreamTypeTasks, msg.Stream)
}

// Test stream request for slots
func TestHandleWebSocket_SlotsStreamRequest(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := StreamRequest{Stream: StreamTypeSlots}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	now := time.Now()
	interval, err := domain.NewTimeInterval(now, now.Add(time.Hour))
	require.NoError(t, err)
	st.AddSlots([]store.SlotSpec{{Interval: interval}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	err = conn.ReadJSON(&msg)
	require.NoError(t, err)

	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, StreamTypeSlots, msg.Stream)
}

// Test unknown stream type error handling
func TestHandleWebSocket_UnknownStreamType(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := StreamRequest{
		Stream: StreamType("invalid"),
	}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	err = conn.ReadJSON(&msg)
	require.NoError(t, err)

	assert.Equal(t, "error", msg.Type)
	assert.Contains(t, msg.Error, "unknown stream type: invalid")
}

// Test a client disconnecting right after a stream request
func TestHandleWebSocket_DisconnectAfterStreamRequest(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := StreamRequest{Stream: StreamTypeUsers}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	conn.Close()
	time.Sleep(100 * time.Millisecond)
}

// Test JSON marshalling of stream options
func TestStreamOptions_JSONMarshalling(t *testing.T) {
	t.Run("UserStreamOptions", func(t *testing.T) {
		opts := UserStreamOptions{NamePrefix: "Ada"}

		data, err := json.Marshal(opts)
		require.NoError(t, err)

		var decoded UserStreamOptions
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		assert.Equal(t, opts.NamePrefix, decoded.NamePrefix)
	})

	t.Run("TaskStreamOptions", func(t *testing.T) {
		opts := TaskStreamOptions{TitlePrefix: "Write"}

		data, err := json.Marshal(opts)
		require.NoError(t, err)

		var decoded TaskStreamOptions
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		assert.Equal(t, opts.TitlePrefix, decoded.TitlePrefix)
	})

	t.Run("SlotStreamOptions", func(t *testing.T) {
		opts := SlotStreamOptions{NamePrefix: "Room"}

		data, err := json.Marshal(opts)
		require.NoError(t, err)

		var decoded SlotStreamOptions
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		assert.Equal(t, opts.NamePrefix, decoded.NamePrefix)
	})
}

// Test StreamMessage JSON marshalling
func TestStreamMessage_JSONMarshalling(t *testing.T) {
	msg := StreamMessage{
		Type:      "event",
		Stream:    StreamTypeUsers,
		Data:      map[string]interface{}{"key": "value"},
		Timestamp: time.Now(),
		Error:     "",
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded StreamMessage
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, msg.Type, decoded.Type)
	assert.Equal(t, msg.Stream, decoded.Stream)
	assert.Equal(t, msg.Error, decoded.Error)
}

// Test nil options handling
func TestHandleWebSocket_NilOptions(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	req := StreamRequest{
		Stream:  StreamTypeUsers,
		Options: nil,
	}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	st.AddUsers([]store.UserSpec{{Name: "Grace"}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg StreamMessage
	err = conn.ReadJSON(&msg)
	require.NoError(t, err)

	assert.Equal(t, "event", msg.Type)
}

// Test context cancellation
func TestHandleWebSocket_ContextCancellation(t *testing.T) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	req := StreamRequest{Stream: StreamTypeUsers}
	err = conn.WriteJSON(req)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	conn.Close()

	time.Sleep(100 * time.Millisecond)
}

// Test StreamType constants
func TestStreamTypeConstants(t *testing.T) {
	assert.Equal(t, StreamType("users"), StreamTypeUsers)
	assert.Equal(t, StreamType("tasks"), StreamTypeTasks)
	assert.Equal(t, StreamType("slots"), StreamTypeSlots)
}

// Benchmark tests

func BenchmarkWebSocketUpgrade(b *testing.B) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	b.ResetTimer()
	for range b.N {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			b.Fatal(err)
		}
		conn.Close()
	}
}

func BenchmarkStreamMessage_Marshal(b *testing.B) {
	msg := StreamMessage{
		Type:      "event",
		Stream:    StreamTypeUsers,
		Data:      map[string]string{"key": "value"},
		Timestamp: time.Now(),
	}

	b.ResetTimer()
	for range b.N {
		_, err := json.Marshal(msg)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStreamRequest_Unmarshal(b *testing.B) {
	data := []byte(`{"stream":"users","options":{"name_prefix":"A"}}`)

	b.ResetTimer()
	for range b.N {
		var req StreamRequest
		err := json.Unmarshal(data, &req)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSendMessage(b *testing.B) {
	st := store.New(logging.NoOpLogger{})
	server := NewWebSocketServer(st)

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		b.Fatal(err)
	}
	defer conn.Close()

	msg := StreamMessage{
		Type:      "event",
		Stream:    StreamTypeUsers,
		Data:      map[string]string{"key": "value"},
		Timestamp: time.Now(),
	}

	b.ResetTimer()
	for range b.N {
		server.sendMessage(conn, msg)
	}
}
