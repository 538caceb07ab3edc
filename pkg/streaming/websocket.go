// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package streaming provides push-style transports (WebSocket, SSE) over
// the Domain Store's pkg/watch pollers, for callers that want Store
// events delivered over a live connection instead of polling the RPC
// surface themselves.
package streaming

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shiftforge/scheduler/internal/store"
	"github.com/shiftforge/scheduler/pkg/watch"
)

// WebSocketServer streams Store watch events (pkg/watch) to WebSocket
// clients, one goroutine pumping one poller's channel per connection.
type WebSocketServer struct {
	store    *store.Store
	upgrader websocket.Upgrader
}

// NewWebSocketServer creates a new WebSocket server over st.
func NewWebSocketServer(st *store.Store) *WebSocketServer {
	return &WebSocketServer{
		store: st,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// StreamType represents the type of stream a client may subscribe to.
type StreamType string

const (
	StreamTypeUsers StreamType = "users"
	StreamTypeTasks StreamType = "tasks"
	StreamTypeSlots StreamType = "slots"
)

// StreamMessage is a message sent over WebSocket.
type StreamMessage struct {
	Type      string      `json:"type"`
	Stream    StreamType  `json:"stream"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
	Error     string      `json:"error,omitempty"`
}

// StreamRequest is a client request to start streaming.
type StreamRequest struct {
	Stream  StreamType  `json:"stream"`
	Options interface{} `json:"options,omitempty"`
}

// UserStreamOptions narrows a users stream (get_users' filter fields).
type UserStreamOptions struct {
	NamePrefix string `json:"name_prefix,omitempty"`
}

// TaskStreamOptions narrows a tasks stream.
type TaskStreamOptions struct {
	TitlePrefix string `json:"title_prefix,omitempty"`
}

// SlotStreamOptions narrows a slots stream.
type SlotStreamOptions struct {
	NamePrefix string `json:"name_prefix,omitempty"`
}

// HandleWebSocket upgrades the request and serves it until the client
// disconnects or the request's context is cancelled.
func (ws *WebSocketServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("WebSocket close error: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go ws.handleIncomingMessages(ctx, conn, cancel)
	ws.keepAlive(ctx, conn)
}

func (ws *WebSocketServer) handleIncomingMessages(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var req StreamRequest
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				return
			}
			go ws.handleStreamRequest(ctx, conn, req)
		}
	}
}

func (ws *WebSocketServer) handleStreamRequest(ctx context.Context, conn *websocket.Conn, req StreamRequest) {
	switch req.Stream {
	case StreamTypeUsers:
		ws.streamUsers(ctx, conn, req.Options)
	case StreamTypeTasks:
		ws.streamTasks(ctx, conn, req.Options)
	case StreamTypeSlots:
		ws.streamSlots(ctx, conn, req.Options)
	default:
		ws.sendError(conn, "unknown stream type: "+string(req.Stream))
	}
}

func (ws *WebSocketServer) streamUsers(ctx context.Context, conn *websocket.Conn, optionsData interface{}) {
	var filter store.UserFilter
	if optionsData != nil {
		if optsBytes, err := json.Marshal(optionsData); err == nil {
			var opts UserStreamOptions
			if err := json.Unmarshal(optsBytes, &opts); err == nil && opts.NamePrefix != "" {
				p := store.NewStartsWithPattern(opts.NamePrefix)
				filter.NamePat = &p
			}
		}
	}

	events := watch.NewUserPoller(ws.store, filter).Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				ws.sendMessage(conn, StreamMessage{Type: "stream_closed", Stream: StreamTypeUsers, Timestamp: time.Now()})
				return
			}
			ws.sendMessage(conn, StreamMessage{Type: "event", Stream: StreamTypeUsers, Data: event, Timestamp: time.Now()})
		}
	}
}

func (ws *WebSocketServer) streamTasks(ctx context.Context, conn *websocket.Conn, optionsData interface{}) {
	var filter store.TaskFilter
	if optionsData != nil {
		if optsBytes, err := json.Marshal(optionsData); err == nil {
			var opts TaskStreamOptions
			if err := json.Unmarshal(optsBytes, &opts); err == nil && opts.TitlePrefix != "" {
				p := store.NewStartsWithPattern(opts.TitlePrefix)
				filter.TitlePat = &p
			}
		}
	}

	events := watch.NewTaskPoller(ws.store, filter).Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				ws.sendMessage(conn, StreamMessage{Type: "stream_closed", Stream: StreamTypeTasks, Timestamp: time.Now()})
				return
			}
			ws.sendMessage(conn, StreamMessage{Type: "event", Stream: StreamTypeTasks, Data: event, Timestamp: time.Now()})
		}
	}
}

func (ws *WebSocketServer) streamSlots(ctx context.Context, conn *websocket.Conn, optionsData interface{}) {
	var filter store.SlotFilter
	if optionsData != nil {
		if optsBytes, err := json.Marshal(optionsData); err == nil {
			var opts SlotStreamOptions
			if err := json.Unmarshal(optsBytes, &opts); err == nil && opts.NamePrefix != "" {
				p := store.NewStartsWithPattern(opts.NamePrefix)
				filter.NamePat = &p
			}
		}
	}

	events := watch.NewSlotPoller(ws.store, filter).Watch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				ws.sendMessage(conn, StreamMessage{Type: "stream_closed", Stream: StreamTypeSlots, Timestamp: time.Now()})
				return
			}
			ws.sendMessage(conn, StreamMessage{Type: "event", Stream: StreamTypeSlots, Data: event, Timestamp: time.Now()})
		}
	}
}

func (ws *WebSocketServer) sendMessage(conn *websocket.Conn, msg StreamMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("WebSocket write error: %v", err)
	}
}

func (ws *WebSocketServer) sendError(conn *websocket.Conn, message string) {
	ws.sendMessage(conn, StreamMessage{Type: "error", Error: message, Timestamp: time.Now()})
}

// keepAlive maintains the WebSocket connection with periodic pings.
func (ws *WebSocketServer) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error: %v", err)
				return
			}
		}
	}
}
