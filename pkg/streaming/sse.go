// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package streaming

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shiftforge/scheduler/internal/store"
	"github.com/shiftforge/scheduler/pkg/watch"
)

// SSEServer provides a Server-Sent Events interface over pkg/watch's
// Store pollers, for clients that want a one-way push feed without the
// WebSocket handshake.
type SSEServer struct {
	store *store.Store
}

// NewSSEServer creates a new Server-Sent Events server over st.
func NewSSEServer(st *store.Store) *SSEServer {
	return &SSEServer{store: st}
}

// SSEEvent is a Server-Sent Event.
type SSEEvent struct {
	ID    string      `json:"id,omitempty"`
	Event string      `json:"event,omitempty"`
	Data  interface{} `json:"data"`
	Retry int         `json:"retry,omitempty"`
}

// HandleSSE handles Server-Sent Events connections. The stream query
// parameter selects users/tasks/slots; name_prefix/title_prefix narrows it.
func (sse *SSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	ctx := r.Context()
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	streamType := r.URL.Query().Get("stream")
	if streamType == "" {
		sse.writeSSEEvent(w, flusher, SSEEvent{
			Event: "error",
			Data:  map[string]string{"error": "stream parameter required"},
		})
		return
	}

	switch StreamType(streamType) {
	case StreamTypeUsers:
		sse.streamUsersSSE(ctx, w, flusher, r)
	case StreamTypeTasks:
		sse.streamTasksSSE(ctx, w, flusher, r)
	case StreamTypeSlots:
		sse.streamSlotsSSE(ctx, w, flusher, r)
	default:
		sse.writeSSEEvent(w, flusher, SSEEvent{
			Event: "error",
			Data:  map[string]string{"error": "unknown stream type: " + streamType},
		})
	}
}

func (sse *SSEServer) streamUsersSSE(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, r *http.Request) {
	var filter store.UserFilter
	if prefix := r.URL.Query().Get("name_prefix"); prefix != "" {
		p := store.NewStartsWithPattern(prefix)
		filter.NamePat = &p
	}

	events := watch.NewUserPoller(sse.store, filter).Watch(ctx)
	sse.writeSSEEvent(w, flusher, SSEEvent{Event: "connected", Data: map[string]string{"stream": "users", "status": "connected"}})

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				sse.writeSSEEvent(w, flusher, SSEEvent{Event: "stream_closed", Data: map[string]string{"stream": "users", "status": "closed"}})
				return
			}
			sse.writeSSEEvent(w, flusher, SSEEvent{
				ID:    fmt.Sprintf("user-%d", time.Now().UnixNano()),
				Event: "user_event",
				Data:  event,
			})
		}
	}
}

func (sse *SSEServer) streamTasksSSE(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, r *http.Request) {
	var filter store.TaskFilter
	if prefix := r.URL.Query().Get("title_prefix"); prefix != "" {
		p := store.NewStartsWithPattern(prefix)
		filter.TitlePat = &p
	}

	events := watch.NewTaskPoller(sse.store, filter).Watch(ctx)
	sse.writeSSEEvent(w, flusher, SSEEvent{Event: "connected", Data: map[string]string{"stream": "tasks", "status": "connected"}})

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				sse.writeSSEEvent(w, flusher, SSEEvent{Event: "stream_closed", Data: map[string]string{"stream": "tasks", "status": "closed"}})
				return
			}
			sse.writeSSEEvent(w, flusher, SSEEvent{
				ID:    fmt.Sprintf("task-%d", time.Now().UnixNano()),
				Event: "task_event",
				Data:  event,
			})
		}
	}
}

func (sse *SSEServer) streamSlotsSSE(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, r *http.Request) {
	var filter store.SlotFilter
	if prefix := r.URL.Query().Get("name_prefix"); prefix != "" {
		p := store.NewStartsWithPattern(prefix)
		filter.NamePat = &p
	}

	events := watch.NewSlotPoller(sse.store, filter).Watch(ctx)
	sse.writeSSEEvent(w, flusher, SSEEvent{Event: "connected", Data: map[string]string{"stream": "slots", "status": "connected"}})

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				sse.writeSSEEvent(w, flusher, SSEEvent{Event: "stream_closed", Data: map[string]string{"stream": "slots", "status": "closed"}})
				return
			}
			sse.writeSSEEvent(w, flusher, SSEEvent{
				ID:    fmt.Sprintf("slot-%d", time.Now().UnixNano()),
				Event: "slot_event",
				Data:  event,
			})
		}
	}
}

// writeSSEEvent writes event to the response in the text/event-stream wire format.
func (sse *SSEServer) writeSSEEvent(w http.ResponseWriter, flusher http.Flusher, event SSEEvent) {
	if event.ID != "" {
		fmt.Fprintf(w, "id: %s\n", event.ID)
	}
	if event.Event != "" {
		fmt.Fprintf(w, "event: %s\n", event.Event)
	}

	data, err := json.Marshal(event.Data)
	if err != nil {
		fmt.Fprintf(w, "data: {\"error\": \"failed to marshal data\"}\n")
	} else {
		fmt.Fprintf(w, "data: %s\n", string(data))
	}

	if event.Retry > 0 {
		fmt.Fprintf(w, "retry: %d\n", event.Retry)
	}

	fmt.Fprintf(w, "\n")
	flusher.Flush()
}

// parseStringSlice parses a comma-separated query value into a slice,
// trimming whitespace around each element.
func parseStringSlice(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
