// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package watch provides polling-based watch implementations over the
// Domain Store. pkg/streaming runs one poller per open SSE/WebSocket
// connection; cmd/schedulerctl's watch subcommand, a separate process,
// does not use this package and polls the RPC surface instead.
package watch

import (
	"context"
	"time"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
)

// DefaultPollInterval is the default polling interval for watch operations.
const DefaultPollInterval = 5 * time.Second

// UserEvent reports a User appearing in or disappearing from the Store.
type UserEvent struct {
	EventType string // "user_added" or "user_removed"
	ID        domain.UserID
	EventTime time.Time
}

// UserPoller polls GetUsers on an interval and emits UserEvents for any id
// that entered or left the matched set since the previous poll.
type UserPoller struct {
	store        *store.Store
	filter       store.UserFilter
	pollInterval time.Duration
	bufferSize   int
	seen         map[domain.UserID]struct{}
}

// NewUserPoller creates a poller over st, restricted to filter.
func NewUserPoller(st *store.Store, filter store.UserFilter) *UserPoller {
	return &UserPoller{
		store:        st,
		filter:       filter,
		pollInterval: DefaultPollInterval,
		bufferSize:   100,
		seen:         make(map[domain.UserID]struct{}),
	}
}

// WithPollInterval sets a custom poll interval.
func (p *UserPoller) WithPollInterval(interval time.Duration) *UserPoller {
	p.pollInterval = interval
	return p
}

// WithBufferSize sets a custom buffer size for the event channel.
func (p *UserPoller) WithBufferSize(size int) *UserPoller {
	p.bufferSize = size
	return p
}

// Watch starts polling, returning a channel of events closed once ctx is done.
func (p *UserPoller) Watch(ctx context.Context) <-chan UserEvent {
	eventChan := make(chan UserEvent, p.bufferSize)
	go p.pollLoop(ctx, eventChan)
	return eventChan
}

func (p *UserPoller) pollLoop(ctx context.Context, eventChan chan<- UserEvent) {
	defer close(eventChan)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.performPoll(eventChan, true)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.performPoll(eventChan, false)
		}
	}
}

func (p *UserPoller) performPoll(eventChan chan<- UserEvent, isInitial bool) {
	matched := p.store.GetUsers(p.filter)

	current := make(map[domain.UserID]struct{}, len(matched))
	for id := range matched {
		current[id] = struct{}{}
		if _, exists := p.seen[id]; !exists {
			p.seen[id] = struct{}{}
			if !isInitial {
				eventChan <- UserEvent{EventType: "user_added", ID: id, EventTime: time.Now()}
			}
		}
	}
	for id := range p.seen {
		if _, stillPresent := current[id]; !stillPresent {
			delete(p.seen, id)
			eventChan <- UserEvent{EventType: "user_removed", ID: id, EventTime: time.Now()}
		}
	}
}

// TaskEvent reports a Task appearing in or disappearing from the Store.
type TaskEvent struct {
	EventType string // "task_added" or "task_removed"
	ID        domain.TaskID
	EventTime time.Time
}

// TaskPoller polls GetTasks on an interval and emits TaskEvents.
type TaskPoller struct {
	store        *store.Store
	filter       store.TaskFilter
	pollInterval time.Duration
	bufferSize   int
	seen         map[domain.TaskID]struct{}
}

// NewTaskPoller creates a poller over st, restricted to filter.
func NewTaskPoller(st *store.Store, filter store.TaskFilter) *TaskPoller {
	return &TaskPoller{
		store:        st,
		filter:       filter,
		pollInterval: DefaultPollInterval,
		bufferSize:   100,
		seen:         make(map[domain.TaskID]struct{}),
	}
}

// WithPollInterval sets a custom poll interval.
func (p *TaskPoller) WithPollInterval(interval time.Duration) *TaskPoller {
	p.pollInterval = interval
	return p
}

// WithBufferSize sets a custom buffer size for the event channel.
func (p *TaskPoller) WithBufferSize(size int) *TaskPoller {
	p.bufferSize = size
	return p
}

// Watch starts polling, returning a channel of events closed once ctx is done.
func (p *TaskPoller) Watch(ctx context.Context) <-chan TaskEvent {
	eventChan := make(chan TaskEvent, p.bufferSize)
	go p.pollLoop(ctx, eventChan)
	return eventChan
}

func (p *TaskPoller) pollLoop(ctx context.Context, eventChan chan<- TaskEvent) {
	defer close(eventChan)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.performPoll(eventChan, true)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.performPoll(eventChan, false)
		}
	}
}

func (p *TaskPoller) performPoll(eventChan chan<- TaskEvent, isInitial bool) {
	matched := p.store.GetTasks(p.filter)

	current := make(map[domain.TaskID]struct{}, len(matched))
	for id := range matched {
		current[id] = struct{}{}
		if _, exists := p.seen[id]; !exists {
			p.seen[id] = struct{}{}
			if !isInitial {
				eventChan <- TaskEvent{EventType: "task_added", ID: id, EventTime: time.Now()}
			}
		}
	}
	for id := range p.seen {
		if _, stillPresent := current[id]; !stillPresent {
			delete(p.seen, id)
			eventChan <- TaskEvent{EventType: "task_removed", ID: id, EventTime: time.Now()}
		}
	}
}

// SlotEvent reports a Slot appearing in or disappearing from the Store.
type SlotEvent struct {
	EventType string // "slot_added" or "slot_removed"
	ID        domain.SlotID
	EventTime time.Time
}

// SlotPoller polls GetSlots on an interval and emits SlotEvents.
type SlotPoller struct {
	store        *store.Store
	filter       store.SlotFilter
	pollInterval time.Duration
	bufferSize   int
	seen         map[domain.SlotID]struct{}
}

// NewSlotPoller creates a poller over st, restricted to filter.
func NewSlotPoller(st *store.Store, filter store.SlotFilter) *SlotPoller {
	return &SlotPoller{
		store:        st,
		filter:       filter,
		pollInterval: DefaultPollInterval,
		bufferSize:   100,
		seen:         make(map[domain.SlotID]struct{}),
	}
}

// WithPollInterval sets a custom poll interval.
func (p *SlotPoller) WithPollInterval(interval time.Duration) *SlotPoller {
	p.pollInterval = interval
	return p
}

// WithBufferSize sets a custom buffer size for the event channel.
func (p *SlotPoller) WithBufferSize(size int) *SlotPoller {
	p.bufferSize = size
	return p
}

// Watch starts polling, returning a channel of events closed once ctx is done.
func (p *SlotPoller) Watch(ctx context.Context) <-chan SlotEvent {
	eventChan := make(chan SlotEvent, p.bufferSize)
	go p.pollLoop(ctx, eventChan)
	return eventChan
}

func (p *SlotPoller) pollLoop(ctx context.Context, eventChan chan<- SlotEvent) {
	defer close(eventChan)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.performPoll(eventChan, true)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.performPoll(eventChan, false)
		}
	}
}

func (p *SlotPoller) performPoll(eventChan chan<- SlotEvent, isInitial bool) {
	matched := p.store.GetSlots(p.filter)

	current := make(map[domain.SlotID]struct{}, len(matched))
	for _, slot := range matched {
		current[slot.ID] = struct{}{}
		if _, exists := p.seen[slot.ID]; !exists {
			p.seen[slot.ID] = struct{}{}
			if !isInitial {
				eventChan <- SlotEvent{EventType: "slot_added", ID: slot.ID, EventTime: time.Now()}
			}
		}
	}
	for id := range p.seen {
		if _, stillPresent := current[id]; !stillPresent {
			delete(p.seen, id)
			eventChan <- SlotEvent{EventType: "slot_removed", ID: id, EventTime: time.Now()}
		}
	}
}
