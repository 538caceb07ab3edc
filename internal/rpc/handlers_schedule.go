// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"

	"github.com/shiftforge/scheduler/internal/scheduler"
)

// handleSchedule runs the Scheduling Engine over the Domain Store's
// current contents and returns the resulting Schedule. It takes no
// parameters: the slots, tasks, and users scheduled are always the
// Store's live state (spec.md §4.5 "Concurrency" — a run holds a read
// lock on the Store for its entire duration via Store.Snapshot).
func (s *Server) handleSchedule(ctx context.Context, raw json.RawMessage) (any, error) {
	users, tasks, slots := s.store.Snapshot()
	ordered := SortedSlotsByStart(slots)

	sched, err := scheduler.Generate(ordered, tasks, users)
	if err != nil {
		return nil, err
	}
	return sched, nil
}

// handleQuit sets the server's exit flag; ListenAndServe polls it and
// shuts the transport down cleanly (spec.md §9 "EXIT_REQUESTED").
func (s *Server) handleQuit(ctx context.Context, raw json.RawMessage) (any, error) {
	s.exitRequested.Store(true)
	s.logger.Info("quit requested")
	return nil, nil
}
