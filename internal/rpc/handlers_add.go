// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
)

func (s *Server) handleAddUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	specs, err := decode[[]store.UserSpec](raw)
	if err != nil {
		return nil, err
	}
	return s.store.AddUsers(specs), nil
}

func (s *Server) handleAddTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	specs, err := decode[[]store.TaskSpec](raw)
	if err != nil {
		return nil, err
	}
	return s.store.AddTasks(specs), nil
}

func (s *Server) handleAddSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	specs, err := decode[[]store.SlotSpec](raw)
	if err != nil {
		return nil, err
	}
	return s.store.AddSlots(specs), nil
}

func (s *Server) handleAddRules(ctx context.Context, raw json.RawMessage) (any, error) {
	specs, err := decode[map[domain.UserID][]store.RuleSpec](raw)
	if err != nil {
		return nil, err
	}
	return s.store.AddRules(specs)
}
