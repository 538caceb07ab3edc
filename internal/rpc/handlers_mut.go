// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
)

func (s *Server) handleMutUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	deltas, err := decode[map[domain.UserID]store.UserDelta](raw)
	if err != nil {
		return nil, err
	}
	return s.store.MutUsers(deltas), nil
}

func (s *Server) handleMutTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	deltas, err := decode[map[domain.TaskID]store.TaskDelta](raw)
	if err != nil {
		return nil, err
	}
	return s.store.MutTasks(deltas), nil
}

func (s *Server) handleMutSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	deltas, err := decode[map[domain.SlotID]store.SlotDelta](raw)
	if err != nil {
		return nil, err
	}
	return s.store.MutSlots(deltas), nil
}
