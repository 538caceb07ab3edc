// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"

	"github.com/shiftforge/scheduler/internal/domain"
)

func (s *Server) handlePopUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	ids, err := decode[map[domain.UserID]struct{}](raw)
	if err != nil {
		return nil, err
	}
	return s.store.PopUsers(ids), nil
}

func (s *Server) handlePopTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	ids, err := decode[map[domain.TaskID]struct{}](raw)
	if err != nil {
		return nil, err
	}
	return s.store.PopTasks(ids), nil
}

func (s *Server) handlePopSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	ids, err := decode[map[domain.SlotID]struct{}](raw)
	if err != nil {
		return nil, err
	}
	return s.store.PopSlots(ids), nil
}

func (s *Server) handlePopRules(ctx context.Context, raw json.RawMessage) (any, error) {
	toPop, err := decode[map[domain.UserID]map[domain.RuleID]struct{}](raw)
	if err != nil {
		return nil, err
	}
	return s.store.PopRules(toPop), nil
}
