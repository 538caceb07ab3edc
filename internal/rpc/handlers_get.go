// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
)

func (s *Server) handleGetUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	wire, err := decode[UserFilterWire](raw)
	if err != nil {
		return nil, err
	}
	filter, err := wire.ToFilter()
	if err != nil {
		return nil, err
	}

	matched := s.store.GetUsers(filter)
	out := make(map[domain.UserID]store.UserProjection, len(matched))
	for _, id := range SortedUserIDs(matched) {
		out[id] = matched[id]
	}
	return out, nil
}

func (s *Server) handleGetTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	wire, err := decode[TaskFilterWire](raw)
	if err != nil {
		return nil, err
	}
	filter, err := wire.ToFilter()
	if err != nil {
		return nil, err
	}

	matched := s.store.GetTasks(filter)
	out := make(map[domain.TaskID]store.TaskProjection, len(matched))
	for _, id := range SortedTaskIDs(matched) {
		out[id] = matched[id]
	}
	return out, nil
}

func (s *Server) handleGetSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	wire, err := decode[SlotFilterWire](raw)
	if err != nil {
		return nil, err
	}
	filter, err := wire.ToFilter()
	if err != nil {
		return nil, err
	}

	matched := s.store.GetSlots(filter)
	return SortedSlots(matched), nil
}

func (s *Server) handleGetRules(ctx context.Context, raw json.RawMessage) (any, error) {
	wireFilters, err := decode[map[domain.UserID]RuleFilterWire](raw)
	if err != nil {
		return nil, err
	}
	filters := make(map[domain.UserID]store.RuleFilter, len(wireFilters))
	for userID, wire := range wireFilters {
		filters[userID] = wire.ToFilter()
	}
	return s.store.GetRules(filters)
}
