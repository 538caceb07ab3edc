// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"
)

// pathRequest is the {"path": "..."} parameter every save_*/load_*
// method takes (spec.md §6).
type pathRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleSaveUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := decode[pathRequest](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.store.SaveUsers(req.Path)
}

func (s *Server) handleLoadUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := decode[pathRequest](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.store.LoadUsers(req.Path)
}

func (s *Server) handleWipeUsers(ctx context.Context, raw json.RawMessage) (any, error) {
	s.store.WipeUsers()
	return nil, nil
}

func (s *Server) handleSaveTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := decode[pathRequest](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.store.SaveTasks(req.Path)
}

func (s *Server) handleLoadTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := decode[pathRequest](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.store.LoadTasks(req.Path)
}

func (s *Server) handleWipeTasks(ctx context.Context, raw json.RawMessage) (any, error) {
	s.store.WipeTasks()
	return nil, nil
}

func (s *Server) handleSaveSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := decode[pathRequest](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.store.SaveSlots(req.Path)
}

func (s *Server) handleLoadSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	req, err := decode[pathRequest](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.store.LoadSlots(req.Path)
}

func (s *Server) handleWipeSlots(ctx context.Context, raw json.RawMessage) (any, error) {
	s.store.WipeSlots()
	return nil, nil
}
