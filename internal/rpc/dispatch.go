// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"context"
	"encoding/json"

	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

// Handler is one entry of the dispatch table: a typed RPC method
// implementation taking the raw JSON request body and returning the
// value to encode as the response (spec.md §9 "method registration is a
// table lookup from method name to a typed handler").
type Handler func(ctx context.Context, raw json.RawMessage) (any, error)

// dispatchTable returns the full method-name -> Handler mapping for
// every RPC method spec.md §6 lists.
func (s *Server) dispatchTable() map[string]Handler {
	return map[string]Handler{
		"add_rules": s.handleAddRules,
		"add_slots": s.handleAddSlots,
		"add_tasks": s.handleAddTasks,
		"add_users": s.handleAddUsers,

		"get_rules": s.handleGetRules,
		"get_slots": s.handleGetSlots,
		"get_tasks": s.handleGetTasks,
		"get_users": s.handleGetUsers,

		"mut_slots": s.handleMutSlots,
		"mut_tasks": s.handleMutTasks,
		"mut_users": s.handleMutUsers,

		"pop_rules": s.handlePopRules,
		"pop_slots": s.handlePopSlots,
		"pop_tasks": s.handlePopTasks,
		"pop_users": s.handlePopUsers,

		"save_slots": s.handleSaveSlots,
		"save_tasks": s.handleSaveTasks,
		"save_users": s.handleSaveUsers,
		"load_slots": s.handleLoadSlots,
		"load_tasks": s.handleLoadTasks,
		"load_users": s.handleLoadUsers,
		"wipe_slots": s.handleWipeSlots,
		"wipe_tasks": s.handleWipeTasks,
		"wipe_users": s.handleWipeUsers,

		"schedule": s.handleSchedule,
		"quit":     s.handleQuit,
	}
}

// decode unmarshals raw into a fresh *T, returning a CodeValidation
// SchedulerError on malformed JSON rather than a bare encoding/json
// error (spec.md §7 keeps every edge fault inside the taxonomy).
func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, scheduler_errors.NewValidationError("body", "%s", err)
	}
	return v, nil
}
