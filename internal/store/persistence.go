// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"encoding/json"
	"os"

	"github.com/shiftforge/scheduler/internal/domain"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
	"github.com/shiftforge/scheduler/pkg/retry"
)

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return retry.Retry(context.Background(), retry.FileIO(), func() error {
		return os.WriteFile(path, data, 0o644)
	})
}

func readJSONFile(path string, v any) error {
	var data []byte
	err := retry.Retry(context.Background(), retry.FileIO(), func() error {
		d, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		data = d
		return nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// SaveUsers writes every User to path as JSON.
func (s *Store) SaveUsers(path string) error {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	if err := writeJSONFile(path, s.users); err != nil {
		return scheduler_errors.NewIOError("save_users", path, err)
	}
	return nil
}

// LoadUsers replaces the entire UserMap with the contents of path and
// advances the User and Rule counters to one past the maximum id
// observed (spec.md §4.3).
func (s *Store) LoadUsers(path string) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	var loaded map[domain.UserID]domain.User
	if err := readJSONFile(path, &loaded); err != nil {
		return scheduler_errors.NewIOError("load_users", path, err)
	}
	s.users = loaded
	for id, user := range loaded {
		s.userIDs.Observe(uint64(id))
		for ruleID := range user.Availability {
			s.ruleIDs.Observe(uint64(ruleID))
		}
	}
	s.log.Info("loaded users", "path", path, "count", len(loaded))
	return nil
}

// WipeUsers clears the UserMap and rewinds the User and Rule counters.
func (s *Store) WipeUsers() {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	s.users = make(map[domain.UserID]domain.User)
	s.userIDs.Reset(1)
	s.ruleIDs.Reset(1)
}

// SaveTasks writes every Task to path as JSON.
func (s *Store) SaveTasks(path string) error {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	if err := writeJSONFile(path, s.tasks); err != nil {
		return scheduler_errors.NewIOError("save_tasks", path, err)
	}
	return nil
}

// LoadTasks replaces the entire TaskMap and advances the Task counter.
func (s *Store) LoadTasks(path string) error {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	var loaded map[domain.TaskID]domain.Task
	if err := readJSONFile(path, &loaded); err != nil {
		return scheduler_errors.NewIOError("load_tasks", path, err)
	}
	s.tasks = loaded
	for id := range loaded {
		s.taskIDs.Observe(uint64(id))
	}
	s.log.Info("loaded tasks", "path", path, "count", len(loaded))
	return nil
}

// WipeTasks clears the TaskMap and rewinds the Task counter.
func (s *Store) WipeTasks() {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	s.tasks = make(map[domain.TaskID]domain.Task)
	s.taskIDs.Reset(1)
}

// SaveSlots writes every Slot to path as JSON.
func (s *Store) SaveSlots(path string) error {
	s.slotsMu.RLock()
	defer s.slotsMu.RUnlock()

	if err := writeJSONFile(path, s.slots); err != nil {
		return scheduler_errors.NewIOError("save_slots", path, err)
	}
	return nil
}

// LoadSlots replaces the entire SlotMap and advances the Slot counter.
func (s *Store) LoadSlots(path string) error {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	var loaded map[domain.SlotID]domain.Slot
	if err := readJSONFile(path, &loaded); err != nil {
		return scheduler_errors.NewIOError("load_slots", path, err)
	}
	s.slots = loaded
	for id := range loaded {
		s.slotIDs.Observe(uint64(id))
	}
	s.log.Info("loaded slots", "path", path, "count", len(loaded))
	return nil
}

// WipeSlots clears the SlotMap and rewinds the Slot counter.
func (s *Store) WipeSlots() {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	s.slots = make(map[domain.SlotID]domain.Slot)
	s.slotIDs.Reset(1)
}
