// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package domain

import "time"

// Task is a unit of work, optionally with a deadline, skill
// requirements, and prerequisite tasks (Deps). Cycles across Deps are
// forbidden — enforced by internal/depgraph at scheduling time, not by
// the Store at mutation time (spec.md §4.3).
type Task struct {
	ID       TaskID
	Title    string
	Desc     string
	Skills   map[SkillID]ProficiencyReq
	Deadline *time.Time
	Deps     map[TaskID]struct{}
}

// DepsSlice returns Deps as a slice, used by internal/depgraph to build
// edge lists without retaining a reference to the Task's own map.
func (t Task) DepsSlice() []TaskID {
	out := make([]TaskID, 0, len(t.Deps))
	for id := range t.Deps {
		out = append(out, id)
	}
	return out
}

// MissesDeadline reports whether t's deadline precedes the end of the
// slot it would be assigned to (spec.md §4.5 criterion 3).
func (t Task) MissesDeadline(slotEnd time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(slotEnd)
}

// AheadOfDeadline reports whether completing t in a slot ending at
// slotEnd would finish strictly ahead of its deadline (spec.md §4.5
// criterion 4). A task with no deadline is never "ahead" of one.
func (t Task) AheadOfDeadline(slotEnd time.Time) bool {
	return t.Deadline != nil && slotEnd.Before(*t.Deadline)
}
