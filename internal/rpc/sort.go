// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
)

// collator gives display names a locale-aware secondary sort key.
// Collator is safe for concurrent use once built (golang.org/x/text/collate).
var collator = collate.New(language.Und)

// SortedUserIDs returns ids ordered by (display-name via collator, id):
// the mandatory numeric tie-break spec.md §4.5 step 2 requires comes
// second, after the name ordering a manager-facing listing wants
// (SPEC_FULL.md §3.5).
func SortedUserIDs(users map[domain.UserID]store.UserProjection) []domain.UserID {
	ids := make([]domain.UserID, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := users[ids[i]], users[ids[j]]
		if c := collator.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return ids[i] < ids[j]
	})
	return ids
}

// SortedTaskIDs orders tasks by (title via collator, id).
func SortedTaskIDs(tasks map[domain.TaskID]store.TaskProjection) []domain.TaskID {
	ids := make([]domain.TaskID, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := tasks[ids[i]], tasks[ids[j]]
		if c := collator.CompareString(a.Title, b.Title); c != 0 {
			return c < 0
		}
		return ids[i] < ids[j]
	})
	return ids
}

// SortedSlots orders slots by (name via collator, id); used only to present
// get_slots deterministically. A scheduling run orders its input slots
// with SortedSlotsByStart instead.
func SortedSlots(slots []store.SlotProjection) []store.SlotProjection {
	out := make([]store.SlotProjection, len(slots))
	copy(out, slots)
	sort.Slice(out, func(i, j int) bool {
		if c := collator.CompareString(out[i].Name, out[j].Name); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortedSlotsByStart orders slots by their interval's start time, then
// id — the order a scheduling run must walk them in, since a Task can
// only be assigned once its dependencies were assigned in an earlier slot
// or earlier in the same slot (spec.md §4.5).
func SortedSlotsByStart(slots []domain.Slot) []domain.Slot {
	out := make([]domain.Slot, len(slots))
	copy(out, slots)
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Interval.Compare(out[j].Interval); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}
