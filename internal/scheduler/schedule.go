// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"github.com/shiftforge/scheduler/internal/depgraph"
	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/pkg/pool"
)

// SlotAssignment is one entry of a Schedule: the Tasks completed and the
// Users staffing a single input Slot.
type SlotAssignment struct {
	Slot  domain.Slot
	Tasks map[domain.TaskID]struct{}
	Users map[domain.UserID]struct{}
}

// Schedule is an ordered collection of SlotAssignments, one per input
// Slot, in input order (spec.md §4.5).
type Schedule struct {
	Slots []SlotAssignment
}

// Generate builds a Schedule from slots, tasks, and users, per the
// per-slot algorithm of spec.md §4.5. It holds a read lock on the Domain
// Store for its entire duration — callers are expected to supply
// snapshots taken under such a lock (spec.md §4.5 "Concurrency").
func Generate(slots []domain.Slot, tasks map[domain.TaskID]domain.Task, users map[domain.UserID]domain.User) (*Schedule, error) {
	dg, err := depgraph.Build(tasks)
	if err != nil {
		return nil, err
	}
	if _, err := dg.TopologicalOrder(); err != nil {
		return nil, err
	}

	candidatesPerSlot := computeCandidatesConcurrently(slots, users)

	done := make(map[domain.TaskID]struct{}, len(tasks))
	result := make([]SlotAssignment, 0, len(slots))

	for i, slot := range slots {
		candidates := candidatesPerSlot[i]

		staffed, err := selectStaffing(slot, candidates, users)
		if err != nil {
			return nil, err
		}

		plan := assignTasks(dg, tasks, done, staffed, candidates, users, slot.Interval.End)
		for id := range plan.tasks {
			done[id] = struct{}{}
		}

		result = append(result, SlotAssignment{
			Slot:  slot,
			Tasks: plan.tasks,
			Users: plan.users,
		})
	}

	return &Schedule{Slots: result}, nil
}

// computeCandidatesConcurrently builds each slot's candidate set in
// parallel across a bounded worker pool (spec.md §4.5 step 1 is
// independent per slot — only the sequential staffing/assignment pass
// that follows needs to run in input order).
func computeCandidatesConcurrently(slots []domain.Slot, users map[domain.UserID]domain.User) [][]candidate {
	out := make([][]candidate, len(slots))
	jobs := make([]pool.Job, len(slots))
	for i, slot := range slots {
		i, slot := i, slot
		jobs[i] = func() error {
			out[i] = buildCandidates(slot.Interval, users)
			return nil
		}
	}
	_ = pool.RunAll(jobs)
	return out
}
