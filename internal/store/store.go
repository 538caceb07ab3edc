// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package store implements the Domain Store: a process-wide,
// concurrently-accessible catalogue of Users, Tasks, Slots, and the
// Rules each User owns, keyed by monotonically issued identifiers.
package store

import (
	"sync"

	"github.com/shiftforge/scheduler/internal/domain"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
	"github.com/shiftforge/scheduler/pkg/logging"
)

// Store holds one map per entity kind, each guarded by its own
// many-readers/single-writer lock, plus the counter that issues that
// kind's ids. Rules live inside User.Availability and share the Users
// lock and counter rather than getting their own map, since a Rule is
// never addressable independent of its owning User (spec.md §4.3).
type Store struct {
	usersMu sync.RWMutex
	users   map[domain.UserID]domain.User
	userIDs *domain.Counter
	ruleIDs *domain.Counter

	tasksMu sync.RWMutex
	tasks   map[domain.TaskID]domain.Task
	taskIDs *domain.Counter

	slotsMu sync.RWMutex
	slots   map[domain.SlotID]domain.Slot
	slotIDs *domain.Counter

	log logging.Logger
}

// New returns an empty Store whose counters all start at 1.
func New(log logging.Logger) *Store {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	return &Store{
		users:   make(map[domain.UserID]domain.User),
		userIDs: domain.NewCounter(1),
		ruleIDs: domain.NewCounter(1),
		tasks:   make(map[domain.TaskID]domain.Task),
		taskIDs: domain.NewCounter(1),
		slots:   make(map[domain.SlotID]domain.Slot),
		slotIDs: domain.NewCounter(1),
		log:     log,
	}
}

// AddUsers creates one User per spec, in order, and returns their
// assigned ids. Creation never fails (spec.md §4.3).
func (s *Store) AddUsers(specs []UserSpec) []domain.UserID {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	ids := make([]domain.UserID, len(specs))
	for i, spec := range specs {
		id := domain.UserID(s.userIDs.Next())
		s.users[id] = domain.NewUser(id, spec.Name)
		ids[i] = id
	}
	s.log.Debug("added users", "count", len(ids))
	return ids
}

// AddRules creates Rules inside the named owning Users. A batch entry
// whose UserID does not exist is skipped entirely and omitted from the
// result (spec.md §4.3).
func (s *Store) AddRules(specs map[domain.UserID][]RuleSpec) (map[domain.UserID][]domain.RuleID, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	result := make(map[domain.UserID][]domain.RuleID, len(specs))
	for userID, rs := range specs {
		user, ok := s.users[userID]
		if !ok {
			continue
		}
		ids := make([]domain.RuleID, 0, len(rs))
		for _, spec := range rs {
			rule, err := domain.NewRule(spec.Include, spec.Rep, spec.Pref)
			if err != nil {
				return nil, scheduler_errors.NewValidationError("rule", "%s", err)
			}
			id := domain.RuleID(s.ruleIDs.Next())
			user.Availability[id] = rule
			ids = append(ids, id)
		}
		s.users[userID] = user
		result[userID] = ids
	}
	return result, nil
}

// AddTasks creates one Task per spec, in order, and returns their
// assigned ids. Creation never fails; acyclicity is enforced by
// internal/depgraph at scheduling time, not here (spec.md §4.3/§4.4).
func (s *Store) AddTasks(specs []TaskSpec) []domain.TaskID {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	ids := make([]domain.TaskID, len(specs))
	for i, spec := range specs {
		id := domain.TaskID(s.taskIDs.Next())
		deps := spec.Deps
		if deps == nil {
			deps = make(map[domain.TaskID]struct{})
		}
		s.tasks[id] = domain.Task{
			ID:       id,
			Title:    spec.Title,
			Desc:     spec.Desc,
			Skills:   make(map[domain.SkillID]domain.ProficiencyReq),
			Deadline: spec.Deadline,
			Deps:     deps,
		}
		ids[i] = id
	}
	s.log.Debug("added tasks", "count", len(ids))
	return ids
}

// AddSlots creates one Slot per spec, in order, and returns their
// assigned ids. Creation never fails; spec validity (MinStaff >= 1) must
// already have been checked by the caller via domain.NewSlot.
func (s *Store) AddSlots(specs []SlotSpec) []domain.SlotID {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	ids := make([]domain.SlotID, len(specs))
	for i, spec := range specs {
		id := domain.SlotID(s.slotIDs.Next())
		s.slots[id] = domain.Slot{ID: id, Interval: spec.Interval, MinStaff: spec.MinStaff, Name: spec.Name}
		ids[i] = id
	}
	s.log.Debug("added slots", "count", len(ids))
	return ids
}

// GetUsers returns every User matching filter, keyed by id.
func (s *Store) GetUsers(filter UserFilter) map[domain.UserID]UserProjection {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make(map[domain.UserID]UserProjection)
	for id, u := range s.users {
		if filter.matches(u) {
			out[id] = projectUser(u)
		}
	}
	return out
}

// GetRules returns every Rule matching its owner's filter, keyed by
// owning UserID then RuleID. A UserID absent from the Store is a
// NonExistentTask-class fault surfaced as CodeNotFound (spec.md §6).
func (s *Store) GetRules(filters map[domain.UserID]RuleFilter) (map[domain.UserID]map[domain.RuleID]RuleProjection, error) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()

	out := make(map[domain.UserID]map[domain.RuleID]RuleProjection, len(filters))
	for userID, filter := range filters {
		user, ok := s.users[userID]
		if !ok {
			return nil, scheduler_errors.NewNotFoundError("user", userID)
		}
		rules := make(map[domain.RuleID]RuleProjection)
		for id, r := range user.Availability {
			if filter.matches(id, r) {
				rules[id] = projectRule(id, r)
			}
		}
		out[userID] = rules
	}
	return out, nil
}

// GetTasks returns every Task matching filter, keyed by id.
func (s *Store) GetTasks(filter TaskFilter) map[domain.TaskID]TaskProjection {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	out := make(map[domain.TaskID]TaskProjection)
	for id, t := range s.tasks {
		if filter.matches(t) {
			out[id] = projectTask(t)
		}
	}
	return out
}

// GetSlots returns every Slot matching filter.
func (s *Store) GetSlots(filter SlotFilter) []SlotProjection {
	s.slotsMu.RLock()
	defer s.slotsMu.RUnlock()

	var out []SlotProjection
	for _, sl := range s.slots {
		if filter.matches(sl) {
			out = append(out, projectSlot(sl))
		}
	}
	return out
}

// Snapshot takes all three entity locks (read-only) at once and returns
// copies of the full domain types the Scheduling Engine needs — unlike
// Get*, which return filtered, stripped-down Projections, a scheduling
// run needs every field (Rule/Deps/ProficiencyReq) of every entity
// (spec.md §4.5 "Concurrency": a run holds a read lock on the Store for
// its entire duration).
func (s *Store) Snapshot() (users map[domain.UserID]domain.User, tasks map[domain.TaskID]domain.Task, slots []domain.Slot) {
	s.usersMu.RLock()
	defer s.usersMu.RUnlock()
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	s.slotsMu.RLock()
	defer s.slotsMu.RUnlock()

	users = make(map[domain.UserID]domain.User, len(s.users))
	for id, u := range s.users {
		users[id] = u
	}
	tasks = make(map[domain.TaskID]domain.Task, len(s.tasks))
	for id, t := range s.tasks {
		tasks[id] = t
	}
	slots = make([]domain.Slot, 0, len(s.slots))
	for _, sl := range s.slots {
		slots = append(slots, sl)
	}
	return users, tasks, slots
}

// MutUsers applies one UserDelta per named UserID and returns, for every
// User that exists, the RuleIDs in its Availability delta that could not
// be applied (spec.md §9 Open Question 3). A UserID with no entry in the
// Store is reported as a failed id in the same return value, under the
// zero RuleID slice convention: callers distinguish the two cases by
// checking GetUsers if needed.
func (s *Store) MutUsers(deltas map[domain.UserID]UserDelta) map[domain.UserID][]domain.RuleID {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	failed := make(map[domain.UserID][]domain.RuleID)
	for userID, delta := range deltas {
		user, ok := s.users[userID]
		if !ok {
			failed[userID] = nil
			continue
		}
		unresolved := delta.apply(&user)
		s.users[userID] = user
		if len(unresolved) > 0 {
			failed[userID] = unresolved
		}
	}
	return failed
}

// MutTasks applies one TaskDelta per named TaskID and returns the ids
// that do not exist in the Store.
func (s *Store) MutTasks(deltas map[domain.TaskID]TaskDelta) []domain.TaskID {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	var failed []domain.TaskID
	for taskID, delta := range deltas {
		task, ok := s.tasks[taskID]
		if !ok {
			failed = append(failed, taskID)
			continue
		}
		delta.apply(&task)
		s.tasks[taskID] = task
	}
	return failed
}

// MutSlots applies one SlotDelta per named SlotID and returns the ids
// that do not exist in the Store.
func (s *Store) MutSlots(deltas map[domain.SlotID]SlotDelta) []domain.SlotID {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	var failed []domain.SlotID
	for slotID, delta := range deltas {
		slot, ok := s.slots[slotID]
		if !ok {
			failed = append(failed, slotID)
			continue
		}
		delta.apply(&slot)
		s.slots[slotID] = slot
	}
	return failed
}

// PopUsers removes the named Users, dropping every Rule each one owns,
// and returns the ids that did not exist.
func (s *Store) PopUsers(ids map[domain.UserID]struct{}) map[domain.UserID]struct{} {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	missing := make(map[domain.UserID]struct{})
	for id := range ids {
		if _, ok := s.users[id]; ok {
			delete(s.users, id)
		} else {
			missing[id] = struct{}{}
		}
	}
	return missing
}

// PopRules removes the named Rules from their owning Users. Returns,
// per owning UserID, the RuleIDs that did not exist under that user.
// Entries whose every requested RuleID was removed are omitted from the
// result, matching the Rust original's filter-out-if-empty convention.
func (s *Store) PopRules(toPop map[domain.UserID]map[domain.RuleID]struct{}) map[domain.UserID]map[domain.RuleID]struct{} {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	out := make(map[domain.UserID]map[domain.RuleID]struct{})
	for userID, ruleIDs := range toPop {
		remaining := make(map[domain.RuleID]struct{}, len(ruleIDs))
		for id := range ruleIDs {
			remaining[id] = struct{}{}
		}
		if user, ok := s.users[userID]; ok {
			for id := range ruleIDs {
				if _, ok := user.Availability[id]; ok {
					delete(user.Availability, id)
					delete(remaining, id)
				}
			}
		}
		if len(remaining) > 0 {
			out[userID] = remaining
		}
	}
	return out
}

// PopTasks removes the named Tasks and returns the ids that did not
// exist. It does not check whether any surviving Task still depends on
// a removed id — the Dependency Engine surfaces that at scheduling time.
func (s *Store) PopTasks(ids map[domain.TaskID]struct{}) map[domain.TaskID]struct{} {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	missing := make(map[domain.TaskID]struct{})
	for id := range ids {
		if _, ok := s.tasks[id]; ok {
			delete(s.tasks, id)
		} else {
			missing[id] = struct{}{}
		}
	}
	return missing
}

// PopSlots removes the named Slots and returns the ids that did not
// exist.
func (s *Store) PopSlots(ids map[domain.SlotID]struct{}) map[domain.SlotID]struct{} {
	s.slotsMu.Lock()
	defer s.slotsMu.Unlock()

	missing := make(map[domain.SlotID]struct{})
	for id := range ids {
		if _, ok := s.slots[id]; ok {
			delete(s.slots, id)
		} else {
			missing[id] = struct{}{}
		}
	}
	return missing
}
