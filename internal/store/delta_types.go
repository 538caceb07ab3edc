// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	"github.com/shiftforge/scheduler/internal/domain"
)

// RuleDelta is a mutation request for a single Rule, applied in place by
// patchRule. It never creates a new Rule id — that is add_rules' job.
type RuleDelta struct {
	Include IndexedSetDelta[domain.TimeInterval]
	Rep     Update[*domain.Repetition]
	Pref    Update[domain.Preference]
}

// patchRule applies d to r and returns the patched value. Called by
// ApplyNoGrowSetDelta for every RuleID present in both a UserDelta's
// Availability.Update and the target User's Availability map.
func patchRule(r domain.Rule, d RuleDelta) domain.Rule {
	r.Include = d.Include.Apply(r.Include)
	d.Rep.Apply(&r.Rep)
	d.Pref.Apply(&r.Pref)
	return r
}

// SlotDelta is a mutation request for a single Slot.
type SlotDelta struct {
	Interval Update[domain.TimeInterval]
	MinStaff Update[*int]
	Name     Update[string]
}

func (d SlotDelta) apply(s *domain.Slot) {
	d.Interval.Apply(&s.Interval)
	d.MinStaff.Apply(&s.MinStaff)
	d.Name.Apply(&s.Name)
}

// TaskDelta is a mutation request for a single Task.
type TaskDelta struct {
	Title    Update[string]
	Desc     Update[string]
	Skills   SetDelta[domain.SkillID, domain.ProficiencyReq]
	Deadline Update[*time.Time]
	Deps     KeySetDelta[domain.TaskID]
}

func (d TaskDelta) apply(t *domain.Task) {
	d.Title.Apply(&t.Title)
	d.Desc.Apply(&t.Desc)
	d.Skills.Apply(t.Skills)
	d.Deadline.Apply(&t.Deadline)
	d.Deps.Apply(t.Deps)
}

// UserDelta is a mutation request for a single User. Availability cannot
// grow — new Rules are created only via add_rules (spec.md §4.3), since a
// mut_users call that both created and referenced a Rule could never
// report its id back to the caller.
type UserDelta struct {
	Name         Update[string]
	Availability NoGrowSetDelta[domain.RuleID, RuleDelta]
	UserPrefs    SetDelta[domain.UserID, domain.Preference]
	Skills       SetDelta[domain.SkillID, domain.Proficiency]
}

// apply mutates u in place and returns the RuleIDs in d.Availability that
// could not be applied because they don't exist under u (spec.md §9 Open
// Question 3).
func (d UserDelta) apply(u *domain.User) []domain.RuleID {
	d.Name.Apply(&u.Name)
	unresolved := ApplyNoGrowSetDelta(d.Availability, u.Availability, patchRule)
	d.UserPrefs.Apply(u.UserPrefs)
	d.Skills.Apply(u.Skills)
	return unresolved
}
