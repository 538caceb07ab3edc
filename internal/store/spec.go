// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	"github.com/shiftforge/scheduler/internal/domain"
)

// RuleSpec creates a Rule owned by a specified User (add_rules).
type RuleSpec struct {
	Include []domain.TimeInterval
	Rep     *domain.Repetition
	Pref    domain.Preference
}

// SlotSpec creates a Slot (add_slots).
type SlotSpec struct {
	Interval domain.TimeInterval
	MinStaff *int
	Name     string
}

// TaskSpec creates a Task (add_tasks).
type TaskSpec struct {
	Title    string
	Desc     string
	Deadline *time.Time
	Deps     map[domain.TaskID]struct{}
}

// UserSpec creates a User (add_users).
type UserSpec struct {
	Name string
}

// RuleProjection is the read-only view of a Rule returned by get_rules.
type RuleProjection struct {
	ID      domain.RuleID
	Include []domain.TimeInterval
	Rep     *domain.Repetition
	Pref    domain.Preference
}

// SlotProjection is the read-only view of a Slot returned by get_slots.
type SlotProjection struct {
	ID       domain.SlotID
	Interval domain.TimeInterval
	MinStaff *int
	Name     string
}

// TaskProjection is the read-only view of a Task returned by get_tasks.
type TaskProjection struct {
	ID       domain.TaskID
	Title    string
	Desc     string
	Skills   map[domain.SkillID]domain.ProficiencyReq
	Deadline *time.Time
	Deps     map[domain.TaskID]struct{}
}

// UserProjection is the read-only view of a User returned by get_users.
type UserProjection struct {
	ID        domain.UserID
	Name      string
	UserPrefs map[domain.UserID]domain.Preference
	Skills    map[domain.SkillID]domain.Proficiency
}

func projectRule(id domain.RuleID, r domain.Rule) RuleProjection {
	return RuleProjection{ID: id, Include: r.Include, Rep: r.Rep, Pref: r.Pref}
}

func projectSlot(s domain.Slot) SlotProjection {
	return SlotProjection{ID: s.ID, Interval: s.Interval, MinStaff: s.MinStaff, Name: s.Name}
}

func projectTask(t domain.Task) TaskProjection {
	return TaskProjection{ID: t.ID, Title: t.Title, Desc: t.Desc, Skills: t.Skills, Deadline: t.Deadline, Deps: t.Deps}
}

func projectUser(u domain.User) UserProjection {
	return UserProjection{ID: u.ID, Name: u.Name, UserPrefs: u.UserPrefs, Skills: u.Skills}
}
