// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	"github.com/shiftforge/scheduler/internal/domain"
)

// RuleFilter selects Rules owned by a single User (get_rules). A nil
// field means "do not filter"; an empty IDs set means "never match",
// distinct from a nil IDs set.
type RuleFilter struct {
	IDs     map[domain.RuleID]struct{}
	MinPref *domain.Preference
	MaxPref *domain.Preference
}

func (f RuleFilter) matches(id domain.RuleID, r domain.Rule) bool {
	if f.IDs != nil {
		if _, ok := f.IDs[id]; !ok {
			return false
		}
	}
	if f.MinPref != nil && r.Pref.Compare(*f.MinPref) < 0 {
		return false
	}
	if f.MaxPref != nil && r.Pref.Compare(*f.MaxPref) > 0 {
		return false
	}
	return true
}

// SlotFilter selects Slots (get_slots).
type SlotFilter struct {
	IDs            map[domain.SlotID]struct{}
	StartingAfter  *time.Time
	StartingBefore *time.Time
	EndingAfter    *time.Time
	EndingBefore   *time.Time
	MinStaffMin    *int
	MinStaffMax    *int
	NamePat        *Pattern
}

func (f SlotFilter) matches(s domain.Slot) bool {
	if f.IDs != nil {
		if _, ok := f.IDs[s.ID]; !ok {
			return false
		}
	}
	if f.StartingAfter != nil && s.Interval.Start.Before(*f.StartingAfter) {
		return false
	}
	if f.StartingBefore != nil && s.Interval.Start.After(*f.StartingBefore) {
		return false
	}
	if f.EndingAfter != nil && s.Interval.End.Before(*f.EndingAfter) {
		return false
	}
	if f.EndingBefore != nil && s.Interval.End.After(*f.EndingBefore) {
		return false
	}
	minStaff := 0
	if s.MinStaff != nil {
		minStaff = *s.MinStaff
	}
	if f.MinStaffMin != nil && minStaff < *f.MinStaffMin {
		return false
	}
	if f.MinStaffMax != nil && minStaff > *f.MinStaffMax {
		return false
	}
	if f.NamePat != nil && !f.NamePat.IsMatch(s.Name) {
		return false
	}
	return true
}

// TaskFilter selects Tasks (get_tasks).
type TaskFilter struct {
	IDs            map[domain.TaskID]struct{}
	TitlePat       *Pattern
	DescPat        *Pattern
	DeadlineAfter  *time.Time
	DeadlineBefore *time.Time
}

func (f TaskFilter) matches(t domain.Task) bool {
	if f.IDs != nil {
		if _, ok := f.IDs[t.ID]; !ok {
			return false
		}
	}
	// A missing deadline behaves as +infinity: it can never be <= a
	// deadline_before bound, but always satisfies a deadline_after bound.
	if f.DeadlineBefore != nil {
		if t.Deadline == nil || t.Deadline.After(*f.DeadlineBefore) {
			return false
		}
	}
	if f.DeadlineAfter != nil {
		if t.Deadline != nil && t.Deadline.Before(*f.DeadlineAfter) {
			return false
		}
	}
	if f.TitlePat != nil && !f.TitlePat.IsMatch(t.Title) {
		return false
	}
	if f.DescPat != nil && !f.DescPat.IsMatch(t.Desc) {
		return false
	}
	return true
}

// UserFilter selects Users (get_users).
type UserFilter struct {
	IDs     map[domain.UserID]struct{}
	NamePat *Pattern
}

func (f UserFilter) matches(u domain.User) bool {
	if f.IDs != nil {
		if _, ok := f.IDs[u.ID]; !ok {
			return false
		}
	}
	if f.NamePat != nil && !f.NamePat.IsMatch(u.Name) {
		return false
	}
	return true
}
