// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"time"

	"github.com/shiftforge/scheduler/internal/domain"
	"github.com/shiftforge/scheduler/internal/store"
)

// Every field is optional: a missing field means "do not filter" (spec.md
// §6). These mirror the store package's own Filter types field-for-field,
// substituting a PatternWire for each unexported store.Pattern field so
// the request body can be decoded with the standard library's
// encoding/json.

// UserFilterWire decodes get_users' Filter parameter.
type UserFilterWire struct {
	IDs     map[domain.UserID]struct{} `json:"ids,omitempty"`
	NamePat *PatternWire               `json:"name_pat,omitempty"`
}

func (w UserFilterWire) ToFilter() (store.UserFilter, error) {
	f := store.UserFilter{IDs: w.IDs}
	if w.NamePat != nil {
		p, err := w.NamePat.ToPattern()
		if err != nil {
			return store.UserFilter{}, err
		}
		f.NamePat = &p
	}
	return f, nil
}

// TaskFilterWire decodes get_tasks' Filter parameter.
type TaskFilterWire struct {
	IDs            map[domain.TaskID]struct{} `json:"ids,omitempty"`
	TitlePat       *PatternWire               `json:"title_pat,omitempty"`
	DescPat        *PatternWire               `json:"desc_pat,omitempty"`
	DeadlineAfter  *time.Time                 `json:"deadline_after,omitempty"`
	DeadlineBefore *time.Time                 `json:"deadline_before,omitempty"`
}

func (w TaskFilterWire) ToFilter() (store.TaskFilter, error) {
	f := store.TaskFilter{
		IDs:            w.IDs,
		DeadlineAfter:  w.DeadlineAfter,
		DeadlineBefore: w.DeadlineBefore,
	}
	if w.TitlePat != nil {
		p, err := w.TitlePat.ToPattern()
		if err != nil {
			return store.TaskFilter{}, err
		}
		f.TitlePat = &p
	}
	if w.DescPat != nil {
		p, err := w.DescPat.ToPattern()
		if err != nil {
			return store.TaskFilter{}, err
		}
		f.DescPat = &p
	}
	return f, nil
}

// SlotFilterWire decodes get_slots' Filter parameter.
type SlotFilterWire struct {
	IDs            map[domain.SlotID]struct{} `json:"ids,omitempty"`
	StartingAfter  *time.Time                 `json:"starting_after,omitempty"`
	StartingBefore *time.Time                 `json:"starting_before,omitempty"`
	EndingAfter    *time.Time                 `json:"ending_after,omitempty"`
	EndingBefore   *time.Time                 `json:"ending_before,omitempty"`
	MinStaffMin    *int                       `json:"min_staff_min,omitempty"`
	MinStaffMax    *int                       `json:"min_staff_max,omitempty"`
	NamePat        *PatternWire               `json:"name_pat,omitempty"`
}

func (w SlotFilterWire) ToFilter() (store.SlotFilter, error) {
	f := store.SlotFilter{
		IDs:            w.IDs,
		StartingAfter:  w.StartingAfter,
		StartingBefore: w.StartingBefore,
		EndingAfter:    w.EndingAfter,
		EndingBefore:   w.EndingBefore,
		MinStaffMin:    w.MinStaffMin,
		MinStaffMax:    w.MinStaffMax,
	}
	if w.NamePat != nil {
		p, err := w.NamePat.ToPattern()
		if err != nil {
			return store.SlotFilter{}, err
		}
		f.NamePat = &p
	}
	return f, nil
}

// RuleFilterWire decodes one entry of get_rules' {UserId -> RuleFilter}
// parameter. store.RuleFilter has no Pattern field, so it needs no wire
// substitution of its own.
type RuleFilterWire struct {
	IDs     map[domain.RuleID]struct{} `json:"ids,omitempty"`
	MinPref *domain.Preference         `json:"min_pref,omitempty"`
	MaxPref *domain.Preference         `json:"max_pref,omitempty"`
}

func (w RuleFilterWire) ToFilter() store.RuleFilter {
	return store.RuleFilter{IDs: w.IDs, MinPref: w.MinPref, MaxPref: w.MaxPref}
}
