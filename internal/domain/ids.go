// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package domain holds the entities, identifiers, and value types that
// every other package in this module builds on: users, tasks, slots,
// rules, skills, and the preference/proficiency scalars that rank them.
package domain

import (
	"fmt"
	"sync/atomic"
)

// UserID uniquely identifies a User. Never interchangeable with TaskID,
// SlotID, SkillID, or RuleID even though all are backed by uint64.
type UserID uint64

func (id UserID) String() string { return fmt.Sprintf("u.%x", uint64(id)) }

// TaskID uniquely identifies a Task.
type TaskID uint64

func (id TaskID) String() string { return fmt.Sprintf("t.%x", uint64(id)) }

// SlotID uniquely identifies a Slot.
type SlotID uint64

func (id SlotID) String() string { return fmt.Sprintf("sl.%x", uint64(id)) }

// SkillID uniquely identifies a Skill.
type SkillID uint64

func (id SkillID) String() string { return fmt.Sprintf("s.%x", uint64(id)) }

// RuleID uniquely identifies a Rule. Owned by exactly one User.
type RuleID uint64

func (id RuleID) String() string { return fmt.Sprintf("r.%x", uint64(id)) }

// Counter issues monotonically increasing ids for one entity kind. The
// zero value is ready to use and starts issuing at 1. Counters never
// decrease during a process run; Reset is only safe to call immediately
// after a full wipe of the owning map.
type Counter struct {
	next uint64
}

// NewCounter returns a Counter that will issue startAt as its first id.
// Used on load to resume one past the maximum id observed in a file.
func NewCounter(startAt uint64) *Counter {
	if startAt == 0 {
		startAt = 1
	}
	return &Counter{next: startAt - 1}
}

// Next atomically issues the next id.
func (c *Counter) Next() uint64 {
	return atomic.AddUint64(&c.next, 1)
}

// Observe advances the counter so that the next issued id is strictly
// greater than seen, without decreasing it if seen is smaller than the
// counter's current position. Used while loading a persisted map to make
// sure freshly issued ids never collide with a loaded one.
func (c *Counter) Observe(seen uint64) {
	for {
		cur := atomic.LoadUint64(&c.next)
		if seen <= cur {
			return
		}
		if atomic.CompareAndSwapUint64(&c.next, cur, seen) {
			return
		}
	}
}

// Reset rewinds the counter to issue startAt next. Only safe to call
// after a full wipe of the owning entity map.
func (c *Counter) Reset(startAt uint64) {
	if startAt == 0 {
		startAt = 1
	}
	atomic.StoreUint64(&c.next, startAt-1)
}
