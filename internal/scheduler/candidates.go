// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package scheduler implements the per-slot candidate selection,
// staffing, and task assignment algorithm of spec.md §4.5: building a
// Schedule from a slice of Slots, a TaskMap, and a UserMap.
package scheduler

import (
	"sort"

	"github.com/shiftforge/scheduler/internal/domain"
)

// candidate pairs a UserID with the highest preference among its Rules
// that contain the slot's interval (spec.md §4.5 step 1).
type candidate struct {
	user domain.UserID
	pref domain.Preference
}

// buildCandidates returns every User for whom some Rule in availability
// contains interval with a preference strictly greater than
// PreferenceMustNot, alongside that maximum matching preference.
func buildCandidates(interval domain.TimeInterval, users map[domain.UserID]domain.User) []candidate {
	out := make([]candidate, 0, len(users))
	for id, u := range users {
		pref, found := u.MaxMatchingPreference(interval)
		if !found || pref.Compare(domain.PreferenceMustNot) <= 0 {
			continue
		}
		out = append(out, candidate{user: id, pref: pref})
	}
	sortCandidatesByPreferenceDesc(out)
	return out
}

// sortCandidatesByPreferenceDesc sorts by descending preference, ties
// broken by ascending UserID for determinism (spec.md §4.5 step 2).
func sortCandidatesByPreferenceDesc(cs []candidate) {
	sort.Slice(cs, func(i, j int) bool {
		if cmp := cs[i].pref.Compare(cs[j].pref); cmp != 0 {
			return cmp > 0
		}
		return cs[i].user < cs[j].user
	})
}

// mandatory returns the subset of candidates whose preference is the
// PreferenceMust sentinel: users the slot must include unless doing so
// is impossible (spec.md §4.5 criterion 1).
func mandatory(cs []candidate) map[domain.UserID]struct{} {
	out := make(map[domain.UserID]struct{})
	for _, c := range cs {
		if c.pref.IsMust() {
			out[c.user] = struct{}{}
		}
	}
	return out
}

// conflicts reports whether a and b may never be scheduled together: a's
// preference towards b or b's towards a is the PreferenceMustNot
// sentinel (spec.md §4.5 criterion 1).
func conflicts(a, b domain.UserID, users map[domain.UserID]domain.User) bool {
	if ua, ok := users[a]; ok && ua.PreferenceTowards(b).IsMustNot() {
		return true
	}
	if ub, ok := users[b]; ok && ub.PreferenceTowards(a).IsMustNot() {
		return true
	}
	return false
}

// hasConflictWith reports whether candidate c conflicts with any member
// already in staffed.
func hasConflictWith(c domain.UserID, staffed map[domain.UserID]struct{}, users map[domain.UserID]domain.User) bool {
	for other := range staffed {
		if conflicts(c, other, users) {
			return true
		}
	}
	return false
}
