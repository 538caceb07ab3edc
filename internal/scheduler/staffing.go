// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"strconv"

	"github.com/shiftforge/scheduler/internal/domain"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

// selectStaffing applies spec.md §4.5 step 2: it honors mandatory
// (PreferenceMust) candidates first, then fills the slot's min_staff
// requirement (if any) from the remaining candidates in descending
// preference order, skipping anyone who would create a mutual
// PreferenceMustNot conflict with an already-chosen user.
//
// A nil MinStaff means the slot is an opportunity to work rather than a
// shift that must be covered: only mandatory candidates are staffed up
// front, and the task-assignment pass (assignTasks) grows the set
// further only when a task's ProficiencyReq demands it, in keeping with
// criterion 6's "minimise simultaneous users" tie-break.
func selectStaffing(slot domain.Slot, candidates []candidate, users map[domain.UserID]domain.User) (map[domain.UserID]struct{}, error) {
	must := mandatory(candidates)
	for a := range must {
		for b := range must {
			if a != b && conflicts(a, b, users) {
				return nil, scheduler_errors.NewIllegalError(
					"slot " + slot.ID.String() + ": mandatory users " + a.String() + " and " + b.String() + " mutually exclude each other")
			}
		}
	}

	staffed := make(map[domain.UserID]struct{}, len(must))
	for u := range must {
		staffed[u] = struct{}{}
	}

	if slot.MinStaff == nil {
		return staffed, nil
	}
	want := *slot.MinStaff

	if len(candidates) < want {
		return nil, scheduler_errors.NewUnderstaffedError(slot.ID, len(candidates), want)
	}

	for _, c := range candidates {
		if len(staffed) >= want {
			break
		}
		if _, already := staffed[c.user]; already {
			continue
		}
		if hasConflictWith(c.user, staffed, users) {
			continue
		}
		staffed[c.user] = struct{}{}
	}

	if len(staffed) < want {
		return nil, scheduler_errors.NewIllegalError(
			"slot " + slot.ID.String() + ": no staffing of size " + strconv.Itoa(want) + " avoids a mutual exclusion")
	}
	return staffed, nil
}
