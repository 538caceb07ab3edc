// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package scheduler

import (
	"sort"
	"time"

	"github.com/shiftforge/scheduler/internal/depgraph"
	"github.com/shiftforge/scheduler/internal/domain"
)

// slotPlan is the mutable accumulator assignTasks builds up for one
// slot: the tasks it completes and the final user set staffing it,
// including any candidates added beyond the slot's baseline staffing to
// satisfy a task's ProficiencyReq.
type slotPlan struct {
	tasks map[domain.TaskID]struct{}
	users map[domain.UserID]struct{}
}

// assignTasks repeatedly picks the highest-priority task still eligible
// for this slot (every dependency already completed in an earlier slot
// or earlier this same slot) and attempts to staff it from the slot's
// baseline staffing, growing that staffing from candidates when a
// task's ProficiencyReq demands it (spec.md §4.5 step 3). A task that
// cannot be staffed is left for a later slot rather than failing the
// call outright — infeasible-forever tasks simply never get assigned,
// which criterion 2 (maximise completion) already penalises.
//
// Priority among eligible tasks approximates objective criteria 3-4:
// earliest deadline first (nil deadline sorts last), ties broken by
// descending dependent count (criterion 4) and then ascending TaskID
// for determinism.
func assignTasks(
	dg *depgraph.Graph,
	tasks map[domain.TaskID]domain.Task,
	done map[domain.TaskID]struct{},
	staffed map[domain.UserID]struct{},
	candidates []candidate,
	users map[domain.UserID]domain.User,
	slotEnd time.Time,
) slotPlan {
	plan := slotPlan{
		tasks: make(map[domain.TaskID]struct{}),
		users: cloneUserSet(staffed),
	}

	remaining := make(map[domain.TaskID]struct{})
	for id := range tasks {
		if _, ok := done[id]; !ok {
			remaining[id] = struct{}{}
		}
	}

	for {
		next, ok := pickNextEligible(dg, tasks, done, plan.tasks, remaining)
		if !ok {
			break
		}
		delete(remaining, next)
		if tryAssign(tasks[next], &plan, candidates, users) {
			plan.tasks[next] = struct{}{}
		}
	}

	_ = slotEnd
	return plan
}

// pickNextEligible returns the highest-priority task in remaining whose
// dependencies are all satisfied by done or assignedThisSlot, false if
// none qualify.
func pickNextEligible(dg *depgraph.Graph, tasks map[domain.TaskID]domain.Task, done, assignedThisSlot map[domain.TaskID]struct{}, remaining map[domain.TaskID]struct{}) (domain.TaskID, bool) {
	var eligible []domain.TaskID
	for id := range remaining {
		if depsSatisfied(tasks[id], done, assignedThisSlot) {
			eligible = append(eligible, id)
		}
	}
	if len(eligible) == 0 {
		return 0, false
	}
	sort.Slice(eligible, func(i, j int) bool {
		return higherPriority(tasks[eligible[i]], eligible[i], tasks[eligible[j]], eligible[j], dg)
	})
	return eligible[0], true
}

// higherPriority orders a ahead of b when a's deadline is earlier (nil
// sorting last), or on a tie, when a has more direct dependents, or on
// a further tie, when a's id is smaller.
func higherPriority(a domain.Task, aID domain.TaskID, b domain.Task, bID domain.TaskID, dg *depgraph.Graph) bool {
	switch {
	case a.Deadline == nil && b.Deadline != nil:
		return false
	case a.Deadline != nil && b.Deadline == nil:
		return true
	case a.Deadline != nil && b.Deadline != nil && !a.Deadline.Equal(*b.Deadline):
		return a.Deadline.Before(*b.Deadline)
	}
	if da, db := dependentCount(dg, aID), dependentCount(dg, bID); da != db {
		return da > db
	}
	return aID < bID
}

// depsSatisfied reports whether every dependency of t has already been
// assigned, either in an earlier slot (done) or earlier in this same
// slot's walk (assignedThisSlot).
func depsSatisfied(t domain.Task, done, assignedThisSlot map[domain.TaskID]struct{}) bool {
	for dep := range t.Deps {
		if _, ok := done[dep]; ok {
			continue
		}
		if _, ok := assignedThisSlot[dep]; ok {
			continue
		}
		return false
	}
	return true
}

// tryAssign attempts to satisfy every skill requirement of t using
// plan.users, growing it from candidates when the hard range is
// otherwise unmet. Returns false without reverting any growth already
// applied for an earlier, successfully satisfied requirement of t.
func tryAssign(t domain.Task, plan *slotPlan, candidates []candidate, users map[domain.UserID]domain.User) bool {
	for skill, req := range t.Skills {
		if !satisfyRequirement(skill, req, plan, candidates, users) {
			return false
		}
	}
	return true
}

// satisfyRequirement ensures plan.users' summed proficiency for skill
// lies within req's hard range, growing plan.users from candidates (by
// descending preference, skipping mutual exclusions) when the current
// sum falls short. It never removes a user once added.
func satisfyRequirement(skill domain.SkillID, req domain.ProficiencyReq, plan *slotPlan, candidates []candidate, users map[domain.UserID]domain.User) bool {
	sum := summedProficiency(skill, plan.users, users)
	if req.InHardRange(sum) {
		return true
	}
	if sum > req.HardMax {
		return false
	}

	for _, c := range candidates {
		if _, already := plan.users[c.user]; already {
			continue
		}
		if hasConflictWith(c.user, plan.users, users) {
			continue
		}
		u, ok := users[c.user]
		if !ok || u.ProficiencyFor(skill) == domain.ProficiencyZero {
			continue
		}
		plan.users[c.user] = struct{}{}
		sum = summedProficiency(skill, plan.users, users)
		if req.InHardRange(sum) {
			return true
		}
	}
	return false
}

func summedProficiency(skill domain.SkillID, staffed map[domain.UserID]struct{}, users map[domain.UserID]domain.User) domain.Proficiency {
	var sum domain.Proficiency
	for id := range staffed {
		if u, ok := users[id]; ok {
			sum += u.ProficiencyFor(skill)
		}
	}
	return sum
}

func cloneUserSet(in map[domain.UserID]struct{}) map[domain.UserID]struct{} {
	out := make(map[domain.UserID]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}

// dependentCount returns how many other tasks directly await id, used to
// tie-break criterion 4 (descending dependent count).
func dependentCount(dg *depgraph.Graph, id domain.TaskID) int {
	adj, ok := dg.Adjacent(id)
	if !ok {
		return 0
	}
	return len(adj)
}
