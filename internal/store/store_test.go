// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"testing"
	"time"

	"github.com/shiftforge/scheduler/internal/domain"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return New(nil)
}

func TestAddUsersIssuesIdsInOrder(t *testing.T) {
	s := newTestStore()
	ids := s.AddUsers([]UserSpec{{Name: "bob"}, {Name: "sally"}})
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	got := s.GetUsers(UserFilter{})
	assert.Len(t, got, 2)
	assert.Equal(t, "bob", got[ids[0]].Name)
}

func TestAddRulesSkipsMissingUserAndOmitsFromResult(t *testing.T) {
	s := newTestStore()
	userIDs := s.AddUsers([]UserSpec{{Name: "bob"}})

	specs := map[domain.UserID][]RuleSpec{
		userIDs[0]:        {{Include: []domain.TimeInterval{mustIv(t, 0, 3600)}, Pref: domain.PreferenceNone}},
		domain.UserID(999): {{Include: []domain.TimeInterval{mustIv(t, 0, 3600)}, Pref: domain.PreferenceNone}},
	}
	result, err := s.AddRules(specs)
	require.NoError(t, err)
	_, ok := result[domain.UserID(999)]
	assert.False(t, ok)
	assert.Len(t, result[userIDs[0]], 1)
}

func TestAddTasksAndSlotsIssueIds(t *testing.T) {
	s := newTestStore()
	taskIDs := s.AddTasks([]TaskSpec{{Title: "wash dishes"}, {Title: "train intern"}})
	assert.Len(t, taskIDs, 2)

	minStaff := 2
	slotIDs := s.AddSlots([]SlotSpec{{Interval: mustIv(t, 0, 3600), MinStaff: &minStaff, Name: "morning"}})
	assert.Len(t, slotIDs, 1)

	tasks := s.GetTasks(TaskFilter{})
	assert.Len(t, tasks, 2)

	slots := s.GetSlots(SlotFilter{})
	assert.Len(t, slots, 1)
}

func TestGetRulesReturnsNotFoundForMissingUser(t *testing.T) {
	s := newTestStore()
	_, err := s.GetRules(map[domain.UserID]RuleFilter{domain.UserID(42): {}})
	require.Error(t, err)
	assert.Equal(t, scheduler_errors.CodeNotFound, scheduler_errors.Code(err))
}

func TestGetRulesFiltersAndProjects(t *testing.T) {
	s := newTestStore()
	userIDs := s.AddUsers([]UserSpec{{Name: "bob"}})
	ruleResult, err := s.AddRules(map[domain.UserID][]RuleSpec{
		userIDs[0]: {{Include: []domain.TimeInterval{mustIv(t, 0, 3600)}, Pref: domain.PreferenceNone}},
	})
	require.NoError(t, err)

	got, err := s.GetRules(map[domain.UserID]RuleFilter{userIDs[0]: {}})
	require.NoError(t, err)
	assert.Len(t, got[userIDs[0]], 1)
	ruleID := ruleResult[userIDs[0]][0]
	assert.Equal(t, ruleID, got[userIDs[0]][ruleID].ID)
}

func TestMutSlotsAppliesDeltaAndReportsMissingIds(t *testing.T) {
	s := newTestStore()
	slotIDs := s.AddSlots([]SlotSpec{{Interval: mustIv(t, 0, 3600), Name: "morning"}})

	failed := s.MutSlots(map[domain.SlotID]SlotDelta{
		slotIDs[0]:        {Name: SetUpdate("evening")},
		domain.SlotID(999): {Name: SetUpdate("nope")},
	})
	assert.Equal(t, []domain.SlotID{domain.SlotID(999)}, failed)

	got := s.GetSlots(SlotFilter{})
	require.Len(t, got, 1)
	assert.Equal(t, "evening", got[0].Name)
}

func TestMutTasksAppliesDeltaAndReportsMissingIds(t *testing.T) {
	s := newTestStore()
	taskIDs := s.AddTasks([]TaskSpec{{Title: "wash dishes"}})

	failed := s.MutTasks(map[domain.TaskID]TaskDelta{
		taskIDs[0]:        {Title: SetUpdate("wash all dishes")},
		domain.TaskID(999): {Title: SetUpdate("nope")},
	})
	assert.Equal(t, []domain.TaskID{domain.TaskID(999)}, failed)

	got := s.GetTasks(TaskFilter{})
	assert.Equal(t, "wash all dishes", got[taskIDs[0]].Title)
}

func TestMutUsersReportsUnappliedRuleIdsPerUser(t *testing.T) {
	s := newTestStore()
	userIDs := s.AddUsers([]UserSpec{{Name: "bob"}})
	ruleResult, err := s.AddRules(map[domain.UserID][]RuleSpec{
		userIDs[0]: {{Include: []domain.TimeInterval{mustIv(t, 0, 3600)}, Pref: domain.PreferenceNone}},
	})
	require.NoError(t, err)
	realRuleID := ruleResult[userIDs[0]][0]

	failed := s.MutUsers(map[domain.UserID]UserDelta{
		userIDs[0]: {
			Name: SetUpdate("robert"),
			Availability: NoGrowSetDelta[domain.RuleID, RuleDelta]{
				Delete: map[domain.RuleID]struct{}{realRuleID: {}, domain.RuleID(12345): {}},
			},
		},
	})
	assert.Equal(t, []domain.RuleID{domain.RuleID(12345)}, failed[userIDs[0]])

	got := s.GetUsers(UserFilter{})
	assert.Equal(t, "robert", got[userIDs[0]].Name)
}

func TestPopUsersDropsOwnedRulesAndReportsMissing(t *testing.T) {
	s := newTestStore()
	userIDs := s.AddUsers([]UserSpec{{Name: "bob"}})

	missing := s.PopUsers(map[domain.UserID]struct{}{userIDs[0]: {}, domain.UserID(999): {}})
	assert.Equal(t, map[domain.UserID]struct{}{domain.UserID(999): {}}, missing)

	got := s.GetUsers(UserFilter{})
	assert.Empty(t, got)
}

func TestPopRulesOmitsUsersWithNoRemainingFailures(t *testing.T) {
	s := newTestStore()
	userIDs := s.AddUsers([]UserSpec{{Name: "bob"}})
	ruleResult, err := s.AddRules(map[domain.UserID][]RuleSpec{
		userIDs[0]: {{Include: []domain.TimeInterval{mustIv(t, 0, 3600)}, Pref: domain.PreferenceNone}},
	})
	require.NoError(t, err)
	ruleID := ruleResult[userIDs[0]][0]

	out := s.PopRules(map[domain.UserID]map[domain.RuleID]struct{}{
		userIDs[0]: {ruleID: {}},
	})
	assert.Empty(t, out)

	out2 := s.PopRules(map[domain.UserID]map[domain.RuleID]struct{}{
		userIDs[0]: {domain.RuleID(77): {}},
	})
	assert.Equal(t, map[domain.RuleID]struct{}{domain.RuleID(77): {}}, out2[userIDs[0]])
}

func TestPopTasksAndPopSlotsReportMissingIds(t *testing.T) {
	s := newTestStore()
	taskIDs := s.AddTasks([]TaskSpec{{Title: "wash dishes"}})
	missingTasks := s.PopTasks(map[domain.TaskID]struct{}{taskIDs[0]: {}, domain.TaskID(9999): {}})
	assert.Len(t, missingTasks, 1)

	slotIDs := s.AddSlots([]SlotSpec{{Interval: mustIv(t, 0, 3600), Name: "morning"}})
	missingSlots := s.PopSlots(map[domain.SlotID]struct{}{slotIDs[0]: {}, domain.SlotID(9999): {}})
	assert.Len(t, missingSlots, 1)
}

func mustIv(t *testing.T, startSec, endSec int64) domain.TimeInterval {
	t.Helper()
	iv, err := domain.NewTimeInterval(time.Unix(startSec, 0), time.Unix(endSec, 0))
	require.NoError(t, err)
	return iv
}
