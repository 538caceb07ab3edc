// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftforge/scheduler/internal/domain"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

func task(id domain.TaskID, deps ...domain.TaskID) domain.Task {
	depSet := make(map[domain.TaskID]struct{}, len(deps))
	for _, d := range deps {
		depSet[d] = struct{}{}
	}
	return domain.Task{ID: id, Title: id.String(), Deps: depSet}
}

func TestBuildReturnsNonExistentTaskForDanglingDep(t *testing.T) {
	tasks := map[domain.TaskID]domain.Task{
		1: task(1, 99),
	}
	_, err := Build(tasks)
	require.Error(t, err)
	assert.Equal(t, scheduler_errors.CodeNonExistentTask, scheduler_errors.Code(err))
}

func TestTopologicalOrderRespectsEdges(t *testing.T) {
	// 1 -> 2 -> 3, with 2 also depending on nothing else.
	tasks := map[domain.TaskID]domain.Task{
		1: task(1),
		2: task(2, 1),
		3: task(3, 2),
	}
	g, err := Build(tasks)
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{1, 2, 3}, order)
}

func TestTopologicalOrderIsStableGivenNoUnresolvedPredecessors(t *testing.T) {
	// 5436, 2537, 3423 with 2537 and 3423 both awaiting 5436 — mirrors
	// the original's own scheduler_tests::test0 fixture.
	tasks := map[domain.TaskID]domain.Task{
		5436: task(5436),
		2537: task(2537, 5436),
		3423: task(3423, 5436),
	}
	g, err := Build(tasks)
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{5436, 2537, 3423}, order)
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	tasks := map[domain.TaskID]domain.Task{
		1: task(1, 2),
		2: task(2, 1),
	}
	g, err := Build(tasks)
	require.NoError(t, err)

	_, err = g.TopologicalOrder()
	require.Error(t, err)
	assert.Equal(t, scheduler_errors.CodeWouldCycle, scheduler_errors.Code(err))
}

func TestTopologicalOrderDetectsSelfCycle(t *testing.T) {
	tasks := map[domain.TaskID]domain.Task{
		1: task(1, 1),
	}
	g, err := Build(tasks)
	require.NoError(t, err)

	_, err = g.TopologicalOrder()
	require.Error(t, err)
	assert.Equal(t, scheduler_errors.CodeWouldCycle, scheduler_errors.Code(err))
}

func TestAdjacentReflectsDependents(t *testing.T) {
	tasks := map[domain.TaskID]domain.Task{
		1: task(1),
		2: task(2, 1),
		3: task(3, 1),
	}
	g, err := Build(tasks)
	require.NoError(t, err)

	adj, ok := g.Adjacent(1)
	require.True(t, ok)
	assert.Equal(t, []domain.TaskID{2, 3}, adj)

	_, ok = g.Adjacent(999)
	assert.False(t, ok)
}

func TestVertsReturnsEveryTaskAscending(t *testing.T) {
	tasks := map[domain.TaskID]domain.Task{
		3: task(3),
		1: task(1),
		2: task(2),
	}
	g, err := Build(tasks)
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{1, 2, 3}, g.Verts())
}

func TestTopologicalOrderOfDisconnectedTasksIsAscendingByID(t *testing.T) {
	tasks := map[domain.TaskID]domain.Task{
		30: task(30),
		10: task(10),
		20: task(20),
	}
	g, err := Build(tasks)
	require.NoError(t, err)

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []domain.TaskID{10, 20, 30}, order)
}
