// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package depgraph builds the task dependency DAG (spec.md §4.4): one
// node per task, one edge per declared predecessor, exposing a stable
// topological order and fatal errors for dangling references and
// cycles. It holds only TaskIDs, never Task payloads.
package depgraph

import (
	"sort"

	"github.com/shiftforge/scheduler/internal/domain"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

type span struct {
	start, end int
}

// Graph is an arena-indexed directed graph over TaskIDs: vertices map to
// a range within a single flattened adjacency slice, so construction
// allocates exactly one slice for all edges regardless of vertex count.
type Graph struct {
	verts map[domain.TaskID]span
	adj   []domain.TaskID
}

// Build constructs the dependency graph from tasks, adding an edge from
// every id in a task's Deps to that task (i.e. dep -> dependent,
// "forward" in the Rust original's sense: Deps are predecessors, so each
// dependency's adjacency list gains the task awaiting it). Returns
// NonExistentTask if a Deps entry names a TaskID absent from tasks.
func Build(tasks map[domain.TaskID]domain.Task) (*Graph, error) {
	forward := make(map[domain.TaskID][]domain.TaskID, len(tasks))
	for id := range tasks {
		forward[id] = nil
	}
	for id, t := range tasks {
		for dep := range t.Deps {
			if _, ok := tasks[dep]; !ok {
				return nil, scheduler_errors.NewNonExistentTaskError(dep)
			}
			forward[dep] = append(forward[dep], id)
		}
	}

	ids := make([]domain.TaskID, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	adj := make([]domain.TaskID, 0, len(ids))
	verts := make(map[domain.TaskID]span, len(ids))
	for _, id := range ids {
		deps := forward[id]
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		start := len(adj)
		adj = append(adj, deps...)
		verts[id] = span{start: start, end: len(adj)}
	}
	return &Graph{verts: verts, adj: adj}, nil
}

// Adjacent returns the TaskIDs that depend directly on vert (the tasks
// "awaiting" it), and whether vert is in the graph at all.
func (g *Graph) Adjacent(vert domain.TaskID) ([]domain.TaskID, bool) {
	sp, ok := g.verts[vert]
	if !ok {
		return nil, false
	}
	return g.adj[sp.start:sp.end], true
}

// Verts returns every TaskID in the graph, in ascending order.
func (g *Graph) Verts() []domain.TaskID {
	out := make([]domain.TaskID, 0, len(g.verts))
	for id := range g.verts {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TopologicalOrder returns tasks such that for every edge u -> v, u
// appears before v, using Kahn's algorithm with an ascending-TaskID
// tie-break among nodes with no unresolved predecessors — stable within
// a single process run given identical input (spec.md §4.4). Returns
// WouldCycle if the graph contains one.
func (g *Graph) TopologicalOrder() ([]domain.TaskID, error) {
	indegree := make(map[domain.TaskID]int, len(g.verts))
	for id := range g.verts {
		indegree[id] = 0
	}
	for id := range g.verts {
		adj, _ := g.Adjacent(id)
		for _, v := range adj {
			indegree[v]++
		}
	}

	ready := make([]domain.TaskID, 0, len(indegree))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]domain.TaskID, 0, len(g.verts))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)

		adj, _ := g.Adjacent(next)
		var newlyReady []domain.TaskID
		for _, v := range adj {
			indegree[v]--
			if indegree[v] == 0 {
				newlyReady = append(newlyReady, v)
			}
		}
		sort.Slice(newlyReady, func(i, j int) bool { return newlyReady[i] < newlyReady[j] })

		ready = append(ready, newlyReady...)
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
	}

	if len(order) != len(g.verts) {
		return nil, scheduler_errors.NewWouldCycleError()
	}
	return order, nil
}
