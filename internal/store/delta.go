// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

// Update is an optional replacement value for a scalar field: a missing
// Update leaves the target field untouched (spec.md §4.3's per-field
// "replace value" delta).
type Update[T any] struct {
	Set   bool
	Value T
}

// SetUpdate builds an Update that replaces the target with value.
func SetUpdate[T any](value T) Update[T] {
	return Update[T]{Set: true, Value: value}
}

// Apply replaces *target with the Update's value if Set.
func (u Update[T]) Apply(target *T) {
	if u.Set {
		*target = u.Value
	}
}

// KeySetDelta changes a set: existing keys may be removed, new keys added.
// Used for Task.Deps, which has no associated value per key.
type KeySetDelta[K comparable] struct {
	Delete map[K]struct{}
	Create []K
}

// Apply mutates target in place, deleting before creating (spec.md §4.3's
// delete→update→create order collapses to delete→create here since there
// is no update phase for a value-less set).
func (d KeySetDelta[K]) Apply(target map[K]struct{}) {
	for k := range d.Delete {
		delete(target, k)
	}
	for _, k := range d.Create {
		target[k] = struct{}{}
	}
}

// NoGrowSetDelta changes a map without creating new entries: existing
// entries may be removed or patched. P is the patch payload, distinct from
// the map's entity type — used for User.Availability, where Update carries
// a RuleDelta rather than a replacement Rule. New Rules are created only
// via add_rules, never via mut_users (spec.md §9: a mut_* call that both
// created and referenced a new id could never report that id back to the
// caller).
type NoGrowSetDelta[K comparable, P any] struct {
	Delete map[K]struct{}
	Update map[K]P
}

// ApplyNoGrowSetDelta mutates target in place via patch, called for every
// key present in both target and d.Update. Returns the subset of Delete
// and Update keys that referenced an entry absent from target — the
// "remaining, non-applied" ids spec.md §9 requires mut_users to report.
//
// A free function rather than a method: Go methods cannot introduce a type
// parameter (E, the entity type) beyond the receiver's own.
func ApplyNoGrowSetDelta[K comparable, E any, P any](d NoGrowSetDelta[K, P], target map[K]E, patch func(E, P) E) []K {
	var unresolved []K
	for k := range d.Delete {
		if _, ok := target[k]; ok {
			delete(target, k)
		} else {
			unresolved = append(unresolved, k)
		}
	}
	for k, p := range d.Update {
		if e, ok := target[k]; ok {
			target[k] = patch(e, p)
		} else {
			unresolved = append(unresolved, k)
		}
	}
	return unresolved
}

// SetDelta changes a map: entries may be removed, replaced, or created.
// Used for Task.Skills, User.UserPrefs, and User.Skills, whose keys
// (SkillID, UserID) are caller-supplied rather than auto-generated.
type SetDelta[K comparable, V any] struct {
	Delete map[K]struct{}
	Create map[K]V
	Update map[K]V
}

// Apply mutates target in place, in delete→update→create order so a key
// cannot be both deleted and updated in one call (update becomes a no-op
// for a deleted key, matching spec.md §4.3).
func (d SetDelta[K, V]) Apply(target map[K]V) {
	for k := range d.Delete {
		delete(target, k)
	}
	for k, v := range d.Update {
		if _, ok := target[k]; ok {
			target[k] = v
		}
	}
	for k, v := range d.Create {
		target[k] = v
	}
}

// IndexedSetDelta changes a slice addressed by position: positions may be
// removed, replaced, or new values appended. Used for Rule.Include, whose
// elements carry no identity of their own.
type IndexedSetDelta[V any] struct {
	Delete map[int]struct{}
	Update map[int]V
	Create []V
}

// Apply returns a new slice reflecting the delta: the surviving elements
// of target (in original order, with Update entries replaced), followed
// by Create, matching spec.md §4.3's delete→update→create order.
func (d IndexedSetDelta[V]) Apply(target []V) []V {
	out := make([]V, 0, len(target)+len(d.Create))
	for i, v := range target {
		if _, deleted := d.Delete[i]; deleted {
			continue
		}
		if replacement, ok := d.Update[i]; ok {
			v = replacement
		}
		out = append(out, v)
	}
	return append(out, d.Create...)
}
