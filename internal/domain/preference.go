// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Preference expresses desire or refusal towards a time or a co-worker.
// Finite values lie in [-1, 1] and are soft; the infinities are hard
// constraints. NaN is never a valid Preference — constructors reject it
// rather than letting it enter the Store (spec.md's validation-error
// taxonomy, see pkg/errors).
type Preference float64

const (
	// PreferenceMust is the mandatory sentinel: always schedule.
	PreferenceMust Preference = Preference(math.Inf(1))
	// PreferenceMustNot is the forbidden sentinel: never schedule.
	PreferenceMustNot Preference = Preference(math.Inf(-1))
	// PreferenceMin is the maximum finite refusal.
	PreferenceMin Preference = -1
	// PreferenceMax is the maximum finite desire.
	PreferenceMax Preference = 1
	// PreferenceNone is "no preference", equivalent to the rule being absent.
	PreferenceNone Preference = 0
)

// IsNaN reports whether p is not a number, which is always an invariant
// violation for a Preference value.
func (p Preference) IsNaN() bool { return math.IsNaN(float64(p)) }

// IsMust reports whether p is the mandatory (+inf) sentinel.
func (p Preference) IsMust() bool { return math.IsInf(float64(p), 1) }

// IsMustNot reports whether p is the forbidden (-inf) sentinel.
func (p Preference) IsMustNot() bool { return math.IsInf(float64(p), -1) }

// Saturate clamps finite values into [-1, 1] and leaves the infinities
// untouched.
func (p Preference) Saturate() Preference {
	if math.IsInf(float64(p), 0) {
		return p
	}
	v := float64(p)
	if v < float64(PreferenceMin) {
		v = float64(PreferenceMin)
	}
	if v > float64(PreferenceMax) {
		v = float64(PreferenceMax)
	}
	return Preference(v)
}

// Compare orders p relative to other: -1, 0, or 1. Panics if either value
// is NaN, since NaN must never reach a Preference in well-formed domain
// state.
func (p Preference) Compare(other Preference) int {
	if p.IsNaN() || other.IsNaN() {
		panic("domain: Preference.Compare on NaN")
	}
	switch {
	case p < other:
		return -1
	case p > other:
		return 1
	default:
		return 0
	}
}

// Abs returns the magnitude of a finite preference, used to tie-break
// "maximize fulfilment of finite preferences" by descending |preference|
// (spec.md §4.5 criterion 5).
func (p Preference) Abs() Preference {
	return Preference(math.Abs(float64(p)))
}

// preferenceMustToken and preferenceMustNotToken are the wire spellings
// of the ±∞ sentinels — encoding/json cannot represent a float Infinity,
// so save_users/load_users round-trip them as strings instead.
const (
	preferenceMustToken    = "must"
	preferenceMustNotToken = "must_not"
)

// MarshalJSON encodes the ±∞ sentinels as the strings "must"/"must_not"
// and every other value as a JSON number.
func (p Preference) MarshalJSON() ([]byte, error) {
	switch {
	case p.IsMust():
		return json.Marshal(preferenceMustToken)
	case p.IsMustNot():
		return json.Marshal(preferenceMustNotToken)
	default:
		return json.Marshal(float64(p))
	}
}

// UnmarshalJSON decodes either a "must"/"must_not" sentinel string or a
// JSON number.
func (p *Preference) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		switch token {
		case preferenceMustToken:
			*p = PreferenceMust
			return nil
		case preferenceMustNotToken:
			*p = PreferenceMustNot
			return nil
		default:
			return fmt.Errorf("domain: unrecognized preference token %q", token)
		}
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Preference(v)
	return nil
}

func (p Preference) String() string {
	switch {
	case p.IsMust():
		return "+inf"
	case p.IsMustNot():
		return "-inf"
	case p.IsNaN():
		return "NaN"
	default:
		return fmt.Sprintf("%g%%", float64(p)*100)
	}
}
