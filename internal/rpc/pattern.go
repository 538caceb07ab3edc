// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"fmt"

	"github.com/shiftforge/scheduler/internal/store"
	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

// PatternWire is the JSON wire form of the five-variant store.Pattern
// tagged sum (spec.md §6): exactly one field must be set. store.Pattern
// itself carries an unexported regexp.Regexp and is never decoded
// directly from a request body.
type PatternWire struct {
	StartsWith *string `json:"starts_with,omitempty"`
	EndsWith   *string `json:"ends_with,omitempty"`
	Contains   *string `json:"contains,omitempty"`
	Exactly    *string `json:"exactly,omitempty"`
	Regex      *string `json:"regex,omitempty"`
}

// ToPattern converts the wire form into a store.Pattern. A Regex variant
// whose compilation fails surfaces the store's CodeMalformedFilter error
// unchanged, which the dispatch layer maps to a 422 (spec.md §6/§7).
func (w PatternWire) ToPattern() (store.Pattern, error) {
	set := 0
	var result store.Pattern
	var err error

	if w.StartsWith != nil {
		set++
		result = store.NewStartsWithPattern(*w.StartsWith)
	}
	if w.EndsWith != nil {
		set++
		result = store.NewEndsWithPattern(*w.EndsWith)
	}
	if w.Contains != nil {
		set++
		result = store.NewContainsPattern(*w.Contains)
	}
	if w.Exactly != nil {
		set++
		result = store.NewExactlyPattern(*w.Exactly)
	}
	if w.Regex != nil {
		set++
		result, err = store.NewRegexPattern(*w.Regex)
		if err != nil {
			return store.Pattern{}, err
		}
	}

	if set != 1 {
		return store.Pattern{}, scheduler_errors.NewMalformedFilterError(fmt.Errorf("pattern must set exactly one variant, got %d", set))
	}
	return result, nil
}
