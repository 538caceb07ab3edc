// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dt(mo, d, yr, hr, min int) time.Time {
	return time.Date(yr, time.Month(mo), d, hr, min, 0, 0, time.UTC)
}

func TestNewRepetitionRejectsNonTerminating(t *testing.T) {
	_, err := NewRepetition(Frequency{}, dt(1, 1, 2025, 0, 0), nil)
	require.ErrorIs(t, err, ErrNonTerminatingRepetition)
}

func TestRuleContainsNonRepeating(t *testing.T) {
	iv := mustInterval(t, dt(4, 5, 2025, 6, 30), dt(4, 5, 2025, 7, 30))
	rule, err := NewRule([]TimeInterval{iv}, nil, PreferenceMax)
	require.NoError(t, err)

	query := mustInterval(t, dt(4, 5, 2025, 6, 45), dt(4, 5, 2025, 7, 0))
	assert.True(t, rule.Contains(query))

	miss := mustInterval(t, dt(4, 5, 2025, 7, 45), dt(4, 5, 2025, 8, 0))
	assert.False(t, rule.Contains(miss))
}

func TestRuleContainsRepeatingWeekly(t *testing.T) {
	// "Available every Monday 15:00-19:00" starting 2025-01-06 (a Monday).
	base := mustInterval(t, dt(1, 6, 2025, 15, 0), dt(1, 6, 2025, 19, 0))
	rep, err := NewRepetition(Frequency{Weeks: 1}, dt(1, 6, 2025, 15, 0), nil)
	require.NoError(t, err)
	rule, err := NewRule([]TimeInterval{base}, &rep, PreferenceMax)
	require.NoError(t, err)

	// Three weeks later, same window.
	query := mustInterval(t, dt(1, 27, 2025, 16, 0), dt(1, 27, 2025, 18, 0))
	assert.True(t, rule.Contains(query))

	// Same day, outside the window.
	miss := mustInterval(t, dt(1, 27, 2025, 20, 0), dt(1, 27, 2025, 21, 0))
	assert.False(t, rule.Contains(miss))

	// A Tuesday: no occurrence covers it.
	tuesday := mustInterval(t, dt(1, 28, 2025, 16, 0), dt(1, 28, 2025, 17, 0))
	assert.False(t, rule.Contains(tuesday))
}

func TestRuleContainsRespectsUntil(t *testing.T) {
	base := mustInterval(t, dt(1, 6, 2025, 15, 0), dt(1, 6, 2025, 19, 0))
	until := dt(1, 20, 2025, 0, 0)
	rep, err := NewRepetition(Frequency{Weeks: 1}, dt(1, 6, 2025, 15, 0), &until)
	require.NoError(t, err)
	rule, err := NewRule([]TimeInterval{base}, &rep, PreferenceMax)
	require.NoError(t, err)

	afterUntil := mustInterval(t, dt(1, 27, 2025, 16, 0), dt(1, 27, 2025, 18, 0))
	assert.False(t, rule.Contains(afterUntil))
}

func TestRuleContainsMonotoneInQuery(t *testing.T) {
	base := mustInterval(t, dt(4, 5, 2025, 6, 0), dt(4, 5, 2025, 10, 0))
	rule, err := NewRule([]TimeInterval{base}, nil, PreferenceMax)
	require.NoError(t, err)

	wide := mustInterval(t, dt(4, 5, 2025, 7, 0), dt(4, 5, 2025, 9, 0))
	narrow := mustInterval(t, dt(4, 5, 2025, 7, 30), dt(4, 5, 2025, 8, 30))

	require.True(t, rule.Contains(wide))
	assert.True(t, rule.Contains(narrow), "Contains must be monotone: a sub-interval of a contained interval is also contained")
}

func TestNewRuleRejectsEmptyInclude(t *testing.T) {
	_, err := NewRule(nil, nil, PreferenceNone)
	require.ErrorIs(t, err, ErrEmptyInclude)
}
