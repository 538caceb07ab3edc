// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceSaturateClampsFinite(t *testing.T) {
	assert.Equal(t, PreferenceMax, Preference(5).Saturate())
	assert.Equal(t, PreferenceMin, Preference(-5).Saturate())
	assert.Equal(t, Preference(0.5), Preference(0.5).Saturate())
}

func TestPreferenceSaturateLeavesInfinitiesAlone(t *testing.T) {
	assert.Equal(t, PreferenceMust, PreferenceMust.Saturate())
	assert.Equal(t, PreferenceMustNot, PreferenceMustNot.Saturate())
}

func TestPreferenceCompareOrdersInfinities(t *testing.T) {
	assert.Equal(t, 1, PreferenceMust.Compare(PreferenceMax))
	assert.Equal(t, -1, PreferenceMustNot.Compare(PreferenceMin))
	assert.Equal(t, 0, PreferenceMust.Compare(PreferenceMust))
}

func TestPreferenceComparePanicsOnNaN(t *testing.T) {
	nan := Preference(math.NaN())
	assert.Panics(t, func() { nan.Compare(PreferenceNone) })
}

func TestPreferenceIsNaN(t *testing.T) {
	assert.True(t, Preference(math.NaN()).IsNaN())
	assert.False(t, PreferenceMust.IsNaN())
}

func TestPreferenceAbsForTieBreak(t *testing.T) {
	assert.Equal(t, Preference(0.7), Preference(-0.7).Abs())
}

func TestPreferenceJSONRoundTripsInfinities(t *testing.T) {
	for _, p := range []Preference{PreferenceMust, PreferenceMustNot, Preference(0.25), PreferenceNone} {
		data, err := json.Marshal(p)
		require.NoError(t, err)
		var got Preference
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, p, got)
	}
}

func TestPreferenceJSONEncodesSentinelsAsStrings(t *testing.T) {
	data, err := json.Marshal(PreferenceMust)
	require.NoError(t, err)
	assert.JSONEq(t, `"must"`, string(data))
}

func TestPreferenceUnmarshalRejectsUnknownToken(t *testing.T) {
	var p Preference
	err := json.Unmarshal([]byte(`"sometimes"`), &p)
	assert.Error(t, err)
}
