// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"regexp"
	"strings"

	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

// PatternKind discriminates the variants of Pattern.
type PatternKind int

const (
	PatternStartsWith PatternKind = iota
	PatternEndsWith
	PatternContains
	PatternExactly
	PatternRegex
)

// Pattern is a tagged-union string filter with five variants. An empty
// literal always matches (the empty string is a substring of every
// string); use a Regex of "^$" to match an empty string exactly.
type Pattern struct {
	kind    PatternKind
	literal string
	re      *regexp.Regexp
}

// NewStartsWithPattern matches strings with the given prefix.
func NewStartsWithPattern(s string) Pattern { return Pattern{kind: PatternStartsWith, literal: s} }

// NewEndsWithPattern matches strings with the given suffix.
func NewEndsWithPattern(s string) Pattern { return Pattern{kind: PatternEndsWith, literal: s} }

// NewContainsPattern matches strings containing the given substring.
func NewContainsPattern(s string) Pattern { return Pattern{kind: PatternContains, literal: s} }

// NewExactlyPattern matches strings exactly equal to s.
func NewExactlyPattern(s string) Pattern { return Pattern{kind: PatternExactly, literal: s} }

// NewRegexPattern compiles s as a regular expression. A compile failure is
// surfaced as a 422-class RPC fault (spec.md §6/§7), never as a panic.
func NewRegexPattern(s string) (Pattern, error) {
	re, err := regexp.Compile(s)
	if err != nil {
		return Pattern{}, scheduler_errors.NewMalformedFilterError(err)
	}
	return Pattern{kind: PatternRegex, re: re}, nil
}

// IsMatch reports whether haystack matches the pattern.
func (p Pattern) IsMatch(haystack string) bool {
	switch p.kind {
	case PatternStartsWith:
		return strings.HasPrefix(haystack, p.literal)
	case PatternEndsWith:
		return strings.HasSuffix(haystack, p.literal)
	case PatternContains:
		return strings.Contains(haystack, p.literal)
	case PatternExactly:
		return p.literal == "" || haystack == p.literal
	case PatternRegex:
		return p.re.MatchString(haystack)
	default:
		return false
	}
}
