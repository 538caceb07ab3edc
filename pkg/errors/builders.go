// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
)

// NewValidationError creates a validation error with a formatted message,
// used at construction time by internal/domain (spec.md §7).
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		SchedulerError: New(CodeValidation, fmt.Sprintf(format, args...)),
		Field:          field,
	}
}

// NewNonExistentTaskError creates the fatal error the Dependency Engine
// raises when a deps entry refers to a TaskId with no corresponding Task.
func NewNonExistentTaskError(id fmt.Stringer) *SchedulerError {
	return New(CodeNonExistentTask, fmt.Sprintf("task %s does not exist", id))
}

// NewWouldCycleError creates the fatal error the Dependency Engine raises
// when the dependency graph contains a cycle.
func NewWouldCycleError() *SchedulerError {
	return New(CodeWouldCycle, "task dependencies contain a cycle")
}

// NewUnderstaffedError creates the error the Scheduling Engine raises when
// a slot's legal candidate count is below its min_staff.
func NewUnderstaffedError(slotID fmt.Stringer, have, want int) *SchedulerError {
	err := New(CodeUnderstaffed, fmt.Sprintf("slot %s needs %d staff, has %d legal candidates", slotID, want, have))
	err.Details = fmt.Sprintf("have=%d want=%d", have, want)
	return err
}

// NewIllegalError creates the error the Scheduling Engine raises when no
// assignment exists that avoids breaking some ±∞ preference.
func NewIllegalError(reason string) *SchedulerError {
	return New(CodeIllegal, reason)
}

// NewNotFoundError creates the error get_rules raises when referencing a
// non-existent owning User.
func NewNotFoundError(kind string, id fmt.Stringer) *SchedulerError {
	return New(CodeNotFound, fmt.Sprintf("%s %s not found", kind, id))
}

// NewMalformedFilterError creates the error a Pattern's Regex variant
// raises when it fails to compile.
func NewMalformedFilterError(cause error) *SchedulerError {
	return NewWithCause(CodeMalformedFilter, "invalid filter pattern", cause)
}

// NewIOError wraps a save_*/load_* failure.
func NewIOError(op, path string, cause error) *SchedulerError {
	err := NewWithCause(CodeIO, fmt.Sprintf("%s failed for %s", op, path), cause)
	err.Details = cause.Error()
	return err
}

// Code extracts the ErrorCode from any error, CodeUnknown if it isn't a
// SchedulerError.
func Code(err error) ErrorCode {
	var schedErr *SchedulerError
	if stderrors.As(err, &schedErr) {
		return schedErr.Code
	}
	return CodeUnknown
}

// HTTPStatus extracts the RPC fault status from any error, 500 as a
// catch-all for errors outside this taxonomy.
func HTTPStatus(err error) int {
	var schedErr *SchedulerError
	if stderrors.As(err, &schedErr) {
		return schedErr.HTTPStatus()
	}
	return 500
}
