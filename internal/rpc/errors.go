// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package rpc

import (
	"encoding/json"
	"net/http"

	scheduler_errors "github.com/shiftforge/scheduler/pkg/errors"
)

// faultBody is the JSON body written for any non-2xx RPC response
// (spec.md §6 "Faults").
type faultBody struct {
	RequestID string                    `json:"request_id"`
	Code      scheduler_errors.ErrorCode `json:"code"`
	Message   string                    `json:"message"`
	Details   string                    `json:"details,omitempty"`
}

// writeFault writes err as a structured RPC fault, deriving its HTTP
// status from pkg/errors.HTTPStatus (404/422/500 per spec.md §6). An
// error outside the SchedulerError taxonomy is treated as an opaque
// 500 — the RPC surface never leaks a bare Go error string for those.
func writeFault(w http.ResponseWriter, requestID string, err error) {
	schedErr, ok := err.(*scheduler_errors.SchedulerError)
	if ve, isValidation := err.(*scheduler_errors.ValidationError); isValidation {
		schedErr, ok = ve.SchedulerError, true
	}
	if !ok {
		schedErr = scheduler_errors.NewWithCause(scheduler_errors.CodeUnknown, "internal error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(schedErr.HTTPStatus())
	json.NewEncoder(w).Encode(faultBody{
		RequestID: requestID,
		Code:      schedErr.Code,
		Message:   schedErr.Message,
		Details:   schedErr.Details,
	})
}

// writeResult writes v as the 200 JSON body of a successful RPC call.
func writeResult(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

// codeOf extracts a SchedulerError's code as a plain string, for
// pkg/metrics.SetCodeExtractor — kept here rather than in pkg/metrics to
// avoid that package importing pkg/errors.
func codeOf(err error) string {
	if schedErr, ok := err.(*scheduler_errors.SchedulerError); ok {
		return string(schedErr.Code)
	}
	if ve, ok := err.(*scheduler_errors.ValidationError); ok {
		return string(ve.Code)
	}
	return ""
}
