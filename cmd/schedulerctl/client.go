// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shiftforge/scheduler/pkg/retry"
)

// rpcClient calls schedulerd's RPC surface over HTTP, retrying transient
// failures per the method's retry policy (policyFor).
type rpcClient struct {
	baseURL    string
	httpClient *http.Client
}

func newRPCClient(baseURL string) *rpcClient {
	return &rpcClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// policyFor picks a retry.Policy appropriate to method's idempotence
// (spec.md §7): add_X issues a new id on every successful call, so a
// retry after a dropped response would duplicate the entity — it gets
// no retries at all. get_X is a pure read and can afford the full
// exponential backoff. Everything else (mut_X, pop_X, schedule, quit)
// already recovers per id or is safe to repeat, so it gets a short
// fixed-delay retry.
func policyFor(method string) retry.Policy {
	switch {
	case strings.HasPrefix(method, "add_"):
		return retry.NewNoRetry()
	case strings.HasPrefix(method, "get_"):
		return retry.NewHTTPExponentialBackoff().WithMaxRetries(3)
	default:
		return retry.NewFixedDelay(2, 500*time.Millisecond)
	}
}

// rpcFault mirrors internal/rpc's faultBody for a non-2xx response.
type rpcFault struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}

func (f *rpcFault) Error() string {
	if f.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", f.Code, f.Message, f.Details)
	}
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// call invokes method with payload (may be nil) and decodes the 200
// response body into out (may be nil, to discard the body).
func (c *rpcClient) call(ctx context.Context, method string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return err
		}
	}

	policy := policyFor(method)
	for attempt := 0; ; attempt++ {
		resp, err := c.do(ctx, method, body)
		if err == nil {
			defer resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				if out == nil {
					return nil
				}
				return json.NewDecoder(resp.Body).Decode(out)
			}
			var fault rpcFault
			if decodeErr := json.NewDecoder(resp.Body).Decode(&fault); decodeErr == nil {
				err = &fault
			} else {
				err = fmt.Errorf("unexpected status %d", resp.StatusCode)
			}
			resp.Body.Close()
			if !policy.ShouldRetry(ctx, resp, err, attempt) {
				return err
			}
		} else if !policy.ShouldRetry(ctx, nil, err, attempt) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.WaitTime(attempt)):
		}
	}
}

func (c *rpcClient) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	url := c.baseURL + "/rpc/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

// healthz reports the raw body of GET /healthz: a JSON object whose
// "status" field is "ok" or "draining".
func (c *rpcClient) healthz(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return string(body), err
}
