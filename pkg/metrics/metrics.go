// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics provides metrics collection for the RPC surface.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Collector is the interface for RPC metrics collection.
type Collector interface {
	// RecordCall records a dispatched RPC method call and its outcome.
	RecordCall(method string, duration time.Duration, err error)

	// GetStats returns current metrics statistics.
	GetStats() *Stats

	// Reset resets all metrics.
	Reset()

	// Render writes the current stats as plain text, the shape GET
	// /metrics serves (no Prometheus client dependency was in the
	// teacher's own pkg/metrics, so none is introduced here).
	Render() string
}

// Stats contains aggregated metrics statistics.
type Stats struct {
	TotalCalls     int64
	CallsByMethod  map[string]int64
	FailuresByCode map[string]int64
	LatencyByMethod map[string]DurationStats

	StartTime time.Time
	Duration  time.Duration
}

// DurationStats contains statistics for duration measurements.
type DurationStats struct {
	Count   int64
	Total   time.Duration
	Min     time.Duration
	Max     time.Duration
	Average time.Duration
}

// codeOf extracts an error's taxonomy code for FailuresByCode, falling
// back to a generic bucket for errors outside the taxonomy.
var codeOf func(error) string

// SetCodeExtractor installs the function used to classify an error into
// a FailuresByCode bucket. internal/rpc wires this to
// pkg/errors.Code to avoid an import cycle between pkg/metrics and
// pkg/errors.
func SetCodeExtractor(f func(error) string) {
	codeOf = f
}

func classify(err error) string {
	if err == nil {
		return ""
	}
	if codeOf != nil {
		if code := codeOf(err); code != "" {
			return code
		}
	}
	return "UNKNOWN"
}

// InMemoryCollector is an in-memory implementation of Collector.
type InMemoryCollector struct {
	mu sync.RWMutex

	totalCalls     int64
	callsByMethod  map[string]*int64
	failuresByCode map[string]*int64
	latencyByMethod map[string]*durationAggregator

	startTime time.Time
}

// NewInMemoryCollector creates a new in-memory metrics collector.
func NewInMemoryCollector() *InMemoryCollector {
	return &InMemoryCollector{
		callsByMethod:   make(map[string]*int64),
		failuresByCode:  make(map[string]*int64),
		latencyByMethod: make(map[string]*durationAggregator),
		startTime:       time.Now(),
	}
}

// RecordCall records one dispatch of method, its duration, and its
// error (nil on success).
func (c *InMemoryCollector) RecordCall(method string, duration time.Duration, err error) {
	atomic.AddInt64(&c.totalCalls, 1)
	incrementMapCounter(&c.mu, c.callsByMethod, method)

	c.mu.Lock()
	agg, exists := c.latencyByMethod[method]
	if !exists {
		agg = newDurationAggregator()
		c.latencyByMethod[method] = agg
	}
	c.mu.Unlock()
	agg.add(duration)

	if err != nil {
		incrementMapCounter(&c.mu, c.failuresByCode, classify(err))
	}
}

// GetStats returns current metrics statistics.
func (c *InMemoryCollector) GetStats() *Stats {
	return &Stats{
		TotalCalls:      atomic.LoadInt64(&c.totalCalls),
		CallsByMethod:   c.copyMapCounters(c.callsByMethod),
		FailuresByCode:  c.copyMapCounters(c.failuresByCode),
		LatencyByMethod: c.copyDurationStats(c.latencyByMethod),
		StartTime:       c.startTime,
		Duration:        time.Since(c.startTime),
	}
}

// Reset resets all metrics.
func (c *InMemoryCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	atomic.StoreInt64(&c.totalCalls, 0)
	c.callsByMethod = make(map[string]*int64)
	c.failuresByCode = make(map[string]*int64)
	c.latencyByMethod = make(map[string]*durationAggregator)
	c.startTime = time.Now()
}

// Render writes stats as plain text, one "key value" pair per line.
func (c *InMemoryCollector) Render() string {
	stats := c.GetStats()
	var b strings.Builder

	fmt.Fprintf(&b, "scheduler_rpc_calls_total %d\n", stats.TotalCalls)
	fmt.Fprintf(&b, "scheduler_uptime_seconds %.0f\n", stats.Duration.Seconds())

	for _, method := range sortedKeys(stats.CallsByMethod) {
		fmt.Fprintf(&b, "scheduler_rpc_calls_total{method=%q} %d\n", method, stats.CallsByMethod[method])
	}
	for _, code := range sortedKeys(stats.FailuresByCode) {
		fmt.Fprintf(&b, "scheduler_rpc_failures_total{code=%q} %d\n", code, stats.FailuresByCode[code])
	}
	for _, method := range sortedDurationKeys(stats.LatencyByMethod) {
		d := stats.LatencyByMethod[method]
		fmt.Fprintf(&b, "scheduler_rpc_latency_avg_ms{method=%q} %.3f\n", method, float64(d.Average.Microseconds())/1000.0)
	}

	return b.String()
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedDurationKeys(m map[string]DurationStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// incrementMapCounter safely increments a counter in a map.
func incrementMapCounter(mu *sync.RWMutex, m map[string]*int64, key string) {
	mu.Lock()
	counter, exists := m[key]
	if !exists {
		var v int64
		counter = &v
		m[key] = counter
	}
	mu.Unlock()

	atomic.AddInt64(counter, 1)
}

// copyMapCounters creates a copy of string map counters.
func (c *InMemoryCollector) copyMapCounters(m map[string]*int64) map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]int64, len(m))
	for k, v := range m {
		result[k] = atomic.LoadInt64(v)
	}
	return result
}

// copyDurationStats creates a copy of duration statistics.
func (c *InMemoryCollector) copyDurationStats(m map[string]*durationAggregator) map[string]DurationStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]DurationStats, len(m))
	for k, v := range m {
		result[k] = v.stats()
	}
	return result
}

// durationAggregator aggregates duration statistics.
type durationAggregator struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

func newDurationAggregator() *durationAggregator {
	return &durationAggregator{
		min: time.Duration(1<<63 - 1),
	}
}

func (d *durationAggregator) add(duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.count++
	d.total += duration

	if duration < d.min {
		d.min = duration
	}
	if duration > d.max {
		d.max = duration
	}
}

func (d *durationAggregator) stats() DurationStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := DurationStats{
		Count: d.count,
		Total: d.total,
		Min:   d.min,
		Max:   d.max,
	}

	if d.count > 0 {
		stats.Average = time.Duration(int64(d.total) / d.count)
	} else {
		stats.Min = 0
	}

	return stats
}

// NoOpCollector is a no-op implementation of Collector.
type NoOpCollector struct{}

func (NoOpCollector) RecordCall(method string, duration time.Duration, err error) {}
func (NoOpCollector) GetStats() *Stats                                           { return &Stats{} }
func (NoOpCollector) Reset()                                                     {}
func (NoOpCollector) Render() string                                            { return "" }

// defaultCollector is the process-wide collector used by callers that
// don't construct their own.
var defaultCollector Collector = &NoOpCollector{}

// SetDefaultCollector sets the default metrics collector.
func SetDefaultCollector(collector Collector) {
	if collector == nil {
		collector = &NoOpCollector{}
	}
	defaultCollector = collector
}

// GetDefaultCollector returns the default metrics collector.
func GetDefaultCollector() Collector {
	return defaultCollector
}
