// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

// Package pool provides a bounded goroutine worker pool used to
// parallelize independent per-slot work (candidate selection,
// spec.md §4.5 step 1) across a fixed number of workers.
package pool

import (
	"runtime"
	"sync"
	"time"

	"github.com/shiftforge/scheduler/pkg/logging"
)

// Job is a unit of work submitted to a WorkerPool. Its error, if any, is
// recorded in the pool's stats but never aborts sibling jobs.
type Job func() error

// WorkerPool runs Jobs across a bounded number of goroutines, tracking
// submission/completion/failure counts under a single mutex.
type WorkerPool struct {
	mu        sync.RWMutex
	config    *Config
	logger    logging.Logger
	submitted int64
	completed int64
	failed    int64
}

// Config holds configuration for a WorkerPool.
type Config struct {
	// MaxWorkers bounds how many Jobs run concurrently.
	MaxWorkers int
}

// DefaultConfig returns a Config sized to the host's available CPUs.
func DefaultConfig() *Config {
	return &Config{MaxWorkers: runtime.GOMAXPROCS(0)}
}

// New creates a WorkerPool. A nil config uses DefaultConfig; a nil
// logger uses logging.NoOpLogger.
func New(config *Config, logger logging.Logger) *WorkerPool {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxWorkers < 1 {
		config.MaxWorkers = 1
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &WorkerPool{config: config, logger: logger}
}

// Run executes every job, at most config.MaxWorkers at a time, and
// returns their errors in the same order as jobs. It blocks until every
// job has completed.
func (p *WorkerPool) Run(jobs []Job) []error {
	errs := make([]error, len(jobs))
	sem := make(chan struct{}, p.config.MaxWorkers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, job Job) {
			defer wg.Done()
			defer func() { <-sem }()
			err := job()
			p.record(err)
			errs[i] = err
		}(i, job)
	}

	wg.Wait()
	return errs
}

func (p *WorkerPool) record(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitted++
	if err != nil {
		p.failed++
	} else {
		p.completed++
	}
}

// Stats reports the pool's cumulative job counts.
func (p *WorkerPool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Stats{Submitted: p.submitted, Completed: p.completed, Failed: p.failed}
}

// Stats is a snapshot of a WorkerPool's cumulative job counts.
type Stats struct {
	Submitted int64
	Completed int64
	Failed    int64
}

// defaultPool is shared by the package-level RunAll helper so callers
// with no stats/logging needs don't have to construct their own pool.
var defaultPool = New(nil, nil)

// RunAll runs jobs on the package-level default pool. Scheduling code
// that wants its own Stats or Logger should construct a WorkerPool via
// New instead.
func RunAll(jobs []Job) []error {
	return defaultPool.Run(jobs)
}

// Monitor periodically logs a WorkerPool's stats, mirroring the cadence
// a long-lived schedulerd process would want for observability.
type Monitor struct {
	pool     *WorkerPool
	interval time.Duration
	logger   logging.Logger
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewMonitor creates a Monitor that logs p's Stats every interval once
// Start is called.
func NewMonitor(p *WorkerPool, interval time.Duration, logger logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Monitor{pool: p, interval: interval, logger: logger, stop: make(chan struct{})}
}

// Start begins the monitor's background logging loop.
func (m *Monitor) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s := m.pool.Stats()
				m.logger.Info("worker pool stats", "submitted", s.Submitted, "completed", s.Completed, "failed", s.Failed)
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop ends the monitor's background logging loop and waits for it to
// exit.
func (m *Monitor) Stop() {
	close(m.stop)
	m.wg.Wait()
}
