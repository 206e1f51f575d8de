package monitor

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Session collects operation metrics for one Controller session. It
// satisfies election.Recorder.
type Session struct {
	started time.Time

	mu     sync.Mutex
	timers map[OperationType]*Timer
	errors map[OperationType]*Counter
	last   map[OperationType]error
}

// NewSession creates an empty Session
func NewSession() *Session {
	s := &Session{
		started: time.Now(),
		timers:  make(map[OperationType]*Timer, len(Operations)),
		errors:  make(map[OperationType]*Counter, len(Operations)),
		last:    make(map[OperationType]error),
	}
	for _, op := range Operations {
		s.timers[op] = NewTimer(string(op))
		s.errors[op] = NewCounter(string(op) + "_errors")
	}
	return s
}

// Record records one operation
func (s *Session) Record(operation string, duration time.Duration, err error) {
	op := OperationType(operation)

	s.mu.Lock()
	timer, ok := s.timers[op]
	if !ok {
		timer = NewTimer(operation)
		s.timers[op] = timer
		s.errors[op] = NewCounter(operation + "_errors")
	}
	errs := s.errors[op]
	if err != nil {
		s.last[op] = err
	}
	s.mu.Unlock()

	timer.Record(duration)
	if err != nil {
		errs.Inc()
	}
}

// Operation returns the metrics of one operation type
func (s *Session) Operation(op OperationType) OperationMetrics {
	s.mu.Lock()
	timer, ok := s.timers[op]
	errs := s.errors[op]
	s.mu.Unlock()

	if !ok {
		return OperationMetrics{Operation: op}
	}
	count := timer.Count()
	failed := errs.Get()
	return OperationMetrics{
		Operation:    op,
		Count:        count,
		TotalTime:    timer.TotalTime(),
		MinTime:      timer.MinTime(),
		MaxTime:      timer.MaxTime(),
		AvgTime:      timer.AvgTime(),
		ErrorCount:   failed,
		SuccessCount: count - failed,
	}
}

// LastError returns the most recent error of op, if any
func (s *Session) LastError(op OperationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last[op]
}

// Snapshot returns metrics for every operation that ran at least once
func (s *Session) Snapshot() []OperationMetrics {
	out := make([]OperationMetrics, 0, len(Operations))
	for _, op := range Operations {
		if m := s.Operation(op); m.Count > 0 {
			out = append(out, m)
		}
	}
	return out
}

// Uptime returns how long the session has been collecting
func (s *Session) Uptime() time.Duration {
	return time.Since(s.started)
}

// Summary renders a one-line-per-operation report
func (s *Session) Summary() string {
	metrics := s.Snapshot()
	if len(metrics) == 0 {
		return "no contract operations"
	}

	var b strings.Builder
	for _, m := range metrics {
		fmt.Fprintf(&b, "%-13s %4d ok %4d failed  avg %-10s max %s\n",
			m.Operation, m.SuccessCount, m.ErrorCount,
			m.AvgTime.Round(time.Millisecond), m.MaxTime.Round(time.Millisecond))
	}
	return strings.TrimRight(b.String(), "\n")
}
