package monitor

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	counter := NewCounter("test_counter")

	counter.Inc()
	counter.Add(5)
	if counter.Get() != 6 {
		t.Errorf("Expected value 6, got %d", counter.Get())
	}
	if counter.Name() != "test_counter" {
		t.Errorf("Expected name 'test_counter', got %s", counter.Name())
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test_timer")

	if timer.MinTime() != 0 || timer.AvgTime() != 0 {
		t.Error("Expected zero min and avg before any measurement")
	}

	timer.Record(100 * time.Millisecond)
	timer.Record(200 * time.Millisecond)
	timer.Record(50 * time.Millisecond)

	if timer.Count() != 3 {
		t.Errorf("Expected count 3, got %d", timer.Count())
	}
	if timer.MinTime() != 50*time.Millisecond {
		t.Errorf("Expected min 50ms, got %v", timer.MinTime())
	}
	if timer.MaxTime() != 200*time.Millisecond {
		t.Errorf("Expected max 200ms, got %v", timer.MaxTime())
	}
	if timer.TotalTime() != 350*time.Millisecond {
		t.Errorf("Expected total 350ms, got %v", timer.TotalTime())
	}
	if got, want := timer.AvgTime(), 350*time.Millisecond/3; got != want {
		t.Errorf("Expected avg %v, got %v", want, got)
	}
}

func TestTimerConcurrent(t *testing.T) {
	timer := NewTimer("concurrent")

	var wg sync.WaitGroup
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			timer.Record(time.Duration(n) * time.Millisecond)
		}(i)
	}
	wg.Wait()

	if timer.Count() != 100 {
		t.Errorf("Expected 100 measurements, got %d", timer.Count())
	}
	if timer.MinTime() != time.Millisecond || timer.MaxTime() != 100*time.Millisecond {
		t.Errorf("Unexpected bounds %v..%v", timer.MinTime(), timer.MaxTime())
	}
}

func TestSessionRecord(t *testing.T) {
	s := NewSession()
	boom := errors.New("reverted")

	s.Record("submit", 2*time.Second, nil)
	s.Record("submit", 4*time.Second, boom)
	s.Record("read", 10*time.Millisecond, nil)

	submit := s.Operation(OperationSubmit)
	if submit.Count != 2 || submit.SuccessCount != 1 || submit.ErrorCount != 1 {
		t.Errorf("Unexpected submit metrics %+v", submit)
	}
	if submit.AvgTime != 3*time.Second {
		t.Errorf("Expected avg 3s, got %v", submit.AvgTime)
	}
	if !errors.Is(s.LastError(OperationSubmit), boom) {
		t.Errorf("Expected last submit error to be kept, got %v", s.LastError(OperationSubmit))
	}

	snap := s.Snapshot()
	if len(snap) != 2 || snap[0].Operation != OperationRead || snap[1].Operation != OperationSubmit {
		t.Errorf("Expected read and submit in report order, got %+v", snap)
	}
}

func TestSessionUnknownOperation(t *testing.T) {
	s := NewSession()
	s.Record("custom", time.Second, nil)

	if got := s.Operation("custom"); got.Count != 1 {
		t.Errorf("Expected unknown operations to be tracked, got %+v", got)
	}
}

func TestSessionSummary(t *testing.T) {
	s := NewSession()
	if s.Summary() != "no contract operations" {
		t.Errorf("Unexpected empty summary %q", s.Summary())
	}

	s.Record("end_election", 1500*time.Millisecond, nil)
	summary := s.Summary()
	if !strings.Contains(summary, "end_election") || !strings.Contains(summary, "1 ok") {
		t.Errorf("Unexpected summary %q", summary)
	}
}
