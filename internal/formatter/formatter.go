package formatter

import (
	"fmt"
	"time"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/monitor"
)

// Formatter renders an election status report
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Report is everything `status` prints
type Report struct {
	Network     string
	ChainID     int64
	Contract    string
	Explorer    string
	Names       election.Names
	Snapshot    election.Snapshot
	Recent      []election.StateResultEvent
	Operations  []monitor.OperationMetrics
	GeneratedAt time.Time
}

// New returns the formatter for format
func New(format string, color bool) (Formatter, error) {
	switch format {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// share returns c's fraction of all seats won so far
func share(s election.Snapshot, c election.Candidate) float64 {
	total := s.SeatsA + s.SeatsB
	if total == 0 {
		return 0
	}
	return float64(s.Seats(c)) / float64(total)
}

func statusLabel(s election.Status) string {
	if s == election.Ended {
		return "Ended"
	}
	return "In progress"
}
