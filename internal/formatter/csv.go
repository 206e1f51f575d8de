package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yildizm/usvote/internal/election"
)

// csvFormatter formats the tally as CSV, one row per candidate
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{"Candidate ID", "Candidate", "Seats", "Share", "Leader", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	snap := report.Snapshot
	for _, c := range []election.Candidate{election.CandidateA, election.CandidateB} {
		record := []string{
			strconv.Itoa(int(c)),
			report.Names.Of(c),
			strconv.FormatUint(snap.Seats(c), 10),
			strconv.FormatFloat(share(snap, c), 'f', 4, 64),
			strconv.FormatBool(snap.Leader == c),
			snap.Status.String(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
