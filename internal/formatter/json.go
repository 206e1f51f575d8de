package formatter

import (
	"encoding/json"
	"time"

	"github.com/yildizm/usvote/internal/election"
)

// jsonFormatter formats the report as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// StatusOutput is the JSON document written by `status -o json`
type StatusOutput struct {
	Network     string            `json:"network"`
	ChainID     int64             `json:"chain_id,omitempty"`
	Contract    string            `json:"contract"`
	Leader      string            `json:"leader"`
	Status      string            `json:"status"`
	Candidates  []CandidateOutput `json:"candidates"`
	Recent      []ResultOutput    `json:"recent,omitempty"`
	Operations  []OperationOutput `json:"operations,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// CandidateOutput is one candidate's tally
type CandidateOutput struct {
	ID    uint8   `json:"id"`
	Name  string  `json:"name"`
	Seats uint64  `json:"seats"`
	Share float64 `json:"share"`
}

// ResultOutput is one reconciled state result
type ResultOutput struct {
	State  string `json:"state"`
	Winner string `json:"winner"`
	Seats  uint64 `json:"seats"`
	TxHash string `json:"tx_hash,omitempty"`
}

// OperationOutput is one operation's timings
type OperationOutput struct {
	Operation string  `json:"operation"`
	Count     int64   `json:"count"`
	Errors    int64   `json:"errors"`
	AvgMillis float64 `json:"avg_ms"`
	MaxMillis float64 `json:"max_ms"`
}

func (f *jsonFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(newStatusOutput(report), "", "  ")
}

func newStatusOutput(report *Report) *StatusOutput {
	snap := report.Snapshot
	out := &StatusOutput{
		Network:     report.Network,
		ChainID:     report.ChainID,
		Contract:    report.Contract,
		Leader:      report.Names.Of(snap.Leader),
		Status:      snap.Status.String(),
		GeneratedAt: report.GeneratedAt,
	}

	for _, c := range []election.Candidate{election.CandidateA, election.CandidateB} {
		out.Candidates = append(out.Candidates, CandidateOutput{
			ID:    uint8(c),
			Name:  report.Names.Of(c),
			Seats: snap.Seats(c),
			Share: share(snap, c),
		})
	}

	for _, ev := range report.Recent {
		out.Recent = append(out.Recent, ResultOutput{
			State:  ev.State,
			Winner: report.Names.Of(ev.Winner),
			Seats:  ev.Seats,
			TxHash: ev.Ref.TxHash,
		})
	}

	for _, op := range report.Operations {
		out.Operations = append(out.Operations, OperationOutput{
			Operation: string(op.Operation),
			Count:     op.Count,
			Errors:    op.ErrorCount,
			AvgMillis: float64(op.AvgTime) / float64(time.Millisecond),
			MaxMillis: float64(op.MaxTime) / float64(time.Millisecond),
		})
	}

	return out
}
