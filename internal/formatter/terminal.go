package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/usvote/internal/election"
)

// terminalFormatter formats the report for terminal display using go-termfmt
type terminalFormatter struct {
	opts *termfmt.TerminalOptions
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = color
	opts.Emoji = true
	return &terminalFormatter{opts: opts}
}

// SetEmoji toggles emoji output
func (f *terminalFormatter) SetEmoji(enabled bool) {
	f.opts.Emoji = enabled
}

func (f *terminalFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b, "US Election Results")
	f.writeTally(&b, report)

	if len(report.Recent) > 0 {
		f.writeRecent(&b, report)
	}
	if len(report.Operations) > 0 {
		f.writeOperations(&b, report)
	}
	f.writeContract(&b, report)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) symbol(key, fallback string) string {
	if s := termfmt.GetEmoji(key, f.opts); s != "" {
		return s
	}
	return fallback
}

// writeHeader writes a box-drawn title
func (f *terminalFormatter) writeHeader(b *strings.Builder, title string) {
	width := len(title)
	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")
	b.WriteString("║ " + title + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝\n\n")
}

// writeTally writes the leader and seat counts with share bars
func (f *terminalFormatter) writeTally(b *strings.Builder, report *Report) {
	snap := report.Snapshot
	b.WriteString(f.symbol("statistics", "#") + " Tally\n")

	items := []termfmt.TreeItem{
		{Label: "Current Leader", Value: report.Names.Of(snap.Leader)},
		f.seatItem(report, election.CandidateA),
		f.seatItem(report, election.CandidateB),
		{Label: "Status", Value: statusLabel(snap.Status), Last: true},
	}

	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

func (f *terminalFormatter) seatItem(report *Report, c election.Candidate) termfmt.TreeItem {
	seats := report.Snapshot.Seats(c)
	pct := share(report.Snapshot, c)
	return termfmt.TreeItem{
		Label: report.Names.Of(c),
		Value: fmt.Sprintf("%s seats", humanize.Comma(int64(seats))), // #nosec G115
		Children: []termfmt.TreeItem{
			{Label: termfmt.CreateConfidenceBar(pct, f.opts), Value: fmt.Sprintf("%.1f%%", pct*100), Last: true},
		},
	}
}

// writeRecent writes the most recent state results
func (f *terminalFormatter) writeRecent(b *strings.Builder, report *Report) {
	b.WriteString(f.symbol("insights", "*") + " Recent Results\n")

	items := make([]termfmt.TreeItem, 0, len(report.Recent))
	for i, ev := range report.Recent {
		items = append(items, termfmt.TreeItem{
			Label: ev.State,
			Value: fmt.Sprintf("%s +%d", report.Names.Of(ev.Winner), ev.Seats),
			Last:  i == len(report.Recent)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeOperations writes per-operation timings
func (f *terminalFormatter) writeOperations(b *strings.Builder, report *Report) {
	b.WriteString(f.symbol("target", ">") + " Contract Calls\n")

	items := make([]termfmt.TreeItem, 0, len(report.Operations))
	for i, op := range report.Operations {
		items = append(items, termfmt.TreeItem{
			Label: string(op.Operation),
			Value: fmt.Sprintf("%d ok, %d failed, avg %s", op.SuccessCount, op.ErrorCount, op.AvgTime.Round(time.Millisecond)),
			Last:  i == len(report.Operations)-1,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n\n")
}

// writeContract writes where the data came from
func (f *terminalFormatter) writeContract(b *strings.Builder, report *Report) {
	b.WriteString(f.symbol("info", "i") + " Contract\n")

	network := report.Network
	if report.ChainID != 0 {
		network = fmt.Sprintf("%s (chain %d)", network, report.ChainID)
	}
	items := []termfmt.TreeItem{
		{Label: "Network", Value: network},
		{Label: "Address", Value: report.Contract, Last: report.Explorer == ""},
	}
	if report.Explorer != "" {
		items = append(items, termfmt.TreeItem{
			Label: "Explorer",
			Value: report.Explorer + "/address/" + report.Contract,
			Last:  true,
		})
	}
	b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
}

// TallyLine renders a single-line tally for streaming output
func TallyLine(names election.Names, s election.Snapshot) string {
	line := fmt.Sprintf("%s %s vs %s %s | leader: %s",
		names.A, humanize.Comma(int64(s.SeatsA)), // #nosec G115
		humanize.Comma(int64(s.SeatsB)), names.B, // #nosec G115
		names.Of(s.Leader))
	if s.Status == election.Ended {
		line += " | ended"
	}
	return line
}
