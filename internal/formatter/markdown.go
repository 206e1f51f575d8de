package formatter

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yildizm/usvote/internal/election"
)

// markdownFormatter formats the report as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder
	snap := report.Snapshot

	b.WriteString("# US Election Results\n\n")
	fmt.Fprintf(&b, "**Current Leader:** %s  \n", report.Names.Of(snap.Leader))
	fmt.Fprintf(&b, "**Status:** %s\n\n", statusLabel(snap.Status))

	b.WriteString("| Candidate | Seats | Share |\n")
	b.WriteString("|-----------|------:|------:|\n")
	for _, c := range []election.Candidate{election.CandidateA, election.CandidateB} {
		fmt.Fprintf(&b, "| %s | %s | %.1f%% |\n",
			escapeMarkdown(report.Names.Of(c)),
			humanize.Comma(int64(snap.Seats(c))), // #nosec G115
			share(snap, c)*100)
	}

	if len(report.Recent) > 0 {
		b.WriteString("\n## Recent Results\n\n")
		b.WriteString("| State | Winner | Seats |\n")
		b.WriteString("|-------|--------|------:|\n")
		for _, ev := range report.Recent {
			fmt.Fprintf(&b, "| %s | %s | %d |\n",
				escapeMarkdown(ev.State), escapeMarkdown(report.Names.Of(ev.Winner)), ev.Seats)
		}
	}

	b.WriteString("\n## Contract\n\n")
	fmt.Fprintf(&b, "- Network: %s\n", report.Network)
	if report.Explorer != "" {
		fmt.Fprintf(&b, "- Address: [%s](%s/address/%s)\n", report.Contract, report.Explorer, report.Contract)
	} else {
		fmt.Fprintf(&b, "- Address: `%s`\n", report.Contract)
	}

	return []byte(b.String()), nil
}

// escapeMarkdown keeps user-supplied names from breaking tables
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}
