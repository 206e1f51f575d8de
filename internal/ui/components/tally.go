package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/usvote/internal/election"
)

// Tally renders the seat split between the two candidates as one bar
type Tally struct {
	Width  int
	StyleA lipgloss.Style
	StyleB lipgloss.Style
	Empty  lipgloss.Style
}

// NewTally creates a tally bar of the given width
func NewTally(width int) *Tally {
	return &Tally{
		Width:  width,
		StyleA: lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
		StyleB: lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Empty:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
	}
}

// Split returns how many cells each candidate fills
func (t *Tally) Split(s election.Snapshot) (a, b int) {
	total := s.SeatsA + s.SeatsB
	if total == 0 || t.Width <= 0 {
		return 0, 0
	}
	a = int(float64(t.Width) * float64(s.SeatsA) / float64(total))
	return a, t.Width - a
}

// Render renders "A 15 [█████░░░] 12 B"
func (t *Tally) Render(names election.Names, s election.Snapshot) string {
	a, b := t.Split(s)

	var bar string
	if a == 0 && b == 0 {
		bar = t.Empty.Render(strings.Repeat("░", max(t.Width, 0)))
	} else {
		bar = t.StyleA.Render(strings.Repeat("█", a)) + t.StyleB.Render(strings.Repeat("█", b))
	}

	return fmt.Sprintf("%s %d [%s] %d %s",
		t.StyleA.Render(names.A), s.SeatsA, bar, s.SeatsB, t.StyleB.Render(names.B))
}
