package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SpinnerFrames are the frames of the busy indicator
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// TxHashLabel precedes the pending transaction hash
const TxHashLabel = "Current transaction hash:"

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
	Style lipgloss.Style
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		Style: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
	}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(SpinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	spinner := s.Style.Render(SpinnerFrames[s.Frame%len(SpinnerFrames)])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", spinner, s.Label)
	}
	return spinner
}

// TxURL returns the explorer page of a transaction, or "" without an explorer
func TxURL(explorer, hash string) string {
	if explorer == "" || hash == "" {
		return ""
	}
	return strings.TrimRight(explorer, "/") + "/tx/" + hash
}

// ProgressIndicator shows that a transaction is in flight and, once known,
// links its hash to the block explorer.
type ProgressIndicator struct {
	spinner    *Spinner
	explorer   string
	hyperlinks bool
	labelStyle lipgloss.Style
	linkStyle  lipgloss.Style
}

// NewProgressIndicator creates an indicator for the given explorer base URL.
// With hyperlinks off the URL is printed in full.
func NewProgressIndicator(explorer string, hyperlinks bool) *ProgressIndicator {
	return &ProgressIndicator{
		spinner:    NewSpinner(),
		explorer:   explorer,
		hyperlinks: hyperlinks,
		labelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		linkStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Underline(true),
	}
}

// SetLabel sets the text beside the spinner
func (p *ProgressIndicator) SetLabel(label string) {
	p.spinner.Label = label
}

// SetSpinnerStyle sets the spinner color
func (p *ProgressIndicator) SetSpinnerStyle(style lipgloss.Style) {
	p.spinner.Style = style
}

// Tick advances the spinner
func (p *ProgressIndicator) Tick() {
	p.spinner.Tick()
}

// Render renders the spinner and, when hash is set, the transaction line
func (p *ProgressIndicator) Render(hash string) string {
	lines := []string{p.spinner.Render()}
	if hash != "" {
		lines = append(lines, p.labelStyle.Render(TxHashLabel)+" "+p.Link(hash))
	}
	return strings.Join(lines, "\n")
}

// Link renders hash as a link to its explorer page
func (p *ProgressIndicator) Link(hash string) string {
	url := TxURL(p.explorer, hash)
	switch {
	case url == "":
		return hash
	case p.hyperlinks:
		return termenv.Hyperlink(url, p.linkStyle.Render(hash))
	default:
		return hash + "\n" + url
	}
}
