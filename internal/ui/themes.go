package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/usvote/internal/election"
)

// Theme represents a color theme for the results form
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Disabled lipgloss.AdaptiveColor
	Progress lipgloss.AdaptiveColor

	// One color per candidate, used by the tally bar and recent results
	CandidateA lipgloss.AdaptiveColor
	CandidateB lipgloss.AdaptiveColor
}

// palette lists light/dark pairs in Theme field order
type palette struct {
	primary, secondary                 [2]string
	success, warning, errorColor, info [2]string
	border, muted, disabled, progress  [2]string
	candidateA, candidateB             [2]string
}

func adaptive(c [2]string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: c[0], Dark: c[1]}
}

// buildTheme creates a theme from a palette
func buildTheme(name string, p palette) Theme {
	return Theme{
		Name:       name,
		Primary:    adaptive(p.primary),
		Secondary:  adaptive(p.secondary),
		Success:    adaptive(p.success),
		Warning:    adaptive(p.warning),
		Error:      adaptive(p.errorColor),
		Info:       adaptive(p.info),
		Border:     adaptive(p.border),
		Muted:      adaptive(p.muted),
		Disabled:   adaptive(p.disabled),
		Progress:   adaptive(p.progress),
		CandidateA: adaptive(p.candidateA),
		CandidateB: adaptive(p.candidateB),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default", palette{
		primary: [2]string{"#1E40AF", "#3B82F6"}, secondary: [2]string{"#6B7280", "#9CA3AF"},
		success: [2]string{"#059669", "#10B981"}, warning: [2]string{"#D97706", "#F59E0B"},
		errorColor: [2]string{"#DC2626", "#EF4444"}, info: [2]string{"#0891B2", "#06B6D4"},
		border: [2]string{"#D1D5DB", "#374151"}, muted: [2]string{"#6B7280", "#9CA3AF"},
		disabled: [2]string{"#D1D5DB", "#4B5563"}, progress: [2]string{"#059669", "#10B981"},
		candidateA: [2]string{"#1D4ED8", "#60A5FA"}, candidateB: [2]string{"#B91C1C", "#F87171"},
	})

	HighContrastTheme = buildTheme("high-contrast", palette{
		primary: [2]string{"#000000", "#FFFFFF"}, secondary: [2]string{"#666666", "#BBBBBB"},
		success: [2]string{"#006600", "#00FF00"}, warning: [2]string{"#CC6600", "#FFAA00"},
		errorColor: [2]string{"#CC0000", "#FF4444"}, info: [2]string{"#0066CC", "#4499FF"},
		border: [2]string{"#000000", "#FFFFFF"}, muted: [2]string{"#666666", "#BBBBBB"},
		disabled: [2]string{"#999999", "#555555"}, progress: [2]string{"#006600", "#00FF00"},
		candidateA: [2]string{"#0000CC", "#8080FF"}, candidateB: [2]string{"#CC0000", "#FF8080"},
	})

	MinimalTheme = buildTheme("minimal", palette{
		primary: [2]string{"#2D3748", "#E2E8F0"}, secondary: [2]string{"#718096", "#A0AEC0"},
		success: [2]string{"#2F855A", "#68D391"}, warning: [2]string{"#C05621", "#F6AD55"},
		errorColor: [2]string{"#C53030", "#FC8181"}, info: [2]string{"#2B6CB0", "#63B3ED"},
		border: [2]string{"#E2E8F0", "#2D3748"}, muted: [2]string{"#A0AEC0", "#718096"},
		disabled: [2]string{"#CBD5E0", "#4A5568"}, progress: [2]string{"#2F855A", "#68D391"},
		candidateA: [2]string{"#2C5282", "#90CDF4"}, candidateB: [2]string{"#9B2C2C", "#FEB2B2"},
	})
)

// Current active theme
var currentTheme = DefaultTheme

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "", "default":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// GetStyles builds the form styles from the current theme
func GetStyles() *Styles {
	theme := GetTheme()

	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)

	return &Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Bold(true).
			Width(16),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Disabled: lipgloss.NewStyle().
			Foreground(theme.Disabled),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(theme.Info),

		Button: button,

		ButtonFocused: button.
			BorderForeground(theme.Primary).
			Foreground(theme.Primary).
			Bold(true),

		ButtonDisabled: button.
			BorderForeground(theme.Disabled).
			Foreground(theme.Disabled),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),

		Progress: lipgloss.NewStyle().
			Foreground(theme.Progress).
			Bold(true),

		CandidateA: lipgloss.NewStyle().
			Foreground(theme.CandidateA).
			Bold(true),

		CandidateB: lipgloss.NewStyle().
			Foreground(theme.CandidateB).
			Bold(true),
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Header   lipgloss.Style
	Label    lipgloss.Style
	Muted    lipgloss.Style
	Disabled lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style

	Box      lipgloss.Style
	Progress lipgloss.Style

	CandidateA lipgloss.Style
	CandidateB lipgloss.Style
}

// Candidate returns the style of candidate c, muted for Unknown
func (s *Styles) Candidate(c election.Candidate) lipgloss.Style {
	switch c {
	case election.CandidateA:
		return s.CandidateA
	case election.CandidateB:
		return s.CandidateB
	default:
		return s.Muted
	}
}
