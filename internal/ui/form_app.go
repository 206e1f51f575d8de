package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/emoji"
	"github.com/yildizm/usvote/internal/ui/components"
)

// FormController is the part of election.Controller the form drives
type FormController interface {
	View() election.View
	Names() election.Names
	Mount(ctx context.Context) error
	SetStateName(name string) error
	SetVotesA(votes uint64) error
	SetVotesB(votes uint64) error
	SetSeats(seats uint64) error
	SubmitResult(ctx context.Context) error
	EndElection(ctx context.Context) error
}

// FormOptions configures the results form
type FormOptions struct {
	Network        string
	Contract       string
	Explorer       string
	Hyperlinks     bool
	NoticeDuration time.Duration
}

// Focus positions: the four inputs followed by the two buttons
const (
	fieldState = iota
	fieldVotesA
	fieldVotesB
	fieldSeats
	buttonSubmit
	buttonEnd
	focusCount
)

const defaultNoticeDuration = 5 * time.Second

type notice struct {
	kind    noticeKind
	text    string
	expires time.Time
}

// FormModel is the interactive results form
type FormModel struct {
	ctx   context.Context
	ctrl  FormController
	opts  FormOptions
	names election.Names

	view     election.View
	inputs   []textinput.Model
	focus    int
	notices  []notice
	progress *components.ProgressIndicator
	tally    *components.Tally
	styles   *Styles

	width    int
	height   int
	ready    bool
	quitting bool

	now func() time.Time
}

// NewFormModel creates a form bound to ctrl. Contract calls started from the
// form use ctx.
func NewFormModel(ctx context.Context, ctrl FormController, opts FormOptions) *FormModel {
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = defaultNoticeDuration
	}

	styles := GetStyles()
	names := ctrl.Names()

	m := &FormModel{
		ctx:      ctx,
		ctrl:     ctrl,
		opts:     opts,
		names:    names,
		progress: components.NewProgressIndicator(opts.Explorer, opts.Hyperlinks && !IsColorDisabled()),
		tally:    components.NewTally(30),
		styles:   styles,
		now:      time.Now,
	}
	m.progress.SetSpinnerStyle(styles.Progress)
	m.tally.StyleA = styles.CandidateA
	m.tally.StyleB = styles.CandidateB
	m.tally.Empty = styles.Muted

	m.inputs = make([]textinput.Model, fieldSeats+1)
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 24
		switch i {
		case fieldState:
			in.Placeholder = "State name"
			in.CharLimit = 64
		case fieldSeats:
			in.Placeholder = "0"
			in.CharLimit = 3
		default:
			in.Placeholder = "0"
			in.CharLimit = 20
		}
		m.inputs[i] = in
	}
	m.inputs[fieldState].Focus()

	m.view = ctrl.View()
	m.syncInputs()
	return m
}

// Init mounts the controller and starts the animation tick
func (m *FormModel) Init() tea.Cmd {
	return tea.Batch(
		m.mount(),
		textinput.Blink,
		tick(),
	)
}

// Update handles messages and key input
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick(time.Time(msg))
	case viewChangedMsg:
		return m.handleViewChanged()
	case noticeMsg:
		return m.handleNotice(msg)
	case mountedMsg:
		return m.handleMounted(msg)
	case actionDoneMsg:
		return m.handleActionDone(msg)
	}

	return m.updateFocusedInput(msg)
}

// View renders the form
func (m *FormModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderForm(),
		m.renderButtons(),
	}
	if m.view.Submission.Pending {
		sections = append(sections, m.renderProgress())
	}
	if n := m.renderNotices(); n != "" {
		sections = append(sections, n)
	}
	if r := m.renderRecent(); r != "" {
		sections = append(sections, r)
	}
	sections = append(sections, m.renderHelp())

	body := m.styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
	if !m.ready {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *FormModel) mount() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return mountedMsg{err: ctrl.Mount(ctx)}
	}
}

func (m *FormModel) submit() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: "submit", err: ctrl.SubmitResult(ctx)}
	}
}

func (m *FormModel) endElection() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: "end", err: ctrl.EndElection(ctx)}
	}
}

// handleWindowResize handles window resize events
func (m *FormModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	return m, nil
}

// handleKeyPress handles keyboard input
func (m *FormModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	}

	if m.view.Disabled() {
		return m, nil
	}

	switch msg.String() {
	case "tab", "down":
		return m, m.setFocus((m.focus + 1) % focusCount)
	case "shift+tab", "up":
		return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
	case "ctrl+s":
		return m, m.submit()
	case "ctrl+e":
		return m, m.endElection()
	case "enter":
		switch m.focus {
		case buttonSubmit:
			return m, m.submit()
		case buttonEnd:
			return m, m.endElection()
		default:
			return m, m.setFocus(m.focus + 1)
		}
	}

	if m.focus >= buttonSubmit {
		return m, nil
	}
	if m.focus != fieldState && !digitsOnly(msg) {
		return m, nil
	}
	return m.updateFocusedInput(msg)
}

// updateFocusedInput passes msg to the focused input and pushes the new value
// to the controller. A value the controller rejects is reverted.
func (m *FormModel) updateFocusedInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus >= buttonSubmit || m.view.Disabled() {
		return m, nil
	}

	prev := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	value := m.inputs[m.focus].Value()
	if value == prev {
		return m, cmd
	}
	if err := m.pushField(m.focus, value); err != nil {
		m.inputs[m.focus].SetValue(prev)
		return m, cmd
	}
	m.view = m.ctrl.View()
	return m, cmd
}

func (m *FormModel) pushField(field int, value string) error {
	if field == fieldState {
		return m.ctrl.SetStateName(value)
	}

	n, err := parseCount(value)
	if err != nil {
		return err
	}
	switch field {
	case fieldVotesA:
		return m.ctrl.SetVotesA(n)
	case fieldVotesB:
		return m.ctrl.SetVotesB(n)
	default:
		return m.ctrl.SetSeats(n)
	}
}

// setFocus moves focus, blurring the previous input
func (m *FormModel) setFocus(focus int) tea.Cmd {
	if m.focus < len(m.inputs) {
		m.inputs[m.focus].Blur()
	}
	m.focus = focus
	if m.focus < len(m.inputs) {
		return m.inputs[m.focus].Focus()
	}
	return nil
}

// handleTick advances the spinner and drops expired notices
func (m *FormModel) handleTick(t time.Time) (tea.Model, tea.Cmd) {
	m.progress.Tick()
	m.expireNotices(t)
	return m, tick()
}

func (m *FormModel) expireNotices(now time.Time) {
	kept := m.notices[:0]
	for _, n := range m.notices {
		if now.Before(n.expires) {
			kept = append(kept, n)
		}
	}
	m.notices = kept
}

// handleViewChanged refreshes from the controller. Messages may arrive out of
// order, so the latest view is always read rather than carried.
func (m *FormModel) handleViewChanged() (tea.Model, tea.Cmd) {
	wasDisabled := m.view.Disabled()
	m.view = m.ctrl.View()
	m.syncInputs()

	switch {
	case m.view.Disabled() && !wasDisabled:
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
	case !m.view.Disabled() && wasDisabled:
		return m, m.setFocus(m.focus)
	}
	return m, nil
}

// syncInputs writes the controller draft into inputs whose parsed value
// differs, which happens when the draft is reset after a submission.
func (m *FormModel) syncInputs() {
	d := m.view.Draft
	if m.inputs[fieldState].Value() != d.StateName {
		m.inputs[fieldState].SetValue(d.StateName)
	}
	for field, want := range map[int]uint64{
		fieldVotesA: d.VotesA,
		fieldVotesB: d.VotesB,
		fieldSeats:  d.Seats,
	} {
		got, err := parseCount(m.inputs[field].Value())
		if err == nil && got == want {
			continue
		}
		m.inputs[field].SetValue(formatCount(want))
	}
}

func (m *FormModel) handleNotice(msg noticeMsg) (tea.Model, tea.Cmd) {
	m.notices = append(m.notices, notice{
		kind:    msg.kind,
		text:    msg.text,
		expires: m.now().Add(m.opts.NoticeDuration),
	})
	return m, nil
}

// handleMounted reports mount failures not already surfaced by the controller
func (m *FormModel) handleMounted(msg mountedMsg) (tea.Model, tea.Cmd) {
	m.view = m.ctrl.View()
	if msg.err != nil && !errors.Is(msg.err, election.ErrAlreadyMounted) {
		return m.handleNotice(noticeMsg{kind: noticeError, text: "Failed to load election: " + msg.err.Error()})
	}
	return m, nil
}

// handleActionDone refreshes after a write settles. Outcomes are announced by
// the controller's notifier.
func (m *FormModel) handleActionDone(_ actionDoneMsg) (tea.Model, tea.Cmd) {
	return m.handleViewChanged()
}

func (m *FormModel) renderHeader() string {
	snap := m.view.Snapshot

	title := m.styles.Title.Render(emoji.GetEmoji("ballot") + " US Election Results")
	if m.opts.Network != "" {
		title += m.styles.Muted.Render(" " + m.opts.Network)
	}

	leader := fmt.Sprintf("%s Current Leader is: %s",
		emoji.GetEmoji("leader"),
		m.styles.Candidate(snap.Leader).Render(m.names.Of(snap.Leader)))

	status := m.styles.Success.Render(emoji.GetEmoji("live") + " In progress")
	if snap.Status == election.Ended {
		status = m.styles.Warning.Render(emoji.GetEmoji("ended") + " Ended")
	}

	lines := []string{title, leader, m.tally.Render(m.names, snap), status}
	if m.opts.Contract != "" {
		lines = append(lines, m.styles.Muted.Render("Contract "+m.opts.Contract))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...) + "\n"
}

func (m *FormModel) renderForm() string {
	labels := []string{
		"State:",
		strings.ToUpper(m.names.A) + " Votes:",
		strings.ToUpper(m.names.B) + " Votes:",
		"State Seats:",
	}

	disabled := m.view.Disabled()
	rows := make([]string, len(m.inputs))
	for i, in := range m.inputs {
		label := m.styles.Label.Render(labels[i])
		field := in.View()
		switch {
		case disabled:
			label = m.styles.Disabled.Width(16).Render(labels[i])
			field = m.styles.Disabled.Render(valueOrPlaceholder(in))
		case i == m.focus:
			label = m.styles.Header.Width(16).Render(labels[i])
		}
		rows[i] = label + field
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *FormModel) renderButtons() string {
	button := func(label string, pos int) string {
		switch {
		case m.view.Disabled():
			return m.styles.ButtonDisabled.Render(label)
		case m.focus == pos:
			return m.styles.ButtonFocused.Render(label)
		default:
			return m.styles.Button.Render(label)
		}
	}
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top,
		button("Submit Results", buttonSubmit), " ",
		button("End Election", buttonEnd))
}

func (m *FormModel) renderProgress() string {
	label := "Submitting results..."
	if m.view.Phase == election.EndingElection {
		label = "Ending election..."
	}
	m.progress.SetLabel(label)
	return "\n" + m.progress.Render(m.view.Submission.TxRef)
}

func (m *FormModel) renderNotices() string {
	if len(m.notices) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.notices))
	for _, n := range m.notices {
		if n.kind == noticeError {
			lines = append(lines, m.styles.Error.Render(emoji.GetEmoji("error")+" "+n.text))
			continue
		}
		lines = append(lines, m.styles.Success.Render(emoji.GetEmoji("success")+" "+n.text))
	}
	return "\n" + strings.Join(lines, "\n")
}

func (m *FormModel) renderRecent() string {
	if len(m.view.Recent) == 0 {
		return ""
	}
	lines := []string{"\n" + m.styles.Header.Render("Recent results")}
	for _, ev := range m.view.Recent {
		lines = append(lines, fmt.Sprintf("  %s %s %s +%s",
			emoji.GetEmoji("state"),
			ev.State,
			m.styles.Candidate(ev.Winner).Render(m.names.Of(ev.Winner)),
			humanize.Comma(int64(ev.Seats))))
	}
	return strings.Join(lines, "\n")
}

func (m *FormModel) renderHelp() string {
	return "\n" + m.styles.Muted.Render("tab/↑↓ move • enter select • ctrl+s submit • ctrl+e end election • esc quit")
}

func valueOrPlaceholder(in textinput.Model) string {
	if v := in.Value(); v != "" {
		return v
	}
	return in.Placeholder
}

// digitsOnly reports whether a key is allowed in a numeric field. Non-rune
// keys (backspace, arrows) are always allowed.
func digitsOnly(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes {
		return true
	}
	for _, r := range msg.Runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseCount parses a numeric field; empty is zero
func parseCount(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

// formatCount renders zero as an empty field
func formatCount(n uint64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatUint(n, 10)
}

// FormRun runs the results form until the user quits. The controller is
// unmounted on return.
func FormRun(ctx context.Context, ctrl *election.Controller, notifier *ProgramNotifier, opts FormOptions) error {
	defer ctrl.Unmount()

	model := NewFormModel(ctx, ctrl, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.Attach(p)
	defer notifier.Close()
	ctrl.OnChange(notifier.ViewChanged)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
