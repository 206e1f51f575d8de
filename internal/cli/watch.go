package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/formatter"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Stream the seat tally as results arrive",
		Long: `Subscribe to the election contract and print the reconciled tally every
time a LogStateResult or LogElectionEnded event arrives, whichever session
sent the transaction. Press Ctrl+C to stop watching.

Examples:
  usvote watch
  usvote watch --config ./goerli.yaml`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := openSession(ctx, cfg, newLogger("cli"), newConsoleNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()

	stream := newTallyStream(out, s.ctrl.Names(), time.Now)
	if err := s.ctrl.Mount(ctx); err != nil {
		return err
	}
	stream.follow(s.ctrl)

	if isVerbose() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s on %s\n", cfg.Contract.Address, cfg.Network.Name)
		fmt.Fprintf(cmd.ErrOrStderr(), "Press Ctrl+C to stop...\n\n")
	}

	<-ctx.Done()
	return nil
}

// tallyStream prints a line whenever the snapshot changes, prefixed with
// the state result that caused it when there is one.
type tallyStream struct {
	mu      sync.Mutex
	out     io.Writer
	names   election.Names
	now     func() time.Time
	started bool
	last    election.Snapshot
	lastRef election.StateResultEvent
}

func newTallyStream(out io.Writer, names election.Names, now func() time.Time) *tallyStream {
	return &tallyStream{out: out, names: names, now: now}
}

type viewSource interface {
	View() election.View
	OnChange(func(election.View))
}

// follow registers the stream before printing the current view, so an event
// applied in between is printed rather than lost.
func (t *tallyStream) follow(src viewSource) {
	src.OnChange(t.ViewChanged)
	t.ViewChanged(src.View())
}

// ViewChanged is registered with Controller.OnChange
func (t *tallyStream) ViewChanged(v election.View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started && v.Snapshot == t.last {
		return
	}

	var cause string
	if len(v.Recent) > 0 && v.Recent[0] != t.lastRef {
		ev := v.Recent[0]
		cause = fmt.Sprintf("%s %s → %s +%d | ", GetEmoji("state"), ev.State, t.names.Of(ev.Winner), ev.Seats)
		t.lastRef = ev
	}
	if t.started && v.Snapshot.Status == election.Ended && t.last.Status != election.Ended {
		cause += GetEmoji("ended") + " election ended | "
	}

	t.started = true
	t.last = v.Snapshot
	fmt.Fprintf(t.out, "[%s] %s%s\n", t.now().Format("15:04:05"), cause, formatter.TallyLine(t.names, v.Snapshot))
}
