package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/formatter"
)

var (
	submitState  string
	submitVotesA uint64
	submitVotesB uint64
	submitSeats  uint64
)

func newSubmitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit one state result",
		Long: `Submit one state result to the election contract and wait for it to be mined.

The transaction hash and its explorer URL are printed as soon as the
transaction is sent. Votes are recorded as given; set
form.validate_before_submit to reject empty state names and zero seats
before anything is sent.

Examples:
  usvote submit --state Ohio --votes-a 100 --votes-b 90 --seats 18`,
		Args: cobra.NoArgs,
		RunE: runSubmit,
	}

	cmd.Flags().StringVar(&submitState, "state", "", "state name")
	cmd.Flags().Uint64Var(&submitVotesA, "votes-a", 0, "votes for the first candidate")
	cmd.Flags().Uint64Var(&submitVotesB, "votes-b", 0, "votes for the second candidate")
	cmd.Flags().Uint64Var(&submitSeats, "seats", 0, "seats awarded by the state")

	return cmd
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := openSession(ctx, cfg, newLogger("cli"), newConsoleNotifier(out))
	if err != nil {
		return err
	}
	defer s.Close()

	s.ctrl.OnChange(newTxPrinter(out, cfg.Network.ExplorerURL()).ViewChanged)

	draft := election.Draft{
		StateName: submitState,
		VotesA:    submitVotesA,
		VotesB:    submitVotesB,
		Seats:     submitSeats,
	}
	if err := s.ctrl.SetDraft(draft); err != nil {
		return err
	}
	if err := s.ctrl.SubmitResult(ctx); err != nil {
		return err
	}

	printTally(ctx, out, s)
	return nil
}

// printTally refreshes the snapshot and prints one tally line
func printTally(ctx context.Context, out io.Writer, s *session) {
	if err := s.ctrl.Refresh(ctx); err != nil {
		s.log.Warn("failed to refresh tally: %v", err)
		return
	}
	fmt.Fprintf(out, "%s %s\n", GetEmoji("ballot"), formatter.TallyLine(s.ctrl.Names(), s.ctrl.View().Snapshot))
}
