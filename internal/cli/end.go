package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEndCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the election",
		Long: `End the election so the contract stops accepting state results.

The current status is read first; an election that has already ended is
reported without sending a transaction.`,
		Args: cobra.NoArgs,
		RunE: runEnd,
	}
}

func runEnd(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	s, err := openSession(ctx, cfg, newLogger("cli"), newConsoleNotifier(out))
	if err != nil {
		return err
	}
	defer s.Close()

	s.ctrl.OnChange(newTxPrinter(out, cfg.Network.ExplorerURL()).ViewChanged)

	if err := s.ctrl.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read election status: %w", err)
	}
	if err := s.ctrl.EndElection(ctx); err != nil {
		return err
	}

	printTally(ctx, out, s)
	return nil
}
