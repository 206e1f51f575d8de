package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yildizm/usvote/internal/formatter"
)

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current election status",
		Long: `Read the current leader, the seat tally and the election status from the
contract and print them.

Examples:
  usvote status
  usvote status -o json
  usvote status -o csv > tally.csv`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	ctx := cmd.Context()

	f, err := formatter.New(getOutputFormat(), isColorEnabled())
	if err != nil {
		return err
	}
	if e, ok := f.(interface{ SetEmoji(bool) }); ok {
		e.SetEmoji(!isEmojiDisabled())
	}

	s, err := openSession(ctx, cfg, newLogger("cli"), newConsoleNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ctrl.Refresh(ctx); err != nil {
		return err
	}

	view := s.ctrl.View()
	report := &formatter.Report{
		Network:     cfg.Network.Name,
		ChainID:     s.client.ChainID().Int64(),
		Contract:    s.client.Address().Hex(),
		Explorer:    cfg.Network.ExplorerURL(),
		Names:       s.ctrl.Names(),
		Snapshot:    view.Snapshot,
		Recent:      view.Recent,
		GeneratedAt: time.Now(),
	}
	if isVerbose() {
		report.Operations = s.metrics.Snapshot()
	}

	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format status: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
