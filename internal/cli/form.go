package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yildizm/usvote/internal/logger"
	"github.com/yildizm/usvote/internal/ui"
)

func newFormCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive results form",
		Long: `Open the interactive results form.

The form shows the current leader, the seat tally and the election status,
and accepts one state result at a time. While a transaction is pending the
form is disabled and the transaction hash links to the block explorer.

Keys:
  tab/shift+tab, up/down   move between fields and buttons
  enter                    press the focused button or go to the next field
  ctrl+s                   submit the result
  ctrl+e                   end the election
  esc, ctrl+c              quit

Logs are written to output.log_file while the form is open.`,
		Args: cobra.NoArgs,
		RunE: runForm,
	}
}

func runForm(cmd *cobra.Command, args []string) error {
	cfg := GetGlobalConfig()
	ctx := cmd.Context()

	if !ui.SetThemeByName(cfg.UI.Theme) {
		return fmt.Errorf("unknown theme: %s", cfg.UI.Theme)
	}

	// The form owns the terminal, so logs go to a file
	log := newLogger("cli")
	logFile, err := openLogFile(cfg.Output.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if err := logFile.Close(); err != nil && isVerbose() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close log file: %v\n", err)
		}
	}()
	log.SetOutput(logFile)

	notifier := ui.NewProgramNotifier()
	s, err := openSession(ctx, cfg, log, notifier)
	if err != nil {
		return err
	}
	defer s.Close()

	log.InfoWithFields("opening form", []logger.Field{logger.F("session", s.ctrl.SessionID())})

	return ui.FormRun(ctx, s.ctrl, notifier, ui.FormOptions{
		Network:        cfg.Network.Name,
		Contract:       cfg.Contract.Address,
		Explorer:       cfg.Network.ExplorerURL(),
		Hyperlinks:     cfg.Output.Hyperlinks && isColorEnabled(),
		NoticeDuration: cfg.UI.NoticeDuration,
	})
}
