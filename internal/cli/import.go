package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/logger"
	"github.com/yildizm/usvote/internal/results"
)

var (
	importWatch    bool
	importContinue bool
	importDryRun   bool
)

func newImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Submit every state result in a results file",
		Long: `Submit the state results listed in a YAML file one after another.

Each result waits for its transaction to be mined before the next one is
sent. With --watch the file is re-read whenever it changes and states not
yet submitted in this session are sent. Press Ctrl+C to stop watching.

Examples:
  usvote import results.yaml
  usvote import --watch results.yaml
  usvote import --sample > results.yaml`,
		Args: func(cmd *cobra.Command, args []string) error {
			if f := cmd.Flag("sample"); f != nil && f.Changed {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: runImport,
	}

	cmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "re-read the file on change and submit new states")
	cmd.Flags().BoolVar(&importContinue, "continue-on-error", false, "keep going after a failed submission")
	cmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate the file without sending anything")
	cmd.Flags().Bool("sample", false, "print an example results file")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if sample, _ := cmd.Flags().GetBool("sample"); sample {
		_, err := io.WriteString(out, results.Sample())
		return err
	}

	filename := args[0]
	file, err := results.Load(filename)
	if err != nil {
		return err
	}
	if importDryRun {
		fmt.Fprintf(out, "%s %s: %d state results\n", GetEmoji("success"), filename, len(file.Results))
		return nil
	}

	cfg := GetGlobalConfig()
	ctx := cmd.Context()
	log := newLogger("import")

	s, err := openSession(ctx, cfg, log, newConsoleNotifier(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()

	if isVerbose() {
		s.ctrl.OnChange(newTxPrinter(cmd.ErrOrStderr(), cfg.Network.ExplorerURL()).ViewChanged)
	}

	imp := &importer{
		ctrl:          s.ctrl,
		ledger:        results.NewLedger(),
		log:           log,
		progress:      cmd.ErrOrStderr(),
		stopOnFailure: !importContinue,
	}

	if err := imp.Run(ctx, file.Results); err != nil && !importWatch {
		return err
	}
	if !importWatch {
		printTally(ctx, out, s)
		return nil
	}
	return imp.Watch(ctx, filename)
}

// resultSubmitter is the part of election.Controller the importer drives
type resultSubmitter interface {
	SetDraft(d election.Draft) error
	SubmitResult(ctx context.Context) error
}

// importer submits batch entries that the ledger has not seen yet
type importer struct {
	ctrl          resultSubmitter
	ledger        *results.Ledger
	log           *logger.Logger
	progress      io.Writer
	stopOnFailure bool
}

// Run submits entries sequentially and returns the joined failures
func (imp *importer) Run(ctx context.Context, entries []results.Entry) error {
	pending := imp.ledger.Unsubmitted(entries)
	if len(pending) == 0 {
		imp.log.Debug("no new state results")
		return nil
	}

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetWriter(imp.progress),
		progressbar.OptionSetDescription("Submitting results"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(imp.progress) }),
	)

	var errs []error
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		bar.Describe(fmt.Sprintf("Submitting %-16s", entry.State))

		if err := imp.submit(ctx, entry); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entry.State, err))
			if imp.stopOnFailure {
				break
			}
		}
		if err := bar.Add(1); err != nil {
			imp.log.Debug("progress bar: %v", err)
		}
	}
	return errors.Join(errs...)
}

func (imp *importer) submit(ctx context.Context, entry results.Entry) error {
	if err := imp.ctrl.SetDraft(entry.Draft()); err != nil {
		return err
	}
	if err := imp.ctrl.SubmitResult(ctx); err != nil {
		return err
	}
	imp.ledger.MarkSubmitted(entry.State)
	imp.log.InfoWithFields("state result submitted", []logger.Field{logger.F("state", entry.State)})
	return nil
}

// Watch re-reads filename on every write and submits the new entries until
// ctx is done. The directory is watched so editors that replace the file
// are followed.
func (imp *importer) Watch(ctx context.Context, filename string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			imp.log.Debug("failed to close watcher: %v", err)
		}
	}()

	target := filepath.Clean(filename)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch file: %w", err)
	}
	imp.log.Info("watching %s for new state results", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !isResultsChange(event, target) {
				continue
			}
			imp.reload(ctx, target)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			imp.log.Warn("watcher error: %v", err)
		}
	}
}

func (imp *importer) reload(ctx context.Context, filename string) {
	file, err := results.Load(filename)
	if err != nil {
		// Editors often write in several steps; the next event retries
		imp.log.Warn("skipping unreadable results file: %v", err)
		return
	}
	if err := imp.Run(ctx, file.Results); err != nil {
		imp.log.ErrorWithFields("import failed", []logger.Field{logger.Error(err)})
	}
}

// isResultsChange reports whether event rewrote the watched file
func isResultsChange(event fsnotify.Event, target string) bool {
	if filepath.Clean(event.Name) != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
