package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/yildizm/usvote/internal/config"
	"github.com/yildizm/usvote/internal/contract"
	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/logger"
	"github.com/yildizm/usvote/internal/monitor"
)

// session is one connected Controller with its collaborators
type session struct {
	cfg     *config.Config
	log     *logger.Logger
	client  *contract.Client
	ctrl    *election.Controller
	metrics *monitor.Session
}

// newLogger creates the CLI logger, gated by --verbose
func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}

// openSession dials the node and builds a Controller reporting to notifier
func openSession(ctx context.Context, cfg *config.Config, log *logger.Logger, notifier election.Notifier) (*session, error) {
	client, err := contract.Dial(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	metrics := monitor.NewSession()
	ctrl, err := election.NewController(client, controllerOptions(cfg, log, notifier, metrics))
	if err != nil {
		client.Close()
		return nil, err
	}

	return &session{
		cfg:     cfg,
		log:     log,
		client:  client,
		ctrl:    ctrl,
		metrics: metrics,
	}, nil
}

// controllerOptions maps configuration onto Controller options
func controllerOptions(cfg *config.Config, log *logger.Logger, notifier election.Notifier, rec election.Recorder) election.Options {
	opts := election.DefaultOptions()
	opts.Notifier = notifier
	opts.Logger = log
	opts.Recorder = rec
	opts.Names = election.Names{A: cfg.Election.CandidateA, B: cfg.Election.CandidateB}
	opts.DedupeWindow = cfg.Election.DedupeWindow
	opts.RecentResults = cfg.Election.RecentResults
	opts.ValidateBeforeSubmit = cfg.Form.ValidateBeforeSubmit
	opts.CallTimeout = cfg.Contract.CallTimeout
	opts.WaitTimeout = cfg.Contract.WaitTimeout
	return opts
}

// Close releases the subscription and the node connection
func (s *session) Close() {
	s.ctrl.Unmount()
	s.client.Close()
	if isVerbose() {
		s.log.Debug("session closed: %s", s.metrics.Summary())
	}
}

// openLogFile opens the log destination used while the form owns the terminal
func openLogFile(path string) (io.WriteCloser, error) {
	path = config.ExpandPath(path)
	if path == "" {
		return nil, fmt.Errorf("no log file configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	// #nosec G304 - path comes from configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
