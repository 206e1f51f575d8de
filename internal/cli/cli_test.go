package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/go-cmp/cmp"

	"github.com/yildizm/usvote/internal/config"
	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/emoji"
	"github.com/yildizm/usvote/internal/logger"
	"github.com/yildizm/usvote/internal/results"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		globalConfig = nil
		emoji.SetEmojiDisabled(false)
	})

	var out bytes.Buffer
	cmd := NewRootCommand("1.2.3", "abc123", "2020-11-03")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeRoot(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "usvote 1.2.3 (abc123) built on 2020-11-03") {
		t.Errorf("Unexpected version output %q", out)
	}
}

func TestConfigInitCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{"full", nil, config.SampleConfig(), false},
		{"minimal", []string{"--minimal"}, config.MinimalSampleConfig(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "usvote.yaml")
			args := append([]string{"config", "init", "--no-emoji", "--output", path}, tt.args...)

			out, err := executeRoot(t, args...)
			if err != nil {
				t.Fatalf("config init failed: %v", err)
			}
			if !strings.Contains(out, "[OK] Configuration file created at: "+path) {
				t.Errorf("Unexpected output %q", out)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("Failed to read config: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(data)); diff != "" {
				t.Errorf("Config mismatch (-want +got):\n%s", diff)
			}

			if _, err := executeRoot(t, "config", "init", "--output", path); err == nil {
				t.Error("Expected error when the file exists without --force")
			}
		})
	}
}

func TestConfigValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(good, []byte(config.MinimalSampleConfig()), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("contract:\n  address: nope\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("USVOTE_WALLET_PRIVATE_KEY", "")

	out, err := executeRoot(t, "config", "validate", "--no-emoji", "--config", good)
	if err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}
	for _, want := range []string{"Configuration is valid", "Network: goerli", "Explorer: https://goerli.etherscan.io", "Candidates: Biden, Trump"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}

	if _, err := executeRoot(t, "config", "validate", "--config", bad); err == nil {
		t.Error("Expected invalid contract address to fail validation")
	}
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usvote.yaml")
	content := config.MinimalSampleConfig() + "wallet:\n  private_key: \"0xdeadbeef\"\n  passphrase: hunter2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := executeRoot(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if strings.Contains(out, "deadbeef") || strings.Contains(out, "hunter2") {
		t.Errorf("Expected secrets to be redacted:\n%s", out)
	}
	if !strings.Contains(out, "private_key: '********'") && !strings.Contains(out, `private_key: "********"`) {
		t.Errorf("Expected masked private key:\n%s", out)
	}
}

func TestControllerOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Election.CandidateA = "Adams"
	cfg.Election.CandidateB = "Jefferson"
	cfg.Election.DedupeWindow = 64
	cfg.Election.RecentResults = 3
	cfg.Form.ValidateBeforeSubmit = true
	cfg.Contract.CallTimeout = 2 * time.Second
	cfg.Contract.WaitTimeout = time.Minute

	opts := controllerOptions(cfg, logger.Nop(), nil, nil)

	if opts.Names != (election.Names{A: "Adams", B: "Jefferson"}) {
		t.Errorf("Unexpected names %+v", opts.Names)
	}
	if opts.DedupeWindow != 64 || opts.RecentResults != 3 || !opts.ValidateBeforeSubmit {
		t.Errorf("Unexpected election options %+v", opts)
	}
	if opts.CallTimeout != 2*time.Second || opts.WaitTimeout != time.Minute {
		t.Errorf("Unexpected timeouts %v/%v", opts.CallTimeout, opts.WaitTimeout)
	}
}

func TestConsoleNotifier(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })

	var out bytes.Buffer
	n := newConsoleNotifier(&out)
	n.Success("Results for Ohio submitted")
	n.Error("execution reverted")

	want := "[OK] Results for Ohio submitted\n[ERR] execution reverted\n"
	if out.String() != want {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestTxPrinter(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })

	tests := []struct {
		name     string
		explorer string
		want     string
	}{
		{"explorer", "https://goerli.etherscan.io", "[...] Current transaction hash: 0xabc\n   [URL] https://goerli.etherscan.io/tx/0xabc\n"},
		{"local chain", "", "[...] Current transaction hash: 0xabc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := newTxPrinter(&out, tt.explorer)

			p.ViewChanged(election.View{Submission: election.Submission{Pending: true}})
			p.ViewChanged(election.View{Submission: election.Submission{Pending: true, TxRef: "0xabc"}})
			p.ViewChanged(election.View{Submission: election.Submission{Pending: true, TxRef: "0xabc"}})
			p.ViewChanged(election.View{Submission: election.Submission{TxRef: "0xabc"}})

			if out.String() != tt.want {
				t.Errorf("Unexpected output %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestTallyStream(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })

	var out bytes.Buffer
	now := func() time.Time { return time.Date(2020, 11, 3, 21, 4, 5, 0, time.UTC) }
	stream := newTallyStream(&out, election.DefaultNames(), now)

	initial := election.View{Snapshot: election.Snapshot{Leader: election.CandidateB, SeatsA: 10, SeatsB: 12}}
	stream.ViewChanged(initial)
	stream.ViewChanged(initial)

	texas := election.StateResultEvent{Winner: election.CandidateA, Seats: 5, State: "Texas", Ref: election.EventRef{TxHash: "0x1"}}
	stream.ViewChanged(election.View{
		Snapshot: election.Snapshot{Leader: election.CandidateA, SeatsA: 15, SeatsB: 12},
		Recent:   []election.StateResultEvent{texas},
	})
	stream.ViewChanged(election.View{
		Snapshot: election.Snapshot{Leader: election.CandidateA, SeatsA: 15, SeatsB: 12, Status: election.Ended},
		Recent:   []election.StateResultEvent{texas},
	})

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"[21:04:05] Biden 10 vs 12 Trump | leader: Trump",
		"[21:04:05] [ST] Texas → Biden +5 | Biden 15 vs 12 Trump | leader: Biden",
		"[21:04:05] [END] election ended | Biden 15 vs 12 Trump | leader: Biden | ended",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Stream mismatch (-want +got):\n%s", diff)
	}
}

// racingSource applies an event whenever View is read, as if it landed
// while the stream was starting.
type racingSource struct {
	view      election.View
	next      election.View
	observers []func(election.View)
}

func (r *racingSource) OnChange(fn func(election.View)) {
	r.observers = append(r.observers, fn)
}

func (r *racingSource) View() election.View {
	current := r.view
	r.view = r.next
	for _, fn := range r.observers {
		fn(r.view)
	}
	return current
}

func TestTallyStreamFollowKeepsEarlyEvents(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	t.Cleanup(func() { emoji.SetEmojiDisabled(false) })

	var out bytes.Buffer
	now := func() time.Time { return time.Date(2020, 11, 3, 21, 4, 5, 0, time.UTC) }
	stream := newTallyStream(&out, election.DefaultNames(), now)

	texas := election.StateResultEvent{Winner: election.CandidateA, Seats: 5, State: "Texas", Ref: election.EventRef{TxHash: "0x1"}}
	src := &racingSource{
		view: election.View{Snapshot: election.Snapshot{Leader: election.CandidateB, SeatsA: 10, SeatsB: 12}},
		next: election.View{
			Snapshot: election.Snapshot{Leader: election.CandidateA, SeatsA: 15, SeatsB: 12},
			Recent:   []election.StateResultEvent{texas},
		},
	}
	stream.follow(src)

	if !strings.Contains(out.String(), "Texas → Biden +5 | Biden 15 vs 12 Trump") {
		t.Errorf("Expected the early Texas result in the stream, got:\n%s", out.String())
	}
}

type fakeSubmitter struct {
	fail      map[string]error
	drafts    []election.Draft
	submitted []string
	current   election.Draft
}

func (f *fakeSubmitter) SetDraft(d election.Draft) error {
	f.current = d
	f.drafts = append(f.drafts, d)
	return nil
}

func (f *fakeSubmitter) SubmitResult(context.Context) error {
	if err := f.fail[f.current.StateName]; err != nil {
		return err
	}
	f.submitted = append(f.submitted, f.current.StateName)
	return nil
}

func newTestImporter(sub *fakeSubmitter, stopOnFailure bool) *importer {
	return &importer{
		ctrl:          sub,
		ledger:        results.NewLedger(),
		log:           logger.Nop(),
		progress:      &bytes.Buffer{},
		stopOnFailure: stopOnFailure,
	}
}

func TestImporterRun(t *testing.T) {
	entries := []results.Entry{
		{State: "Ohio", VotesA: 100, VotesB: 90, Seats: 18},
		{State: "Texas", VotesA: 5, VotesB: 3, Seats: 38},
		{State: "Utah", VotesA: 1, VotesB: 2, Seats: 6},
	}
	errReverted := errors.New("execution reverted")

	tests := []struct {
		name          string
		stopOnFailure bool
		fail          map[string]error
		wantSubmitted []string
		wantErr       bool
	}{
		{"all succeed", true, nil, []string{"Ohio", "Texas", "Utah"}, false},
		{"stop on failure", true, map[string]error{"Texas": errReverted}, []string{"Ohio"}, true},
		{"continue on failure", false, map[string]error{"Texas": errReverted}, []string{"Ohio", "Utah"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{fail: tt.fail}
			imp := newTestImporter(sub, tt.stopOnFailure)

			err := imp.Run(context.Background(), entries)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errReverted) {
				t.Errorf("Expected joined error to wrap the failure, got %v", err)
			}
			if diff := cmp.Diff(tt.wantSubmitted, sub.submitted); diff != "" {
				t.Errorf("Submitted mismatch (-want +got):\n%s", diff)
			}
			if imp.ledger.Len() != len(tt.wantSubmitted) {
				t.Errorf("Expected ledger to hold %d states, got %d", len(tt.wantSubmitted), imp.ledger.Len())
			}
		})
	}
}

func TestImporterSkipsSubmittedStates(t *testing.T) {
	sub := &fakeSubmitter{}
	imp := newTestImporter(sub, true)
	ctx := context.Background()

	if err := imp.Run(ctx, []results.Entry{{State: "Ohio", Seats: 18}}); err != nil {
		t.Fatal(err)
	}
	if err := imp.Run(ctx, []results.Entry{{State: "ohio ", Seats: 18}, {State: "Texas", Seats: 38}}); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"Ohio", "Texas"}, sub.submitted); diff != "" {
		t.Errorf("Submitted mismatch (-want +got):\n%s", diff)
	}
}

func TestImporterStopsWhenCancelled(t *testing.T) {
	sub := &fakeSubmitter{}
	imp := newTestImporter(sub, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := imp.Run(ctx, []results.Entry{{State: "Ohio", Seats: 18}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(sub.drafts) != 0 {
		t.Errorf("Expected nothing to be sent, got %d drafts", len(sub.drafts))
	}
}

func TestIsResultsChange(t *testing.T) {
	target := filepath.Join("data", "results.yaml")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: target, Op: fsnotify.Write}, true},
		{"replace", fsnotify.Event{Name: "data/./results.yaml", Op: fsnotify.Create}, true},
		{"chmod", fsnotify.Event{Name: target, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: filepath.Join("data", "other.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isResultsChange(tt.event, target); got != tt.want {
				t.Errorf("isResultsChange() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImportDryRunAndSample(t *testing.T) {
	out, err := executeRoot(t, "import", "--sample")
	if err != nil {
		t.Fatalf("import --sample failed: %v", err)
	}
	if out != results.Sample() {
		t.Errorf("Unexpected sample output %q", out)
	}

	path := filepath.Join(t.TempDir(), "results.yaml")
	if err := os.WriteFile(path, []byte(results.Sample()), 0o600); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(t.TempDir(), "usvote.yaml")
	if err := os.WriteFile(cfgPath, []byte(config.MinimalSampleConfig()), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err = executeRoot(t, "import", "--dry-run", "--no-emoji", "--config", cfgPath, path)
	if err != nil {
		t.Fatalf("import --dry-run failed: %v", err)
	}
	if !strings.Contains(out, "[OK] "+path+": 2 state results") {
		t.Errorf("Unexpected dry run output %q", out)
	}
}

func TestRedactWallet(t *testing.T) {
	got := redactWallet(config.WalletConfig{PrivateKey: "0x01", Keystore: "/k", Passphrase: "p"})
	want := config.WalletConfig{PrivateKey: "********", Keystore: "/k", Passphrase: "********"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redacted wallet mismatch (-want +got):\n%s", diff)
	}
	if redactWallet(config.WalletConfig{}) != (config.WalletConfig{}) {
		t.Error("Expected empty wallet to stay empty")
	}
}
