// Package results reads batch state result files for `usvote import`.
package results

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yildizm/usvote/internal/election"
)

// Entry is one state result in a batch file
type Entry struct {
	State  string `yaml:"state"`
	VotesA uint64 `yaml:"votes_a"`
	VotesB uint64 `yaml:"votes_b"`
	Seats  uint64 `yaml:"seats"`
}

// Draft converts the entry to a form draft
func (e Entry) Draft() election.Draft {
	return election.Draft{
		StateName: e.State,
		VotesA:    e.VotesA,
		VotesB:    e.VotesB,
		Seats:     e.Seats,
	}
}

// File is a batch of state results
type File struct {
	Version string  `yaml:"version"`
	Results []Entry `yaml:"results"`
}

// Load reads and parses a batch file
func Load(path string) (*File, error) {
	// #nosec G304 - path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses a batch file and checks every entry
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	seen := make(map[string]int, len(f.Results))
	for i, e := range f.Results {
		if strings.TrimSpace(e.State) == "" {
			return nil, fmt.Errorf("result %d: state is required", i+1)
		}
		if e.Seats == 0 || e.Seats > 255 {
			return nil, fmt.Errorf("result %d (%s): seats must be between 1 and 255", i+1, e.State)
		}
		key := stateKey(e.State)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("result %d (%s): duplicate of result %d", i+1, e.State, prev)
		}
		seen[key] = i + 1
	}

	return &f, nil
}

func stateKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Ledger remembers which states were submitted during this session
type Ledger struct {
	mu        sync.Mutex
	submitted map[string]bool
}

// NewLedger creates an empty Ledger
func NewLedger() *Ledger {
	return &Ledger{submitted: make(map[string]bool)}
}

// Unsubmitted returns the entries whose state has not been submitted yet
func (l *Ledger) Unsubmitted(entries []Entry) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Entry
	for _, e := range entries {
		if !l.submitted[stateKey(e.State)] {
			out = append(out, e)
		}
	}
	return out
}

// MarkSubmitted records a submitted state
func (l *Ledger) MarkSubmitted(state string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.submitted[stateKey(state)] = true
}

// Len returns how many states were submitted
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.submitted)
}

// Sample returns an example batch file
func Sample() string {
	return `version: "1.0"
results:
  - state: Ohio
    votes_a: 2679165
    votes_b: 3154834
    seats: 18
  - state: Texas
    votes_a: 5259126
    votes_b: 5890347
    seats: 38
`
}
