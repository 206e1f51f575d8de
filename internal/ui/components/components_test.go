package components

import (
	"strings"
	"testing"

	"github.com/yildizm/usvote/internal/election"
)

func TestTxURL(t *testing.T) {
	tests := []struct {
		name     string
		explorer string
		hash     string
		want     string
	}{
		{"goerli", "https://goerli.etherscan.io", "0xabc", "https://goerli.etherscan.io/tx/0xabc"},
		{"trailing slash", "https://etherscan.io/", "0xabc", "https://etherscan.io/tx/0xabc"},
		{"no explorer", "", "0xabc", ""},
		{"no hash", "https://etherscan.io", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TxURL(tt.explorer, tt.hash); got != tt.want {
				t.Errorf("TxURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressIndicatorRender(t *testing.T) {
	tests := []struct {
		name       string
		explorer   string
		hyperlinks bool
		hash       string
		want       []string
		notWant    []string
	}{
		{
			name:    "spinner only",
			hash:    "",
			notWant: []string{TxHashLabel},
		},
		{
			name:       "hyperlink",
			explorer:   "https://goerli.etherscan.io",
			hyperlinks: true,
			hash:       "0xabc",
			want:       []string{TxHashLabel, "\x1b]8;;https://goerli.etherscan.io/tx/0xabc", "0xabc"},
		},
		{
			name:     "plain url",
			explorer: "https://goerli.etherscan.io",
			hash:     "0xabc",
			want:     []string{TxHashLabel, "0xabc", "https://goerli.etherscan.io/tx/0xabc"},
			notWant:  []string{"\x1b]8;;"},
		},
		{
			name:       "local chain",
			hyperlinks: true,
			hash:       "0xabc",
			want:       []string{TxHashLabel, "0xabc"},
			notWant:    []string{"/tx/", "\x1b]8;;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgressIndicator(tt.explorer, tt.hyperlinks)
			out := p.Render(tt.hash)

			if !strings.Contains(out, SpinnerFrames[0]) {
				t.Errorf("Expected spinner in %q", out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("Expected %q in %q", want, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("Did not expect %q in %q", nw, out)
				}
			}
		})
	}
}

func TestSpinnerTick(t *testing.T) {
	s := NewSpinner()
	for range len(SpinnerFrames) {
		s.Tick()
	}
	if s.Frame != 0 {
		t.Errorf("Expected spinner to wrap around, got frame %d", s.Frame)
	}

	s.Label = "Ending election..."
	s.Tick()
	if !strings.Contains(s.Render(), SpinnerFrames[1]+" Ending election...") {
		t.Errorf("Unexpected spinner render %q", s.Render())
	}
}

func TestTallySplit(t *testing.T) {
	tests := []struct {
		name  string
		snap  election.Snapshot
		wantA int
		wantB int
	}{
		{"empty", election.Snapshot{}, 0, 0},
		{"even", election.Snapshot{SeatsA: 10, SeatsB: 10}, 10, 10},
		{"one sided", election.Snapshot{SeatsA: 0, SeatsB: 7}, 0, 20},
		{"texas", election.Snapshot{SeatsA: 15, SeatsB: 12}, 11, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := NewTally(20).Split(tt.snap)
			if a != tt.wantA || b != tt.wantB {
				t.Errorf("Split() = %d/%d, want %d/%d", a, b, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestTallyRender(t *testing.T) {
	out := NewTally(10).Render(election.DefaultNames(), election.Snapshot{SeatsA: 15, SeatsB: 12})
	for _, want := range []string{"Biden 15 [", "] 12 Trump"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in %q", want, out)
		}
	}
}
