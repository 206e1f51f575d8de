package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/ui/components"
)

// consoleNotifier prints controller notifications as lines
type consoleNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

var _ election.Notifier = (*consoleNotifier)(nil)

func newConsoleNotifier(out io.Writer) *consoleNotifier {
	return &consoleNotifier{out: out}
}

func (n *consoleNotifier) Success(msg string) {
	n.println(GetEmoji("success"), msg)
}

func (n *consoleNotifier) Error(msg string) {
	n.println(GetEmoji("error"), msg)
}

func (n *consoleNotifier) println(symbol, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "%s %s\n", symbol, msg)
}

// txPrinter prints each new pending transaction hash once, with its
// explorer URL when the network has one.
type txPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	explorer string
	last     string
}

func newTxPrinter(out io.Writer, explorer string) *txPrinter {
	return &txPrinter{out: out, explorer: explorer}
}

// ViewChanged is registered with Controller.OnChange
func (p *txPrinter) ViewChanged(v election.View) {
	ref := v.Submission.TxRef
	if !v.Submission.Pending || ref == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if ref == p.last {
		return
	}
	p.last = ref

	fmt.Fprintf(p.out, "%s %s %s\n", GetEmoji("pending"), components.TxHashLabel, ref)
	if url := components.TxURL(p.explorer, ref); url != "" {
		fmt.Fprintf(p.out, "   %s %s\n", GetEmoji("link"), url)
	}
}
