package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
)

// Prompter asks yes/no questions on a terminal. Only "y" or "yes"
// (any case) approve; anything else, including end of input, declines.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// pending is a read left running by a canceled Confirm. The next
	// Confirm takes its answer so only one goroutine ever reads in.
	pending chan answer
}

var _ reconcile.Confirmer = (*Prompter)(nil)

// NewPrompter reads answers from in and writes questions to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

type answer struct {
	line string
	err  error
}

// Confirm implements reconcile.Confirmer
func (p *Prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "\n%s (yes/no): ", prompt)

	ch := p.pending
	if ch == nil {
		ch = make(chan answer, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- answer{line, err}
		}()
	}

	select {
	case <-ctx.Done():
		p.pending = ch
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case a := <-ch:
		p.pending = nil
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", a.err)
		}
		if errors.Is(a.err, io.EOF) && a.line == "" {
			fmt.Fprintln(p.out)
		}
		return IsYes(a.line), nil
	}
}

// IsYes reports whether an answer approves
func IsYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}

// canPrompt reports whether answers can come from in. A file that is not a
// terminal (a pipe, /dev/null) cannot answer; other readers are scripted input.
func canPrompt(in io.Reader) bool {
	if f, ok := in.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return in != nil
}

// ChooseConfirmer picks how mutation phases are approved: --yes and
// --dry-run approve everything, an interactive input is asked, anything
// else declines
func ChooseConfirmer(yes, dryRun bool, in io.Reader, out io.Writer) reconcile.Confirmer {
	switch {
	case yes || dryRun:
		return reconcile.AutoConfirm{}
	case canPrompt(in):
		return NewPrompter(in, out)
	default:
		return reconcile.DeclineAll{}
	}
}
