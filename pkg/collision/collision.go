// Package collision decides the fate of a pre-existing installation at
// the resolved target. The decision itself is a pure function over the
// plan's flags; the interactive answer comes through a Prompter adapter
// so the state machine is testable without a terminal.
//
// Nothing is ever deleted without either --force or an explicit
// interactive yes: every abort path leaves the target byte-identical to
// its pre-run state.
package collision

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/offlinekit/airlift/pkg/plan"
	"github.com/offlinekit/airlift/pkg/runlog"
)

// Error kinds surfaced by collision handling. Both are fatal.
var (
	ErrExistingInstallation = errors.New("existing installation at target")
	ErrUserCancelled        = errors.New("cancelled by user")
)

// Action is the outcome of the pure decision step.
type Action int

const (
	// Proceed means nothing occupies the target.
	Proceed Action = iota
	// Replace means delete the existing install, then proceed.
	Replace
	// AbortExisting means refuse: existing install, non-interactive,
	// and no --force.
	AbortExisting
	// Ask means an interactive confirmation decides between Replace
	// and cancellation.
	Ask
)

// Decide is the collision state machine. It performs no I/O.
func Decide(exists, force, silent bool) Action {
	switch {
	case !exists:
		return Proceed
	case force:
		return Replace
	case silent:
		return AbortExisting
	default:
		return Ask
	}
}

// Prompter supplies the interactive answer for the Ask action.
type Prompter interface {
	// Confirm asks a yes/no question. Anything but an affirmative
	// answer counts as no.
	Confirm(question string) (bool, error)
}

// Resolve applies the decision to the filesystem. On return without
// error the target is free for the installer runner; on error the
// target is untouched.
func Resolve(p *plan.InstallPlan, prompter Prompter, log *runlog.Log) error {
	exists := Exists(p.Target)

	action := Decide(exists, p.Force, p.Silent)
	log.Debugf("collision: target=%s exists=%v force=%v silent=%v", p.Target, exists, p.Force, p.Silent)

	switch action {
	case Proceed:
		return nil

	case AbortExisting:
		return fmt.Errorf("checking target: %w: %s (re-run with --force to replace it)",
			ErrExistingInstallation, p.Target)

	case Ask:
		if prompter == nil {
			prompter = NewTerminalPrompter(os.Stdin, os.Stderr)
		}
		ok, err := prompter.Confirm(fmt.Sprintf("An installation already exists at %s. Delete it and continue?", p.Target))
		if err != nil {
			return fmt.Errorf("checking target: %w: %v", ErrUserCancelled, err)
		}
		if !ok {
			log.Infof("user declined to replace existing installation at %s", p.Target)
			return fmt.Errorf("checking target: %w", ErrUserCancelled)
		}
		fallthrough

	case Replace:
		log.Warnf("removing existing installation at %s", p.Target)
		if err := os.RemoveAll(p.Target); err != nil {
			return fmt.Errorf("removing existing installation: %w", err)
		}
		return nil
	}

	return nil
}

// Exists reports whether something occupies the target. An empty
// directory does not count: the installer runner can use it.
func Exists(target string) bool {
	info, err := os.Stat(target)
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	entries, err := os.ReadDir(target)
	if err != nil {
		return true
	}
	return len(entries) > 0
}

// TerminalPrompter answers Ask actions from an input stream.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter builds a prompter reading answers from in and
// writing questions to out.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// Confirm prints the question and reads one line. Only "y" or "yes"
// (case-insensitive) count as affirmative.
func (t *TerminalPrompter) Confirm(question string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", question)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
