package object

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/shpp-lang/shpp/internal/procexec"
	"github.com/shpp-lang/shpp/internal/shpperr"
)

// Cmd wraps a procexec.Job as a first-class value (§3's `cmd` kind):
// the result of a command expression before or after it has been
// launched. Capture mode (backtick/`$()`-style command substitution)
// buffers stdout for ToStr/Iter; non-capture mode just tracks exit
// status.
type Cmd struct {
	base
	Job      *procexec.Job
	Capture  bool
	Output   string // populated by internal/eval after the job completes, when Capture
	Launched bool
}

func NewCmd(job *procexec.Job, capture bool) *Cmd {
	return &Cmd{Job: job, Capture: capture}
}

func (c *Cmd) Kind() Kind            { return KindCmd }
func (c *Cmd) Type() *TypeDescriptor { return CmdType }

func (c *Cmd) ToBool() (bool, error) {
	if c.Job == nil {
		return false, nil
	}
	return c.Job.ExitCode() == 0, nil
}

func (c *Cmd) ToInt() (int64, error) {
	if c.Job == nil {
		return int64(procexec.AbnormalExitSentinel), nil
	}
	return int64(c.Job.ExitCode()), nil
}

func (c *Cmd) ToReal() (float64, error) {
	n, err := c.ToInt()
	return float64(n), err
}

func (c *Cmd) ToStr() (string, error) {
	if !c.Capture {
		return "", shpperr.IncompatibleTypef(Pos{}, "command was not run in capture mode")
	}
	return strings.TrimRight(c.Output, "\n"), nil
}

func (c *Cmd) Print() (string, error) {
	if c.Capture {
		return c.ToStr()
	}
	code, _ := c.ToInt()
	return "<cmd exit " + strconv.Itoa(int(code)) + ">", nil
}

func (c *Cmd) ToCmd() ([]string, error) {
	return nil, shpperr.IncompatibleTypef(Pos{}, "a command result cannot itself appear in command position")
}

// Iter implements iterating a captured command's output line by line —
// the Shell++ analogue of `for line in $(cmd)`.
func (c *Cmd) Iter() (Iterator, error) {
	if !c.Capture {
		return nil, shpperr.IncompatibleTypef(Pos{}, "iterating a command's output requires capture mode")
	}
	return &cmdLineIter{scanner: bufio.NewScanner(strings.NewReader(c.Output))}, nil
}

type cmdLineIter struct {
	scanner *bufio.Scanner
	primed  bool
	done    bool
}

func (it *cmdLineIter) prime() {
	if it.primed {
		return
	}
	it.primed = true
	it.done = !it.scanner.Scan()
}

func (it *cmdLineIter) HasNext() bool {
	it.prime()
	return !it.done
}

func (it *cmdLineIter) Next() (Value, error) {
	it.prime()
	if it.done {
		return nil, shpperr.OutOfRangef(Pos{}, "iterator exhausted")
	}
	line := it.scanner.Text()
	it.done = !it.scanner.Scan()
	return NewStr(line), nil
}
