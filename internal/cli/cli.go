// Package cli implements shpp's non-interactive entry point: parse and
// run a single script file, then exit with its final status.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/builtins"
	"github.com/shpp-lang/shpp/internal/config"
	"github.com/shpp-lang/shpp/internal/eval"
	"github.com/shpp-lang/shpp/internal/procexec"
	"github.com/shpp-lang/shpp/internal/runlog"
)

// RunFile reads path, parses it with parser, and runs it to completion,
// returning the process exit code (§6: "shpp <file> -> execute and exit
// with the script's final status").
func RunFile(parser ast.Parser, opts *config.Options, path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: %s\n", err)
		return 1
	}

	prog, err := parser.Parse(string(source))
	if err != nil {
		printErr(opts, err)
		return 1
	}

	in, err := newInterp(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: %s\n", err)
		return 1
	}
	in.Shell.ScriptPath = path
	in.Env.Set("0", path)
	builtins.Register(in)

	closeLog := setupRunLog(opts)
	defer closeLog()

	if err := in.Run(prog); err != nil {
		printErr(opts, err)
		return 1
	}
	if in.ExitRequested {
		return in.ExitCode
	}
	return 0
}

// PrimeReexecInterp rebuilds the UserCommandRegistry a re-exec'd child
// needs by re-parsing and re-running scriptPath with command execution
// suppressed (see eval.Interp.SuppressCommands): function/class
// declarations and assignments still happen, but no external process is
// launched and no side-effecting command runs a second time.
func PrimeReexecInterp(parser ast.Parser, scriptPath string) (*eval.Interp, error) {
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, err
	}
	prog, err := parser.Parse(string(source))
	if err != nil {
		return nil, err
	}
	in, err := newInterp(false)
	if err != nil {
		return nil, err
	}
	in.SuppressCommands = true
	if err := in.Run(prog); err != nil {
		return nil, err
	}
	return in, nil
}

// NewInteractiveInterp builds an Interp configured for an interactive
// session (job control enabled) with every builtin registered, for
// internal/repl to drive. The returned closer flushes and releases any
// run-log file opts.RunLog names; callers must defer it.
func NewInteractiveInterp(opts *config.Options) (*eval.Interp, func(), error) {
	in, err := newInterp(true)
	if err != nil {
		return nil, nil, err
	}
	builtins.Register(in)
	closeLog := setupRunLog(opts)
	return in, closeLog, nil
}

// setupRunLog wires eval.SetLogDeferHook to an internal/runlog session
// writing to opts.RunLog, when set. Returns a no-op closer if run logging
// is disabled or the log file can't be opened.
func setupRunLog(opts *config.Options) func() {
	if opts == nil || opts.RunLog == "" {
		return func() {}
	}
	f, err := os.OpenFile(opts.RunLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: run log: %s\n", err)
		return func() {}
	}
	session := runlog.NewJsonLinesLogRecorder(f).NewSession("")
	eval.SetLogDeferHook(func(err error) {
		_ = session.RuntimeError(&runlog.RuntimeErrorEvent{Message: err.Error()})
	})
	return func() {
		eval.SetLogDeferHook(nil)
		_ = f.Close()
	}
}

func newInterp(interactive bool) (*eval.Interp, error) {
	shell, err := procexec.NewShell(interactive)
	if err != nil {
		return nil, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	env := eval.NewEnviron(os.Environ(), cwd)
	return eval.NewInterp(shell, env)
}

func printErr(opts *config.Options, err error) {
	c := color.New(color.FgRed, color.Bold)
	if opts != nil && opts.NoColor {
		c.DisableColor()
	}
	fmt.Fprintln(os.Stderr, c.Sprintf("%s", err))
}
