package eval

import (
	"io"
	"os"

	"github.com/spf13/afero"

	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/procexec"
	"github.com/shpp-lang/shpp/internal/shpperr"
)

// execCommand lowers a CommandStmt pipeline into a procexec.Job and runs
// it (§4.7). The single-stage, single-builtin case runs directly in the
// current process without going through the job-control machinery at
// all: a builtin like cd changes state the parent shell itself must see,
// so it can never run inside a forked/re-exec'd child.
func (e *executor) execCommand(n *ast.CommandStmt) (object.Value, error) {
	if e.in.SuppressCommands {
		return object.NewInt(0), nil
	}
	job, closers, err := e.buildJob(n)
	defer closeAll(closers)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil // handled entirely as an in-process builtin
	}
	if err := e.in.Shell.Launch(job); err != nil {
		return nil, shpperr.InvalidCommandf(n.Position(), "%s", err)
	}
	return object.NewInt(int64(job.ExitCode())), nil
}

// evalCmdExpr implements the `${...}` subshell-capture expression
// (§4.6): capture mode redirects the pipeline's stdout into a buffer and
// returns a *object.Cmd usable as either a string (its captured output)
// or a boolean/int (its exit status).
func (e *executor) evalCmdExpr(n *ast.CmdExpr) (object.Value, error) {
	if e.in.SuppressCommands {
		return object.NewCmd(nil, n.Capture), nil
	}
	stages := pipelineStages(n.Command)

	var pr, pw *os.File
	if n.Capture {
		var err error
		pr, pw, err = os.Pipe()
		if err != nil {
			return nil, shpperr.Customf(n.Position(), "pipe: %s", err)
		}
	}

	job, closers, err := e.buildJobStages(n.Command, stages, pw)
	defer closeAll(closers)
	if err != nil {
		if pw != nil {
			pw.Close()
			pr.Close()
		}
		return nil, err
	}

	cmd := object.NewCmd(job, n.Capture)
	launchErr := e.in.Shell.Launch(job)
	if pw != nil {
		pw.Close()
	}
	if launchErr != nil {
		if pr != nil {
			pr.Close()
		}
		return nil, shpperr.InvalidCommandf(n.Position(), "%s", launchErr)
	}
	if pr != nil {
		out, readErr := io.ReadAll(pr)
		pr.Close()
		if readErr != nil {
			return nil, shpperr.Customf(n.Position(), "reading captured output: %s", readErr)
		}
		cmd.Output = string(out)
	}
	cmd.Launched = true
	return cmd, nil
}

// pipelineStages returns head's pipeline as a flat, ordered stage list;
// a CommandStmt with no explicit Pipeline is itself the sole stage.
func pipelineStages(head *ast.CommandStmt) []*ast.CommandStmt {
	if len(head.Pipeline) > 0 {
		return head.Pipeline
	}
	return []*ast.CommandStmt{head}
}

func (e *executor) buildJob(head *ast.CommandStmt) (*procexec.Job, []afero.File, error) {
	stages := pipelineStages(head)

	if len(stages) == 1 {
		argv, err := e.resolveWords(stages[0].Words)
		if err != nil {
			return nil, nil, err
		}
		if len(argv) == 0 {
			return nil, nil, shpperr.InvalidCommandf(head.Position(), "empty command")
		}
		if builtin, ok := e.in.Builtins[argv[0]]; ok {
			return nil, nil, e.runBuiltinInline(head, builtin, argv)
		}
	}

	return e.buildJobStages(head, stages, nil)
}

// runBuiltinInline runs a builtin directly against the shell's own
// stdio/redirects, without a procexec.Job — builtins mutate interpreter
// state (cwd, environment) that only makes sense in the parent process.
func (e *executor) runBuiltinInline(head *ast.CommandStmt, builtin procexec.BuiltinCommand, argv []string) error {
	stdin, stdout, stderr, closers, err := e.resolveStdio(head.Redirects)
	defer closeAll(closers)
	if err != nil {
		return err
	}
	builtin(stdin, stdout, stderr, argv)
	return nil
}

// buildJobStages resolves every stage's argv and the final stage's
// redirects into a ready-to-launch Job. The returned closers must be
// closed by the caller once the job has finished launching (deferred
// past the Shell.Launch call, not before it).
func (e *executor) buildJobStages(head *ast.CommandStmt, stages []*ast.CommandStmt, captureStdout *os.File) (*procexec.Job, []afero.File, error) {
	job := &procexec.Job{Foreground: !head.Background}

	stdin, stdout, stderr, closers, err := e.resolveStdio(stages[len(stages)-1].Redirects)
	if err != nil {
		return nil, closers, err
	}
	job.Stdin, job.Stdout, job.Stderr = stdin, stdout, stderr
	if captureStdout != nil {
		job.Stdout = captureStdout
	}

	for _, stage := range stages {
		argv, err := e.resolveWords(stage.Words)
		if err != nil {
			return nil, closers, err
		}
		if len(argv) == 0 {
			return nil, closers, shpperr.InvalidCommandf(stage.Position(), "empty command")
		}
		proc, err := e.resolveProcess(stage, argv)
		if err != nil {
			return nil, closers, err
		}
		job.Processes = append(job.Processes, proc)
	}
	return job, closers, nil
}

func (e *executor) resolveProcess(stage *ast.CommandStmt, argv []string) (*procexec.Process, error) {
	name := argv[0]
	if fn, ok := e.in.userCommands[name]; ok {
		return &procexec.Process{Argv: argv, Kind: procexec.ProcUserDefined, Path: name, User: fn}, nil
	}
	if _, ok := e.in.Builtins[name]; ok {
		return nil, shpperr.InvalidCommandf(stage.Position(), "%q is a builtin and cannot appear inside a pipeline", name)
	}
	path, err := procexec.LookPath(e.in.pathEnv(), name)
	if err != nil {
		return nil, shpperr.InvalidCommandf(stage.Position(), "%s", err)
	}
	return &procexec.Process{Argv: argv, Kind: procexec.ProcExternal, Path: path}, nil
}

// resolveWords expands a command word list into argv: literal words pass
// through verbatim; interpolated words evaluate their expression and
// splice in every string its ToCmd() contributes (so an array value can
// expand to several argv words from one interpolation site).
func (e *executor) resolveWords(words []ast.CommandWord) ([]string, error) {
	var argv []string
	for _, w := range words {
		if w.Interp == nil {
			argv = append(argv, w.Literal)
			continue
		}
		v, err := e.evalExpr(w.Interp)
		if err != nil {
			return nil, err
		}
		c, ok := v.(interface{ ToCmd() ([]string, error) })
		if !ok {
			return nil, shpperr.IncompatibleTypef(w.Interp.Position(), "%s cannot be spliced into a command", v.Kind())
		}
		words, err := c.ToCmd()
		if err != nil {
			return nil, err
		}
		argv = append(argv, words...)
	}
	return argv, nil
}

func (e *executor) resolveRedirectPath(target []ast.CommandWord) (string, error) {
	words, err := e.resolveWords(target)
	if err != nil {
		return "", err
	}
	path := ""
	for _, w := range words {
		path += w
	}
	return path, nil
}

// resolveStdio opens the last pipeline stage's redirects against the
// interpreter's filesystem, defaulting to the process's own stdio for any
// stream left unredirected.
func (e *executor) resolveStdio(redirects []ast.Redirect) (stdin, stdout, stderr *os.File, closers []afero.File, err error) {
	stdin, stdout, stderr = os.Stdin, os.Stdout, os.Stderr
	for _, r := range redirects {
		path, perr := e.resolveRedirectPath(r.Target)
		if perr != nil {
			return nil, nil, nil, closers, perr
		}
		kind, kerr := redirectKind(r.Kind)
		if kerr != nil {
			return nil, nil, nil, closers, kerr
		}
		f, oerr := procexec.OpenRedirect(e.in.Fs, procexec.Redirection{Kind: kind, Path: path})
		if oerr != nil {
			return nil, nil, nil, closers, shpperr.InvalidCommandf(ast.Pos{}, "%s: %s", path, oerr)
		}
		closers = append(closers, f)
		osFile, ok := procexec.AsOSFile(f)
		if !ok {
			return nil, nil, nil, closers, shpperr.InvalidCommandf(ast.Pos{}, "%s: redirection requires a real filesystem", path)
		}
		switch kind {
		case procexec.RedirectIn:
			stdin = osFile
		case procexec.RedirectErr:
			stderr = osFile
		case procexec.RedirectOutErr:
			stdout, stderr = osFile, osFile
		default:
			stdout = osFile
		}
	}
	return stdin, stdout, stderr, closers, nil
}

func redirectKind(sym string) (procexec.RedirectKind, error) {
	switch sym {
	case ">":
		return procexec.RedirectOut, nil
	case ">>":
		return procexec.RedirectAppend, nil
	case "<":
		return procexec.RedirectIn, nil
	case "2>":
		return procexec.RedirectErr, nil
	case "&>":
		return procexec.RedirectOutErr, nil
	default:
		return 0, shpperr.InvalidCommandf(ast.Pos{}, "unknown redirection %q", sym)
	}
}

func closeAll(files []afero.File) {
	for _, f := range files {
		if f != nil {
			f.Close()
		}
	}
}
