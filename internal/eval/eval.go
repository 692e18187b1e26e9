// Package eval implements Shell++'s tree-walking Evaluator (§4.6): nested
// executors over a symbol-table stack, control-flow propagation for
// return/break/continue, LIFO defer replay, and closures.
//
// Grounded on original_source/src/interpreter/{scope-executor.h,
// expr-executor.h} for the executor-nesting shape, and on the teacher's
// core/shell.go for how a REPL front end drives one top-level Run call
// per parsed chunk.
package eval

import (
	"io"

	"github.com/spf13/afero"

	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/globexpand"
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/procexec"
	"github.com/shpp-lang/shpp/internal/scope"
	"github.com/shpp-lang/shpp/internal/shpperr"
	"github.com/shpp-lang/shpp/internal/types"
)

// signalKind distinguishes the control-flow primitives §4.6 requires
// block executors to honor.
type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
	sigBreak
	sigContinue
)

// signal is the Go-idiomatic substitute for §4.6's "StopFlag [that]
// propagates upward from the innermost executor until caught by the
// matching frame": rather than panic/recover, exec* functions return a
// *signal alongside the usual error, and callers check it after every
// nested exec call, exactly the way a Monkey-style tree-walker threads a
// ReturnValue wrapper back up the call stack.
type signal struct {
	kind  signalKind
	value object.Value // payload for sigReturn
}

// Interp owns everything one running Shell++ process needs: the root
// scope, the process's job-control shell, and the environment used to
// resolve commands.
type Interp struct {
	Root  *scope.Stack
	Shell *procexec.Shell
	Env   *Environ

	// GlobExpand is the glob-expansion collaborator (§1's "external
	// collaborators"): given a pattern and whether it's a recursive
	// %%pattern%% glob, it returns the matching paths. Defaults to
	// internal/globexpand.Expand; exposed for tests to stub out.
	GlobExpand func(cwd, pattern string, recurse bool) ([]string, error)

	// Fs backs redirection I/O (afero.NewOsFs() in production,
	// afero.NewMemMapFs() in tests).
	Fs afero.Fs

	// Builtins holds commands that must run in the parent process itself
	// (cd, export, exit, ...) rather than through procexec.Job, keyed by
	// command name. internal/builtins populates this.
	Builtins map[string]procexec.BuiltinCommand

	// SuppressCommands makes execCommand/evalCmdExpr no-ops instead of
	// launching anything. Set by a re-exec'd child's priming pass, which
	// re-runs a script only to re-declare its functions (rebuilding
	// userCommands) without repeating the script's actual side effects.
	SuppressCommands bool

	// ExitRequested and ExitCode let the exit builtin end a REPL session
	// or script run without the interpreter itself owning process
	// lifetime: internal/builtins sets these, internal/repl checks them
	// before reading each new chunk and internal/cli after Run returns.
	// Run itself does not check them, so statements after exit in the
	// same Run still execute.
	ExitRequested bool
	ExitCode      int

	userCommands map[string]procexec.UserCommand
}

// NewInterp builds a fresh interpreter with every built-in type
// registered in the root scope (§4.3).
func NewInterp(shell *procexec.Shell, env *Environ) (*Interp, error) {
	root := scope.NewStack()
	if err := types.Register(root); err != nil {
		return nil, err
	}
	return &Interp{
		Root:         root,
		Shell:        shell,
		Env:          env,
		GlobExpand:   globexpand.Expand,
		Fs:           afero.NewOsFs(),
		Builtins:     map[string]procexec.BuiltinCommand{},
		userCommands: map[string]procexec.UserCommand{},
	}, nil
}

// pathEnv returns the PATH used to resolve external commands.
func (in *Interp) pathEnv() string {
	if v, ok := in.Env.Get("PATH"); ok {
		return v
	}
	return ""
}

// Lookup implements procexec.UserCommandRegistry so a re-exec'd child can
// find the user-defined command it was told to run.
func (in *Interp) Lookup(name string) (procexec.UserCommand, bool) {
	cmd, ok := in.userCommands[name]
	return cmd, ok
}

// RegisterUserCommand exposes a Shell++ function as a pipeline-stage
// command, callable by name from a CommandStmt.
func (in *Interp) RegisterUserCommand(name string, fn *object.Func) {
	in.userCommands[name] = func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		argv := make([]object.Value, len(args))
		for i, a := range args {
			argv[i] = object.NewStr(a)
		}
		v, err := fn.Call(argv, nil)
		if err != nil {
			return procexec.AbnormalExitSentinel
		}
		if code, ok := v.(*object.Int); ok {
			return int(code.Val)
		}
		return 0
	}
}

// Run executes a top-level program in the root executor (§4.6). A stray
// break/continue/return escaping to the root is fatal, matching
// "Unhandled flags at root are fatal."
func (in *Interp) Run(prog *ast.Program) error {
	ex := newExecutor(in, in.Root, nil)
	sig, err := ex.execBlock(prog.Stmts)
	if err != nil {
		return err
	}
	if sig != nil && sig.kind != sigNone {
		return shpperr.Customf(prog.Position(), "unexpected %s outside of a function or loop", signalName(sig.kind))
	}
	return nil
}

func signalName(k signalKind) string {
	switch k {
	case sigReturn:
		return "return"
	case sigBreak:
		return "break"
	case sigContinue:
		return "continue"
	default:
		return "control flow"
	}
}

// deferred is one entry of a ScopeExecutor's LIFO defer stack (§4.6):
// the deferred statement plus the executor whose scope was active when
// the defer statement ran.
type deferred struct {
	stmt ast.Stmt
	ex   *executor
}

// executor is one nested scope-kind frame from §4.6: root, block,
// function, class-body, expression, expression-list, assignment-list,
// function-call, command all thread through this one struct, since Go
// has no need for a distinct type per executor kind — what varies is
// which control-flow signals a given call site chooses to catch, not the
// executor's shape.
type executor struct {
	in     *Interp
	scope  *scope.Stack
	parent *executor
	defers []deferred
}

func newExecutor(in *Interp, s *scope.Stack, parent *executor) *executor {
	return &executor{in: in, scope: s, parent: parent}
}

// child pushes a fresh block scope and returns the nested executor for
// it, used for if/while/for bodies and function calls alike.
func (e *executor) child() *executor {
	s := e.scope
	s.Push(scope.NewTable())
	return newExecutor(e.in, s, e)
}

// pop tears down this executor's own scope, running its defer stack
// first (§4.6): "On scope exit ... deferred statements execute in
// reverse order, each in its captured scope. Exceptions inside a
// deferred statement are logged and do not prevent later deferred
// statements from running."
func (e *executor) pop() {
	for i := len(e.defers) - 1; i >= 0; i-- {
		d := e.defers[i]
		if _, err := d.ex.execStmt(d.stmt); err != nil {
			logDeferError(err)
		}
	}
	e.scope.Pop()
}

// logDeferError is the hook internal/runlog wires a real sink into; kept
// as a package variable so tests can observe it without capturing stdio.
var logDeferError = func(err error) {}

// SetLogDeferHook installs the callback invoked when a deferred
// statement's error is swallowed (§4.6). internal/cli calls this once
// per run, wiring it to an internal/runlog.SessionLogger, when
// config.Options.RunLog names a log file.
func SetLogDeferHook(fn func(err error)) {
	if fn == nil {
		fn = func(error) {}
	}
	logDeferError = fn
}
