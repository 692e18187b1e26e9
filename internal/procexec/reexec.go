package procexec

import (
	"fmt"
	"os"
	"os/exec"
)

// reexecMarkerEnv, when present in a child process's environment, tells
// main() to skip Cobra/REPL startup and instead run the user-defined
// command named by reexecCommandEnv against argv, exactly like
// moby/moby's pkg/reexec self-registration trick. This is the substitute
// for original_source's raw fork()+in-process dispatch: Go cannot fork a
// multi-threaded process and keep running Go code in the child, so instead
// we re-invoke our own binary and let it recognize, via these two
// environment variables, that it should behave as a single user command
// rather than start the shell.
const (
	reexecMarkerEnv     = "_SHPP_USERCMD"
	reexecCommandEnv    = "_SHPP_USERCMD_NAME"
	reexecScriptPathEnv = "_SHPP_SCRIPT_PATH"
)

// ReexecScriptPath returns the script path the parent process propagated
// to a re-exec'd child, if any (see Shell.ScriptPath).
func ReexecScriptPath() string {
	return os.Getenv(reexecScriptPathEnv)
}

// UserCommandRegistry resolves a registered command name back to its
// UserCommand body inside the re-exec'd child. The evaluator populates one
// instance at startup and passes it to RunReexecChild.
type UserCommandRegistry interface {
	Lookup(name string) (UserCommand, bool)
}

// buildReexecCmd constructs the re-exec trampoline invocation for a
// ProcUserDefined process: run our own executable again with the marker
// env vars set, so the new process's main() runs proc's UserCommand body
// instead of starting the interpreter.
func (s *Shell) buildReexecCmd(job *Job, proc *Process, infile, outfile *os.File) (*exec.Cmd, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving self path for re-exec: %w", err)
	}

	cmd := exec.Command(self, proc.Argv[1:]...)
	cmd.Stdin = infile
	cmd.Stdout = outfile
	cmd.Stderr = job.Stderr
	cmd.Env = append(os.Environ(),
		reexecMarkerEnv+"=1",
		reexecCommandEnv+"="+proc.Path,
		reexecScriptPathEnv+"="+s.ScriptPath,
	)
	cmd.SysProcAttr = reexecSysProcAttr(s, job)
	return cmd, nil
}

// IsReexecChild reports whether the running process was launched by
// buildReexecCmd rather than by a user's shell or exec(1).
func IsReexecChild() (name string, args []string, ok bool) {
	if os.Getenv(reexecMarkerEnv) != "1" {
		return "", nil, false
	}
	return os.Getenv(reexecCommandEnv), os.Args[1:], true
}

// RunReexecChild runs inside the re-exec'd child process. It looks up the
// requested command in reg and executes it against the process's own
// stdio, then exits with the command's return code — matching spec.md
// §4.7's "the child runs the user-defined command body to completion, then
// exits with its return value" rule.
func RunReexecChild(reg UserCommandRegistry, name string, args []string) int {
	cmd, ok := reg.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "shpp: %s: user command not found in re-exec'd child\n", name)
		return AbnormalExitSentinel
	}
	return cmd(os.Stdin, os.Stdout, os.Stderr, args)
}
