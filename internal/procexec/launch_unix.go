//go:build unix

package procexec

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// Shell is the ambient job-control state a running Shell++ process needs:
// whether it is interactive, its own pgid, and its controlling terminal fd.
// One Shell is constructed by the CLI entry point and threaded through
// every Launch call, matching original_source's EnvShell singleton without
// the singleton (making it a value keeps internal/procexec testable).
type Shell struct {
	Interactive bool
	Terminal    int // fd of the controlling terminal, usually os.Stdin.Fd()
	Pgid        int
	termios     *unix.Termios

	// Jobs tracks backgrounded jobs so builtins like jobs/fg/bg/kill can
	// find and act on them after Launch has already returned.
	Jobs *JobTable

	// ScriptPath is the file shpp was invoked against, if any. A re-exec'd
	// user-command child re-reads and re-declares (without re-running) this
	// file to rebuild the UserCommandRegistry it needs (see reexec.go);
	// left empty in interactive sessions, where a pipeline referencing a
	// REPL-declared command cannot be re-exec'd.
	ScriptPath string
}

// NewShell captures the calling process's pgid and terminal modes.
func NewShell(interactive bool) (*Shell, error) {
	s := &Shell{Interactive: interactive, Terminal: int(os.Stdin.Fd()), Jobs: NewJobTable()}
	s.Pgid = unix.Getpgrp()
	if interactive {
		t, err := unix.IoctlGetTermios(s.Terminal, unix.TCGETS)
		if err != nil {
			// Not attached to a real tty (e.g. under a test harness);
			// fall back to non-interactive job control.
			s.Interactive = false
			return s, nil
		}
		s.termios = t
	}
	return s, nil
}

// exitedCode extracts WEXITSTATUS from a raw wait status when the process
// exited normally.
func exitedCode(status int) (int, bool) {
	ws := unix.WaitStatus(status)
	if ws.Exited() {
		return ws.ExitStatus(), true
	}
	return 0, false
}

// exitStatus builds a raw wait status representing a normal exit with the
// given code, for tests that need to fabricate Process.Status values
// without actually forking.
func exitStatus(code int) int {
	return code << 8
}

// Launch runs job to completion (foreground, non-interactive) or hands it
// the terminal (foreground, interactive) or backgrounds it, exactly per
// spec.md §4.7 / original_source Job::LaunchJob.
func (s *Shell) Launch(job *Job) error {
	var infile *os.File = job.Stdin
	n := len(job.Processes)

	cmds := make([]*exec.Cmd, n)

	for i, proc := range job.Processes {
		var outfile *os.File
		var pipeReadEnd *os.File
		if i != n-1 {
			r, w, err := os.Pipe()
			if err != nil {
				return fmt.Errorf("pipe: %w", err)
			}
			pipeReadEnd = r
			outfile = w
		} else {
			outfile = job.Stdout
		}

		cmd, err := s.buildCmd(job, proc, infile, outfile)
		if err != nil {
			return err
		}
		cmds[i] = cmd

		if err := cmd.Start(); err != nil {
			return fmt.Errorf("%s: %w", proc.Argv[0], err)
		}
		proc.Pid = cmd.Process.Pid

		if s.Interactive {
			if job.Pgid == 0 {
				job.Pgid = proc.Pid
			}
			_ = unix.Setpgid(proc.Pid, job.Pgid)
		}

		if infile != job.Stdin {
			infile.Close()
		}
		if outfile != job.Stdout {
			outfile.Close()
		}
		infile = pipeReadEnd
	}

	if !s.Interactive {
		return s.waitForJob(job)
	}
	if job.Foreground {
		return s.putJobInForeground(job, false)
	}
	s.Jobs.Add(job)
	return s.putJobInBackground(job, false)
}

// ContinueForeground resumes a stopped or backgrounded job in the
// foreground, implementing the fg builtin.
func (s *Shell) ContinueForeground(job *Job) error {
	job.Foreground = true
	err := s.putJobInForeground(job, true)
	s.Jobs.Remove(job)
	return err
}

// ContinueBackground resumes a stopped job in the background, implementing
// the bg builtin.
func (s *Shell) ContinueBackground(job *Job) error {
	job.Foreground = false
	return s.putJobInBackground(job, true)
}

// buildCmd wires one process's SysProcAttr for pgid assignment and
// controlling-terminal handoff. This is the Go-idiomatic substitute for
// original_source's Process::LaunchProcess: os/exec.Cmd's Start() performs
// the fork+exec, and SysProcAttr performs the setpgid/tcsetpgrp/dup2 the
// child would otherwise do by hand between fork and exec.
func (s *Shell) buildCmd(job *Job, proc *Process, infile, outfile *os.File) (*exec.Cmd, error) {
	if proc.Kind == ProcUserDefined {
		return s.buildReexecCmd(job, proc, infile, outfile)
	}

	path := proc.Path
	if path == "" {
		path = proc.Argv[0]
	}
	cmd := exec.Command(path, proc.Argv[1:]...)
	cmd.Stdin = infile
	cmd.Stdout = outfile
	cmd.Stderr = job.Stderr

	cmd.SysProcAttr = &syscall.SysProcAttr{}
	if s.Interactive {
		cmd.SysProcAttr.Setpgid = true
		cmd.SysProcAttr.Pgid = job.Pgid
		if job.Foreground {
			cmd.SysProcAttr.Foreground = true
			cmd.SysProcAttr.Ctty = s.Terminal
		}
	}
	return cmd, nil
}

func (s *Shell) waitForJob(job *Job) error {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WUNTRACED, nil)
		if err != nil {
			if err == unix.ECHILD {
				return nil
			}
			return err
		}
		s.markProcessStatus(job, pid, int(ws))
		if job.IsStopped() || job.IsCompleted() {
			return nil
		}
	}
}

func (s *Shell) markProcessStatus(job *Job, pid int, status int) {
	for _, p := range job.Processes {
		if p.Pid == pid {
			p.Status = status
			ws := unix.WaitStatus(status)
			if ws.Stopped() {
				p.Stopped = true
			} else {
				p.Completed = true
			}
			return
		}
	}
}

// putJobInForeground implements original_source's Job::PutJobInForeground:
// hand the terminal to the job's pgid, optionally SIGCONT it, wait, then
// hand the terminal back and restore the shell's terminal modes.
func (s *Shell) putJobInForeground(job *Job, cont bool) error {
	_ = unix.IoctlSetPointerInt(s.Terminal, unix.TIOCSPGRP, job.Pgid)

	if cont {
		if s.termios != nil {
			_ = unix.IoctlSetTermios(s.Terminal, unix.TCSETS, s.termios)
		}
		_ = unix.Kill(-job.Pgid, unix.SIGCONT)
	}

	err := s.waitForJob(job)

	_ = unix.IoctlSetPointerInt(s.Terminal, unix.TIOCSPGRP, s.Pgid)

	if t, tErr := unix.IoctlGetTermios(s.Terminal, unix.TCGETS); tErr == nil {
		job.savedTermios = t
	}
	if s.termios != nil {
		_ = unix.IoctlSetTermios(s.Terminal, unix.TCSETS, s.termios)
	}

	return err
}

func (s *Shell) putJobInBackground(job *Job, cont bool) error {
	if cont {
		return unix.Kill(-job.Pgid, unix.SIGCONT)
	}
	return nil
}

// InstallSigintWatcher stops the foreground job's process group when SIGINT
// arrives, matching spec.md §5's "SIGINT ... terminates the current job and
// returns control to the shell without tearing down the interpreter."
func (s *Shell) InstallSigintWatcher(job *Job) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			_ = unix.Kill(-job.Pgid, unix.SIGINT)
		case <-done:
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// pipeToWriter drains a memfs-backed redirect target when the underlying
// afero.File is not a real *os.File (test doubles).
func pipeToWriter(r io.Reader, w io.Writer) error {
	_, err := io.Copy(w, r)
	return err
}

// reexecSysProcAttr gives a re-exec'd user-command child the same pgid and
// controlling-terminal treatment as an external process at the same
// pipeline position.
func reexecSysProcAttr(s *Shell, job *Job) *syscall.SysProcAttr {
	attr := &syscall.SysProcAttr{}
	if s.Interactive {
		attr.Setpgid = true
		attr.Pgid = job.Pgid
		if job.Foreground {
			attr.Foreground = true
			attr.Ctty = s.Terminal
		}
	}
	return attr
}
