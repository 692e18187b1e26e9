// Package builtins implements the shell commands that must run inside
// the interpreter's own process rather than through internal/procexec's
// job control: cd and export mutate interpreter-owned state a forked or
// re-exec'd child could never report back to its parent.
//
// Grounded on the teacher's commands/base.go (SimpleCommand flag-parsing
// pattern, getopt/v2, --help auto-flag) and core/shell_builtins.go (the
// builtin-dispatch-before-PATH-lookup ordering and the cd/unset/exit
// implementations themselves).
package builtins

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/shpp-lang/shpp/internal/eval"
	"github.com/shpp-lang/shpp/internal/procexec"
)

// Register installs every builtin command into in.Builtins.
func Register(in *eval.Interp) {
	in.Builtins["cd"] = cdBuiltin(in)
	in.Builtins["exit"] = exitBuiltin(in)
	in.Builtins["export"] = exportBuiltin(in)
	in.Builtins["unset"] = unsetBuiltin(in)
	in.Builtins["jobs"] = jobsBuiltin(in)
	in.Builtins["fg"] = fgBuiltin(in)
	in.Builtins["bg"] = bgBuiltin(in)
	in.Builtins["kill"] = killBuiltin(in)
}

// simpleCommand mirrors the teacher's SimpleCommand: it owns a getopt
// flag set and an auto-added --help flag, running callback only once
// flag parsing succeeds.
type simpleCommand struct {
	use   string
	short string
	flags *getopt.Set
}

func newSimpleCommand(use, short string) *simpleCommand {
	return &simpleCommand{use: use, short: short, flags: getopt.New()}
}

func (s *simpleCommand) printHelp(w io.Writer) {
	fmt.Fprintf(w, "usage: %s\n%s\n\nFlags:\n", s.use, s.short)
	s.flags.PrintOptions(w)
}

func (s *simpleCommand) run(stdout, stderr io.Writer, args []string, callback func() int) int {
	help := s.flags.BoolLong("help", 'h', "show this help and exit")
	err := s.flags.Getopt(args, nil)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %s\n\n", args[0], err)
		s.printHelp(stdout)
		return 1
	}
	if *help {
		s.printHelp(stdout)
		return 0
	}
	return callback()
}

func cdBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		sc := newSimpleCommand("cd [dir]", "Change the shell working directory.")
		return sc.run(stdout, stderr, args, func() int {
			rest := sc.flags.Args()
			dir := rest
			target := ""
			if len(dir) == 0 {
				home, _ := in.Env.Get("HOME")
				target = home
			} else if len(dir) == 1 {
				target = dir[0]
			} else {
				fmt.Fprintln(stderr, "cd: too many arguments")
				return 1
			}
			if target == "" {
				fmt.Fprintln(stderr, "cd: HOME not set")
				return 1
			}
			if err := os.Chdir(target); err != nil {
				fmt.Fprintf(stderr, "cd: %s\n", err)
				return 1
			}
			cwd, err := os.Getwd()
			if err != nil {
				fmt.Fprintf(stderr, "cd: %s\n", err)
				return 1
			}
			in.Env.SetCwd(cwd)
			in.Env.Set("PWD", cwd)
			return 0
		})
	}
}

func exitBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		code := 0
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				code = n
			}
		}
		in.ExitRequested = true
		in.ExitCode = code
		return code
	}
}

func exportBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		sc := newSimpleCommand("export [NAME[=VALUE] ...]", "Set export attributes for shell variables.")
		return sc.run(stdout, stderr, args, func() int {
			rest := sc.flags.Args()
			if len(rest) == 0 {
				for _, kv := range in.Env.List() {
					fmt.Fprintf(stdout, "export %s\n", kv)
				}
				return 0
			}
			for _, assignment := range rest {
				if i := strings.IndexByte(assignment, '='); i >= 0 {
					in.Env.Set(assignment[:i], assignment[i+1:])
				} else if _, ok := in.Env.Get(assignment); !ok {
					in.Env.Set(assignment, "")
				}
			}
			return 0
		})
	}
}

func unsetBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		sc := newSimpleCommand("unset NAME...", "Unset shell variables.")
		return sc.run(stdout, stderr, args, func() int {
			for _, name := range sc.flags.Args() {
				in.Env.Unset(name)
			}
			return 0
		})
	}
}

func jobsBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		entries := in.Shell.Jobs.List()
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
		for _, e := range entries {
			status := "Running"
			if e.Job.IsStopped() {
				status = "Stopped"
			} else if e.Job.IsCompleted() {
				status = "Done"
			}
			argv := jobArgv(e.Job)
			fmt.Fprintf(stdout, "[%d]  %s\t%s\n", e.ID, status, strings.Join(argv, " | "))
		}
		return 0
	}
}

func fgBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		job, err := resolveJobArg(in, args)
		if err != nil {
			fmt.Fprintf(stderr, "fg: %s\n", err)
			return 1
		}
		if err := in.Shell.ContinueForeground(job); err != nil {
			fmt.Fprintf(stderr, "fg: %s\n", err)
			return 1
		}
		return job.ExitCode()
	}
}

func bgBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		job, err := resolveJobArg(in, args)
		if err != nil {
			fmt.Fprintf(stderr, "bg: %s\n", err)
			return 1
		}
		if err := in.Shell.ContinueBackground(job); err != nil {
			fmt.Fprintf(stderr, "bg: %s\n", err)
			return 1
		}
		return 0
	}
}

func killBuiltin(in *eval.Interp) procexec.BuiltinCommand {
	return func(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
		if len(args) < 2 {
			fmt.Fprintln(stderr, "kill: usage: kill %job|pid")
			return 1
		}
		for _, target := range args[1:] {
			if strings.HasPrefix(target, "%") {
				job, err := resolveJobArg(in, []string{args[0], target})
				if err != nil {
					fmt.Fprintf(stderr, "kill: %s\n", err)
					return 1
				}
				for _, p := range job.Processes {
					_ = signalPid(p.Pid)
				}
				continue
			}
			pid, err := strconv.Atoi(target)
			if err != nil {
				fmt.Fprintf(stderr, "kill: %s: arguments must be process or job IDs\n", target)
				return 1
			}
			if err := signalPid(pid); err != nil {
				fmt.Fprintf(stderr, "kill: (%d): %s\n", pid, err)
				return 1
			}
		}
		return 0
	}
}

// resolveJobArg resolves a %N job-spec argument (or the most recent job
// when none is given) to its *procexec.Job.
func resolveJobArg(in *eval.Interp, args []string) (*procexec.Job, error) {
	entries := in.Shell.Jobs.List()
	if len(entries) == 0 {
		return nil, fmt.Errorf("no current jobs")
	}
	if len(args) < 2 {
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
		return entries[0].Job, nil
	}
	spec := strings.TrimPrefix(args[1], "%")
	id, err := strconv.Atoi(spec)
	if err != nil {
		return nil, fmt.Errorf("%s: no such job", args[1])
	}
	for _, e := range entries {
		if e.ID == id {
			return e.Job, nil
		}
	}
	return nil, fmt.Errorf("%s: no such job", args[1])
}

func jobArgv(job *procexec.Job) []string {
	var stages []string
	for _, p := range job.Processes {
		stages = append(stages, strings.Join(p.Argv, " "))
	}
	return stages
}
