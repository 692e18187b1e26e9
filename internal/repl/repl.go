// Package repl implements Shell++'s interactive line-editing front end.
//
// Grounded on the teacher's core/shell.go (NewShell/Run/Prompt): readline
// configuration, the prompt escape substitution (\u \h \w \$), and the
// read-eval-print loop shape. Unlike the teacher's fixed built-in-command
// switch, each accumulated chunk is handed to an injected ast.Parser (the
// external lexer/parser collaborator, §1) before running it through
// internal/eval.
package repl

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/abiosoft/readline"
	shlex "github.com/anmitsu/go-shlex"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/config"
	"github.com/shpp-lang/shpp/internal/eval"
)

const (
	envPrompt   = "PS1"
	envUser     = "USER"
	envHostname = "HOSTNAME"

	defaultPrompt = `\u@\h:\w\$ `
)

// REPL owns the readline instance and drives the interpreter one parsed
// chunk at a time.
type REPL struct {
	Interp *eval.Interp
	Parser ast.Parser
	Opts   *config.Options

	readline *readline.Instance
	errColor *color.Color
}

// New builds a REPL wired to in/parser, configuring readline the way the
// teacher's NewShell does (Stdin/Stdout/Stderr, width/terminal probes).
func New(in *eval.Interp, parser ast.Parser, opts *config.Options) (*REPL, error) {
	cfg := &readline.Config{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		HistoryFile: opts.HistoryFile,
		FuncIsTerminal: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd())
		},
	}
	if err := cfg.Init(); err != nil {
		return nil, err
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	errColor := color.New(color.FgRed, color.Bold)
	if opts.NoColor {
		errColor.DisableColor()
	}

	r := &REPL{Interp: in, Parser: parser, Opts: opts, readline: rl, errColor: errColor}
	r.initEnv()
	return r, nil
}

// initEnv seeds PS1 the way the teacher's Shell.Init does, only when the
// caller hasn't already set it; USER and HOSTNAME are not seeded.
func (r *REPL) initEnv() {
	if _, ok := r.Interp.Env.Get(envPrompt); !ok {
		prompt := r.Opts.Prompt
		if prompt == "" {
			prompt = defaultPrompt
		}
		r.Interp.Env.Set(envPrompt, prompt)
	}
}

// prompt renders PS1's \u \h \w \$ escapes against the interpreter's
// environment, matching the teacher's Shell.Prompt().
func (r *REPL) prompt() string {
	prompt, ok := r.Interp.Env.Get(envPrompt)
	if !ok || prompt == "" {
		prompt = defaultPrompt
	}
	if user, ok := r.Interp.Env.Get(envUser); ok {
		prompt = strings.ReplaceAll(prompt, `\u`, user)
	}
	if host, ok := r.Interp.Env.Get(envHostname); ok {
		prompt = strings.ReplaceAll(prompt, `\h`, host)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, r.Interp.Env.Cwd())
	prompt = strings.ReplaceAll(prompt, `\$`, "$")
	return prompt
}

// Run drives the read-eval-print loop until EOF, an exit builtin, or a
// fatal read error.
func (r *REPL) Run() int {
	var buf strings.Builder
	for {
		if r.Interp.ExitRequested {
			return r.Interp.ExitCode
		}

		r.readline.SetPrompt(r.continuationPrompt(buf.Len() > 0))
		line, err := r.readline.Readline()

		switch {
		case err == io.EOF:
			return 0
		case err == readline.ErrInterrupt:
			buf.Reset()
			continue
		case err != nil:
			log.Printf("repl: read error: %v", err)
			return 1
		}

		buf.WriteString(line)
		buf.WriteString("\n")

		if !r.chunkComplete(buf.String()) {
			continue
		}

		source := buf.String()
		buf.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}
		r.evalChunk(source)
	}
}

// continuationPrompt shows PS1 for a fresh chunk or "> " while a
// multi-line block is still being accumulated.
func (r *REPL) continuationPrompt(continuation bool) string {
	if continuation {
		return "> "
	}
	return r.prompt()
}

// chunkComplete uses go-shlex to detect an unterminated quoted string the
// same way a shell's line editor does, treating that as a request for
// more input before handing the chunk to the parser.
func (r *REPL) chunkComplete(source string) bool {
	_, err := shlex.Split(source, true)
	return err == nil
}

func (r *REPL) evalChunk(source string) {
	prog, err := r.Parser.Parse(source)
	if err != nil {
		fmt.Fprintln(r.readline, r.errColor.Sprintf("%s", err))
		return
	}
	if err := r.Interp.Run(prog); err != nil {
		fmt.Fprintln(r.readline, r.errColor.Sprintf("%s", err))
	}
}

// Close releases the readline instance's terminal resources.
func (r *REPL) Close() error {
	return r.readline.Close()
}
