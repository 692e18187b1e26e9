// Command shpp is the Shell++ interpreter's executable entry point.
package main

import (
	"fmt"
	"os"

	"github.com/shpp-lang/shpp/cmd"
	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/cli"
	"github.com/shpp-lang/shpp/internal/procexec"
)

// unimplementedParser reports that this build has no lexer/parser wired
// in. The lexer and parser are §1's external collaborator, out of this
// module's scope by design; a real distribution links a concrete
// ast.Parser here in place of this stub.
type unimplementedParser struct{}

func (unimplementedParser) Parse(source string) (*ast.Program, error) {
	return nil, fmt.Errorf("shpp: no lexer/parser is linked into this build")
}

var parser ast.Parser = unimplementedParser{}

func main() {
	if name, args, ok := procexec.IsReexecChild(); ok {
		os.Exit(runReexecChild(name, args))
	}

	cmd.SetParser(parser)
	cmd.Execute()
}

// runReexecChild rebuilds the user-command registry a forked pipeline
// stage needs by re-declaring (not re-running) the script that launched
// it, then dispatches to the requested command.
func runReexecChild(name string, args []string) int {
	scriptPath := procexec.ReexecScriptPath()
	if scriptPath == "" {
		fmt.Fprintln(os.Stderr, "shpp: cannot re-exec a command declared in an interactive session")
		return procexec.AbnormalExitSentinel
	}
	in, err := cli.PrimeReexecInterp(parser, scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: re-exec priming: %s\n", err)
		return procexec.AbnormalExitSentinel
	}
	return procexec.RunReexecChild(in, name, args)
}
