// Package cmd wires shpp's command-line surface: the cobra root command,
// its --config flag, and the version subcommand.
//
// Grounded on the teacher's cmd/root.go (persistent --config flag,
// package-level rootCmd, Execute()).
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/cli"
	"github.com/shpp-lang/shpp/internal/config"
	"github.com/shpp-lang/shpp/internal/repl"
)

// version is set at release build time via -ldflags; "dev" otherwise.
var version = "dev"

var cfgPath string

// parser is the lexer/parser external collaborator (§1): shpp's core is
// complete without one, but a runnable binary needs a concrete
// implementation wired in via SetParser before Execute is called.
var parser ast.Parser

// SetParser installs the lexer/parser collaborator cmd/shpp/main.go
// assembles the binary with.
func SetParser(p ast.Parser) {
	parser = p
}

var errNoParser = errors.New("shpp: no parser configured; call cmd.SetParser before cmd.Execute")

var rootCmd = &cobra.Command{
	Use:   "shpp [script]",
	Short: "Shell++ interpreter",
	Long:  "Shell++ fuses Bash-style command execution with a Python-like object system.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRoot,
}

func loadConfig() (*config.Options, error) {
	fsys := afero.NewOsFs()
	path := cfgPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path = config.FindRC(fsys, wd)
	}
	return config.Load(fsys, path)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if parser == nil {
		return errNoParser
	}

	opts, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		opts.DefaultPath = args[0]
		os.Exit(cli.RunFile(parser, opts, args[0]))
		return nil
	}

	opts.Interactive = true
	os.Exit(runInteractive(opts))
	return nil
}

func runInteractive(opts *config.Options) int {
	in, closeLog, err := cli.NewInteractiveInterp(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: %s\n", err)
		return 1
	}
	defer closeLog()

	r, err := repl.New(in, parser, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shpp: %s\n", err)
		return 1
	}
	defer r.Close()
	return r.Run()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by cmd/shpp/main.go.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a .shpprc.yaml config file")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shpp version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}
