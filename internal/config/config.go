// Package config loads Shell++'s runtime options from an optional
// .shpprc.yaml, falling back to the embedded default.
//
// Grounded on the teacher's core/config.go (Configuration struct +
// DefaultConfig) and core/config/load.go's afero-backed load path.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/shpprc.yaml
var defaultYAML []byte

// Options holds everything the REPL and interpreter need that isn't part
// of the language itself.
type Options struct {
	// Interactive is set by the CLI, not loaded from YAML: true when
	// shpp was invoked with no script argument.
	Interactive bool `json:"-" validate:"-"`
	// DefaultPath is the script path passed on the command line, empty
	// in interactive mode. Also not part of the YAML file.
	DefaultPath string `json:"-" validate:"-"`

	Prompt      string `json:"prompt"`
	HistoryFile string `json:"historyFile"`
	MaxJobs     int    `json:"maxJobs" validate:"gte=0"`
	NoColor     bool   `json:"noColor"`
	// RunLog is a file path structured run-log entries are appended to;
	// empty disables run logging entirely.
	RunLog string `json:"runLog"`
}

var validate = validator.New()

// Default returns the embedded default configuration.
func Default() (*Options, error) {
	opts := &Options{}
	if err := yaml.Unmarshal(defaultYAML, opts); err != nil {
		return nil, fmt.Errorf("config: parsing embedded default: %w", err)
	}
	return opts, nil
}

// Load reads path off fsys and overlays it on top of the embedded
// default. A missing path is not an error: the default is returned
// unchanged, matching the teacher's "config file is optional" behavior.
func Load(fsys afero.Fs, path string) (*Options, error) {
	opts, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return opts, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return opts, nil
}

// FindRC looks for .shpprc.yaml then shpprc.yaml in dir, returning "" if
// neither exists.
func FindRC(fsys afero.Fs, dir string) string {
	for _, name := range []string{".shpprc.yaml", "shpprc.yaml"} {
		p := filepath.Join(dir, name)
		if ok, _ := afero.Exists(fsys, p); ok {
			return p
		}
	}
	return ""
}
