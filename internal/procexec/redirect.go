package procexec

import (
	"os"

	"github.com/spf13/afero"
)

// RedirectKind mirrors the surface syntax of spec.md §4.7.
type RedirectKind int

const (
	RedirectOut RedirectKind = iota
	RedirectAppend
	RedirectIn
	RedirectErr
	RedirectOutErr
)

// Redirection describes one word-level redirection target, already resolved
// to a path by the evaluator (word expansion happens in internal/eval).
type Redirection struct {
	Kind RedirectKind
	Path string
}

// OpenRedirect opens fs at path per Kind, matching spec.md's
// O_WRONLY|O_CREAT(|O_TRUNC|O_APPEND) / O_RDONLY primitives. Routing
// through afero.Fs (afero.NewOsFs() in production, afero.NewMemMapFs() in
// tests) keeps the whole redirection path unit-testable without touching a
// real filesystem.
func OpenRedirect(fsys afero.Fs, r Redirection) (afero.File, error) {
	switch r.Kind {
	case RedirectOut, RedirectOutErr:
		return fsys.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	case RedirectAppend:
		return fsys.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	case RedirectIn:
		return fsys.OpenFile(r.Path, os.O_RDONLY, 0)
	case RedirectErr:
		return fsys.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	default:
		return fsys.OpenFile(r.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	}
}

// AsOSFile extracts the underlying *os.File from an afero file opened
// against afero.NewOsFs(), for wiring directly into exec.Cmd's Stdin/
// Stdout/Stderr. Returns ok=false for in-memory filesystems used in tests,
// where callers fall back to io.Copy through the afero.File interface.
func AsOSFile(f afero.File) (*os.File, bool) {
	osFile, ok := f.(*os.File)
	return osFile, ok
}
