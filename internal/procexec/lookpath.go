package procexec

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no executable named file can be found on
// PATH. Grounded on the teacher's core/vos/23_proc.go LookPath (itself
// grounded on Go's os/exec.LookPath), adapted to walk the real filesystem
// instead of a virtual one.
var ErrNotFound = errors.New("executable file not found in $PATH")

func findExecutable(path string) error {
	d, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches PATH for file, exactly like a POSIX shell: a name
// containing a slash is tried directly without consulting PATH.
func LookPath(pathEnv, file string) (string, error) {
	if strings.Contains(file, "/") {
		if err := findExecutable(file); err == nil {
			return file, nil
		} else {
			return "", err
		}
	}
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", ErrNotFound
}
