package builtins

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shpp-lang/shpp/internal/eval"
	"github.com/shpp-lang/shpp/internal/procexec"
)

// newTestInterp builds an Interp with a fixed, deterministic environment
// so assertions never depend on the machine running the test.
func newTestInterp(t *testing.T) *eval.Interp {
	t.Helper()
	shell, err := procexec.NewShell(false)
	if err != nil {
		t.Fatalf("NewShell: %s", err)
	}
	env := eval.NewEnviron([]string{"HOME=/home/shpp", "PATH=/bin", "ZED=last", "ANIMAL=capy"}, "/home/shpp")
	in, err := eval.NewInterp(shell, env)
	if err != nil {
		t.Fatalf("NewInterp: %s", err)
	}
	return in
}

func runBuiltin(in *eval.Interp, cmd procexec.BuiltinCommand, args ...string) (stdout, stderr string) {
	var out, errOut bytes.Buffer
	cmd(bytes.NewReader(nil), &out, &errOut, args)
	return out.String(), errOut.String()
}

func TestExportListsSortedByName(t *testing.T) {
	in := newTestInterp(t)
	out, _ := runBuiltin(in, exportBuiltin(in), "export")
	assert.Equal(t, "export ANIMAL=capy\nexport HOME=/home/shpp\nexport PATH=/bin\nexport ZED=last\n", out)
}

func TestExportAssignmentIsVisibleAfterward(t *testing.T) {
	in := newTestInterp(t)
	out, _ := runBuiltin(in, exportBuiltin(in), "export", "GREETING=hi")
	assert.Empty(t, out, "a bare assignment prints nothing")

	v, ok := in.Env.Get("GREETING")
	assert.True(t, ok)
	assert.Equal(t, "hi", v)
}

func TestExportBareNamePreservesExistingValue(t *testing.T) {
	in := newTestInterp(t)
	runBuiltin(in, exportBuiltin(in), "export", "ZED=changed")
	runBuiltin(in, exportBuiltin(in), "export", "ZED")

	v, _ := in.Env.Get("ZED")
	assert.Equal(t, "changed", v, "exporting an already-set bare name must not clear it")
}

func TestExportHelp(t *testing.T) {
	in := newTestInterp(t)
	out, _ := runBuiltin(in, exportBuiltin(in), "export", "--help")
	assert.Contains(t, out, "usage: export")
	assert.Contains(t, out, "--help")
}

func TestUnsetRemovesVariable(t *testing.T) {
	in := newTestInterp(t)
	runBuiltin(in, unsetBuiltin(in), "unset", "ZED")

	_, ok := in.Env.Get("ZED")
	assert.False(t, ok)
}

func TestCdTooManyArguments(t *testing.T) {
	in := newTestInterp(t)
	_, errOut := runBuiltin(in, cdBuiltin(in), "cd", "a", "b")
	assert.Contains(t, errOut, "too many arguments")
}

func TestJobsWithNoJobsPrintsNothing(t *testing.T) {
	in := newTestInterp(t)
	out, _ := runBuiltin(in, jobsBuiltin(in), "jobs")
	assert.Empty(t, out)
}

func TestResolveJobArgWithNoJobs(t *testing.T) {
	in := newTestInterp(t)
	_, err := resolveJobArg(in, []string{"fg"})
	assert.EqualError(t, err, "no current jobs")
}
