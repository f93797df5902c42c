package cli

import (
	"bytes"
	"testing"

	"github.com/dagewa/wedged-lamellae/internal/testutil"
)

func writeTable(t *testing.T, dir, name, spaceGroup string, rows []testutil.Reflection) string {
	t.Helper()
	return testutil.WriteReflectionTable(t, dir, name, testutil.ReflectionTable{SpaceGroup: spaceGroup, Rows: rows})
}

// writeScale creates dir/name/scale.json with a single resolution shell.
func writeScale(t *testing.T, dir, name string, count int, cc string) string {
	t.Helper()
	return testutil.WriteScaleReport(t, dir, name, testutil.Shell{DMax: 10, DMin: 5, Count: count, CC: cc})
}

// runRoot executes the root command with args and returns stdout,
// stderr and the exit code.
func runRoot(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	code := Execute(cmd)
	return stdout.String(), stderr.String(), code
}
