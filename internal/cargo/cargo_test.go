package cargo

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/hdkrs/hdkbuild/internal/project"
)

// fakeCargo writes an executable stub that emits the given stdout and
// exits with the given status, standing in for the real cargo binary.
func fakeCargo(t *testing.T, stdout string, exit int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stub not portable to windows")
	}
	path := filepath.Join(t.TempDir(), "cargo")
	script := "#!/bin/sh\n"
	if stdout != "" {
		script += "cat <<'EOF'\n" + stdout + "\nEOF\n"
	}
	script += "exit " + strconv.Itoa(exit) + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerBuild(t *testing.T) {
	stream := `{"reason":"build-script-executed","package_id":"registry#hdkrs@0.3.0","out_dir":"/out/hdkrs"}`
	r := &Runner{
		Cargo: fakeCargo(t, stream, 0),
		Deps:  []string{"hdkrs"},
	}
	root := &project.Root{Dir: "/work", Name: "myplugin", ID: "id"}

	records, err := r.Build(root, []string{"--release"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(records) != 1 || records[0] != (OutDir{"hdkrs", "/out/hdkrs"}) {
		t.Errorf("records = %v", records)
	}
}

func TestRunnerBuildFails(t *testing.T) {
	r := &Runner{Cargo: fakeCargo(t, "", 1)}
	_, err := r.Build(&project.Root{Dir: "/work"}, nil)
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("err = %v, want ErrBuildFailed", err)
	}
}

func TestRunnerClean(t *testing.T) {
	if err := (&Runner{Cargo: fakeCargo(t, "", 0)}).Clean(nil); err != nil {
		t.Errorf("Clean: %v", err)
	}
	err := (&Runner{Cargo: fakeCargo(t, "", 1)}).Clean(nil)
	if !errors.Is(err, ErrCleanFailed) {
		t.Errorf("err = %v, want ErrCleanFailed", err)
	}
}
