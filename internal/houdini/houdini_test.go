package houdini

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveEnvOverrideWins(t *testing.T) {
	// The env var is trusted as is, even when the path does not exist.
	t.Setenv("HFS", "/nonexistent/hfs20.5")

	hfs, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if hfs != "/nonexistent/hfs20.5" {
		t.Errorf("hfs = %q", hfs)
	}
}

func TestResolveProbeOrder(t *testing.T) {
	t.Setenv("HFS", "")

	orig := probes
	defer func() { probes = orig }()

	probes = []probe{
		fromEnv,
		func() (string, bool) { return "/opt/hfs20.5", true },
		func() (string, bool) { t.Error("later probe consulted"); return "", false },
	}

	hfs, err := Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if hfs != "/opt/hfs20.5" {
		t.Errorf("hfs = %q", hfs)
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Setenv("HFS", "")

	orig := probes
	defer func() { probes = orig }()
	probes = []probe{fromEnv}

	_, err := Resolve()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSortNewestFirst(t *testing.T) {
	paths := []string{"/opt/hfs18.5", "/opt/hfs20.5.487", "/opt/hfs19.0", "/opt/hfs20.0"}
	sortNewestFirst(paths)
	want := []string{"/opt/hfs20.5.487", "/opt/hfs20.0", "/opt/hfs19.0", "/opt/hfs18.5"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("order = %v, want %v", paths, want)
		}
	}
}

func TestSetup(t *testing.T) {
	t.Setenv("PATH", "/usr/bin")
	t.Setenv("HFS", "")

	hfs := t.TempDir()
	if err := Setup(hfs); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if got := os.Getenv("HFS"); got != hfs {
		t.Errorf("HFS = %q, want %q", got, hfs)
	}
	wantSuffix := string(os.PathListSeparator) + filepath.Join(hfs, "bin")
	if got := os.Getenv("PATH"); !strings.HasSuffix(got, wantSuffix) || !strings.HasPrefix(got, "/usr/bin") {
		t.Errorf("PATH = %q, want /usr/bin%s", got, wantSuffix)
	}
}
