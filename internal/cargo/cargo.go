// Package cargo drives the managed half of the build: it invokes cargo
// build/clean subcommands with forwarded arguments and decodes the
// structured event stream a build emits.
package cargo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/hdkrs/hdkbuild/internal/project"
)

var (
	// ErrBuildFailed reports a non-zero exit from cargo build.
	ErrBuildFailed = errors.New("cargo build failed")
	// ErrCleanFailed reports a non-zero exit from cargo clean.
	ErrCleanFailed = errors.New("cargo clean failed")
)

// Runner invokes cargo subcommands with forwarded arguments.
type Runner struct {
	Cargo string   // cargo executable, "cargo" when empty
	Deps  []string // dependency names whose OUT_DIRs are tracked
}

func (r *Runner) bin() string {
	if r.Cargo != "" {
		return r.Cargo
	}
	return "cargo"
}

// StripSubcommand drops a leading literal "hdk" element so the tool keeps
// working when invoked as a cargo subcommand with the subcommand name
// repeated in the forwarded arguments.
func StripSubcommand(args []string) []string {
	if len(args) > 0 && args[0] == "hdk" {
		return args[1:]
	}
	return args
}

// Clean runs "cargo clean" with the forwarded arguments, stdio inherited.
func (r *Runner) Clean(args []string) error {
	cmd := exec.Command(r.bin(), append([]string{"clean"}, args...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v", ErrCleanFailed, err)
	}
	return nil
}

// Build runs "cargo build" with the forwarded arguments plus
// --message-format=json, capturing the event stream from stdout while
// compiler diagnostics on stderr reach the terminal unbuffered. It returns
// the OUT_DIR records harvested from the stream in event order.
func (r *Runner) Build(root *project.Root, args []string) ([]OutDir, error) {
	cmdArgs := append([]string{"build"}, args...)
	cmdArgs = append(cmdArgs, "--message-format=json")

	var out bytes.Buffer
	cmd := exec.Command(r.bin(), cmdArgs...)
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}
	return decodeOutDirs(&out, root, r.Deps)
}
