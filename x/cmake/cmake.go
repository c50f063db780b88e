// Package cmake wraps the cmake configure/build workflow for the HDK
// plugin. Both steps run from inside the build directory, which lives
// directly under the plugin source tree, and the original working
// directory is restored on every exit path.
package cmake

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

var (
	// ErrConfigure reports a non-zero exit from the configure step.
	ErrConfigure = errors.New("failed to configure CMake")
	// ErrBuild reports a non-zero exit from the build step.
	ErrBuild = errors.New("failed to build the HDK plugin")
	// ErrRestoreDir reports that the original working directory could not
	// be restored; the process state is unreliable after that.
	ErrRestoreDir = errors.New("failed to restore working directory")
)

// CMake drives the native half of the build inside a dedicated build
// directory.
type CMake struct {
	buildDir  string
	buildType string
	extraArgs []string
	bin       string
}

// New returns a CMake rooted at buildDir.
func New(buildDir string) *CMake {
	return &CMake{buildDir: buildDir, bin: "cmake"}
}

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) *CMake {
	c.buildType = name
	return c
}

// ExtraArgs appends user-supplied configure arguments. Order is kept.
func (c *CMake) ExtraArgs(args ...string) *CMake {
	c.extraArgs = append(c.extraArgs, args...)
	return c
}

// ConfigureArgs returns the argument list of the configure step: the
// parent directory as the source location, the extra arguments, then the
// build-type define.
func (c *CMake) ConfigureArgs() []string {
	args := append([]string{".."}, c.extraArgs...)
	if c.buildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+c.buildType)
	}
	return args
}

// Run configures and then builds inside the build directory. The working
// directory in effect before the call is restored whether or not either
// step succeeds; a failed restore is itself an error.
func (c *CMake) Run() (err error) {
	restore, err := pushd(c.buildDir)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := restore(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := c.run(c.ConfigureArgs()); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigure, err)
	}
	if err := c.run([]string{"--build", "."}); err != nil {
		return fmt.Errorf("%w: %v", ErrBuild, err)
	}
	return nil
}

func (c *CMake) run(args []string) error {
	cmd := exec.Command(c.bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// pushd changes the process working directory and returns a restore func
// bound to the directory that was current before the change.
func pushd(dir string) (func() error, error) {
	orig, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	if err := os.Chdir(dir); err != nil {
		return nil, fmt.Errorf("failed to enter %s: %w", dir, err)
	}
	return func() error {
		if err := os.Chdir(orig); err != nil {
			return fmt.Errorf("%w %s: %v", ErrRestoreDir, orig, err)
		}
		return nil
	}, nil
}
