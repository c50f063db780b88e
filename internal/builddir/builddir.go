// Package builddir manages the lifecycle of the HDK build directory and
// the OUT_DIR marker files the CMake build consumes.
package builddir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hdkrs/hdkbuild/internal/cargo"
	"github.com/qiniu/x/log"
)

var (
	// ErrCreateFailed reports that the build directory could not be created.
	ErrCreateFailed = errors.New("failed to create build directory")
	// ErrCleanFailed reports that an existing build directory could not be removed.
	ErrCleanFailed = errors.New("failed to remove build directory")
	// ErrCacheWrite reports that an OUT_DIR marker file could not be written.
	ErrCacheWrite = errors.New("failed to write out-dir file")
)

// Dir computes the build directory for the given profile:
// <root>/<hdkPath>/build_<profile>.
func Dir(rootDir, hdkPath string, profile cargo.Profile) string {
	return filepath.Join(rootDir, hdkPath, "build_"+profile.DirName())
}

// Prepare ensures dir exists, creating missing ancestors along the plugin
// path. An existing directory is reused as is.
func Prepare(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCreateFailed, dir, err)
	}
	return nil
}

// Clean removes dir and everything under it. A directory that is already
// absent is not an error, so rerunning clean is always safe.
func Clean(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Warnf("build directory %s is already absent, nothing to clean", dir)
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCleanFailed, dir, err)
	}
	return nil
}

// WriteOutDirs persists one marker file per record under dir, named
// <prefix><name>.txt and holding exactly the raw output-directory path.
// Records are written in stream order, so a later record for the same name
// overwrites an earlier one. An empty record list is a no-op.
func WriteOutDirs(dir, prefix string, records []cargo.OutDir) error {
	for _, rec := range records {
		path := filepath.Join(dir, prefix+rec.Name+".txt")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("%w %s: %v", ErrCreateFailed, filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(rec.Path), 0o644); err != nil {
			return fmt.Errorf("%w %s: %v", ErrCacheWrite, path, err)
		}
		log.Debugf("cached OUT_DIR of %s in %s", rec.Name, path)
	}
	return nil
}
