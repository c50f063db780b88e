// Package houdini locates a Houdini installation (HFS) through the
// environment or a list of conventional installation paths, and prepares
// the process environment for license checks during the native build.
package houdini

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/qiniu/x/log"
	"golang.org/x/mod/semver"
)

// ErrNotFound reports that no Houdini installation could be located.
var ErrNotFound = errors.New("couldn't find HFS: source 'houdini_setup' from the Houdini installation directory or set the HFS environment variable to the installation path")

// knownVersions seeds the conventional-path probes, newest first.
var knownVersions = []string{"20.5", "20.0", "19.5", "19.0", "18.5", "18.0", "17.5", "17.0"}

// A probe returns one candidate installation root, or false when it has
// nothing to offer.
type probe func() (string, bool)

// probes is the ordered resolver strategy: the HFS environment variable
// overrides everything, then installed versions found by globbing, then
// the static conventional paths.
var probes = []probe{fromEnv, fromGlob, fromConventional}

// fromEnv trusts an explicit HFS setting without probing the filesystem.
func fromEnv() (string, bool) {
	hfs := os.Getenv("HFS")
	return hfs, hfs != ""
}

// fromGlob scans the platform install prefix for versioned directories so
// releases newer than knownVersions are picked up, newest first.
func fromGlob() (string, bool) {
	pattern := "/opt/hfs*"
	if runtime.GOOS == "windows" {
		pattern = `C:\Program Files\Side Effects Software\Houdini *`
	}
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sortNewestFirst(matches)
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			return m, true
		}
	}
	return "", false
}

func fromConventional() (string, bool) {
	for _, version := range knownVersions {
		for _, cand := range conventionalPaths(version) {
			if fi, err := os.Stat(cand); err == nil && fi.IsDir() {
				return cand, true
			}
		}
	}
	return "", false
}

func conventionalPaths(version string) []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{filepath.Join(
			"/Applications/Houdini", "Houdini"+version,
			"Frameworks/Houdini.framework/Versions/Current/Resources")}
	case "windows":
		return []string{filepath.Join(`C:\Program Files\Side Effects Software`, "Houdini "+version)}
	default:
		return []string{"/opt/hfs" + version}
	}
}

// sortNewestFirst orders versioned installation directories descending by
// the version embedded in their final path element.
func sortNewestFirst(paths []string) {
	version := func(p string) string {
		base := filepath.Base(p)
		v := strings.TrimPrefix(base, "hfs")
		v = strings.TrimPrefix(v, "Houdini ")
		v = strings.TrimPrefix(v, "Houdini")
		return "v" + v
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return semver.Compare(version(paths[i]), version(paths[j])) > 0
	})
}

// Resolve returns the first installation root offered by the probe chain.
func Resolve() (string, error) {
	for _, p := range probes {
		if hfs, ok := p(); ok {
			log.Infof("using Houdini installation at %s", hfs)
			return hfs, nil
		}
	}
	return "", ErrNotFound
}

// Setup exports HFS and appends $HFS/bin to PATH so hserver can verify the
// license while the plugin builds.
func Setup(hfs string) error {
	if err := os.Setenv("HFS", hfs); err != nil {
		return err
	}
	bin := filepath.Join(hfs, "bin")
	if path := os.Getenv("PATH"); path != "" {
		bin = path + string(os.PathListSeparator) + bin
	}
	return os.Setenv("PATH", bin)
}
