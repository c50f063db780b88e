// Package project discovers the root of the crate being built.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/qiniu/x/log"
)

// ErrManifestNotFound reports that no ancestor of the start directory
// contains a Cargo.toml manifest.
var ErrManifestNotFound = errors.New("couldn't find Cargo.toml")

// Root describes the located crate root. Name and ID are populated only
// when the cargo metadata query served the lookup; the filesystem fallback
// knows the directory alone.
type Root struct {
	Dir  string
	Name string
	ID   string
}

// Locate finds the crate root starting at startDir. cargo's own metadata
// query is authoritative for workspace layouts and is preferred whenever
// cargo can be run; walking the directory tree up to the first Cargo.toml
// is the fallback.
func Locate(cargoBin, startDir string) (*Root, error) {
	root, err := locateMetadata(cargoBin, startDir)
	if err == nil {
		return root, nil
	}
	log.Debugf("cargo metadata unavailable (%v), walking the directory tree instead", err)
	return locateWalk(startDir)
}

func locateMetadata(cargoBin, dir string) (*Root, error) {
	cmd := exec.Command(cargoBin, "metadata", "--no-deps", "--format-version", "1")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return parseMetadata(out)
}

type metadata struct {
	Packages []struct {
		Name         string `json:"name"`
		ID           string `json:"id"`
		ManifestPath string `json:"manifest_path"`
	} `json:"packages"`
	WorkspaceRoot string `json:"workspace_root"`
}

// parseMetadata extracts the workspace root and the root package identity
// from a cargo metadata document. The root package is the one whose
// manifest sits directly in the workspace root; a virtual workspace falls
// back to the first listed member.
func parseMetadata(data []byte) (*Root, error) {
	var meta metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode cargo metadata: %w", err)
	}
	if meta.WorkspaceRoot == "" || len(meta.Packages) == 0 {
		return nil, errors.New("cargo metadata reported no packages")
	}
	root := &Root{Dir: meta.WorkspaceRoot}
	rootManifest := filepath.Join(meta.WorkspaceRoot, "Cargo.toml")
	for _, p := range meta.Packages {
		if filepath.Clean(p.ManifestPath) == rootManifest {
			root.Name, root.ID = p.Name, p.ID
			break
		}
	}
	if root.Name == "" {
		root.Name, root.ID = meta.Packages[0].Name, meta.Packages[0].ID
	}
	return root, nil
}

// locateWalk starts at startDir and follows parent directories until one
// directly contains a Cargo.toml regular file.
func locateWalk(startDir string) (*Root, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		if fi, err := os.Stat(filepath.Join(dir, "Cargo.toml")); err == nil && fi.Mode().IsRegular() {
			return &Root{Dir: dir}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("%w in %s or any parent directory", ErrManifestNotFound, startDir)
		}
		dir = parent
	}
}
