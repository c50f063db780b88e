package cargo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hdkrs/hdkbuild/internal/project"
)

// OutDir records the output directory a build script produced for one
// tracked package. The Name is either the root package name or one of the
// configured dependency names.
type OutDir struct {
	Name string
	Path string
}

// buildEvent is the subset of cargo's JSON message stream consumed here.
type buildEvent struct {
	Reason    string `json:"reason"`
	PackageID string `json:"package_id"`
	OutDir    string `json:"out_dir"`
}

const reasonBuildScript = "build-script-executed"

// decodeOutDirs reads a cargo --message-format=json stream and extracts
// one OutDir record per build-script-executed event belonging to the root
// package or to one of the tracked dependency names. Records keep stream
// order, so a later record for the same name wins once persisted. Any
// event that fails to decode aborts the scan.
func decodeOutDirs(r io.Reader, root *project.Root, deps []string) ([]OutDir, error) {
	dec := json.NewDecoder(r)
	var records []OutDir
	for {
		var ev buildEvent
		if err := dec.Decode(&ev); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("malformed build event stream: %w", err)
		}
		if ev.Reason != reasonBuildScript {
			continue
		}
		if name, ok := matchPackage(ev.PackageID, root, deps); ok {
			records = append(records, OutDir{Name: name, Path: ev.OutDir})
		}
	}
	return records, nil
}

// matchPackage maps a build event's package identity to the name its
// OUT_DIR is tracked under. The root package is matched by exact identity
// when the metadata query supplied one, by name substring otherwise;
// dependencies are always matched by name substring.
func matchPackage(pkgID string, root *project.Root, deps []string) (string, bool) {
	if root.Name != "" {
		if root.ID != "" {
			if pkgID == root.ID {
				return root.Name, true
			}
		} else if strings.Contains(pkgID, root.Name) {
			return root.Name, true
		}
	}
	for _, dep := range deps {
		if strings.Contains(pkgID, dep) {
			return dep, true
		}
	}
	return "", false
}
