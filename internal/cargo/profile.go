package cargo

import "strings"

// Profile selects between the two build configurations understood by both
// cargo and the CMake side of the build.
type Profile int

const (
	Debug Profile = iota
	Release
)

// ResolveProfile scans the forwarded cargo build arguments: the exact
// element "--release" anywhere selects Release, anything else is Debug.
// Prefixed forms such as "--release-mode" do not count.
func ResolveProfile(args []string) Profile {
	for _, a := range args {
		if a == "--release" {
			return Release
		}
	}
	return Debug
}

// String returns the CMAKE_BUILD_TYPE spelling of the profile.
func (p Profile) String() string {
	if p == Release {
		return "Release"
	}
	return "Debug"
}

// DirName returns the build-directory suffix spelling of the profile.
func (p Profile) DirName() string {
	return strings.ToLower(p.String())
}
