// Package version provides the engine version and "major.minor" parsing
// and comparison, used to gate model files written by newer engines.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current is the engine version.
const Current = "1.0"

// Version represents a parsed "major.minor" version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compare returns -1, 0, or 1 if v is older than, equal to, or newer
// than other.
func (v Version) Compare(other Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// Compatible reports whether a model file written by fileVersion can be
// loaded by this engine: same major, file minor not newer.
func Compatible(fileVersion string) bool {
	file, err := Parse(fileVersion)
	if err != nil {
		return false
	}
	cur, err := Parse(Current)
	if err != nil {
		return false
	}
	return file.Major == cur.Major && file.Minor <= cur.Minor
}
