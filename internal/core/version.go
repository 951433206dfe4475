package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pubwatch/internal/types"
)

// CompatMarker is the "compatible with" prefix a constraint may carry.
const CompatMarker = "^"

// ParseVersion parses a three-component version string. At most one
// leading compat marker is stripped before parsing. Major and minor are
// required integers; a missing patch defaults to 0. Pre-release or
// build-metadata suffixes and extra components are rejected rather than
// silently misparsed.
func ParseVersion(raw string) (types.Version, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, CompatMarker)
	if trimmed == "" {
		return types.Version{}, malformedVersion(raw)
	}
	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return types.Version{}, malformedVersion(raw)
	}
	major, err := versionComponent(parts[0])
	if err != nil {
		return types.Version{}, malformedVersion(raw)
	}
	minor, err := versionComponent(parts[1])
	if err != nil {
		return types.Version{}, malformedVersion(raw)
	}
	patch := 0
	if len(parts) == 3 {
		patch, err = versionComponent(parts[2])
		if err != nil {
			return types.Version{}, malformedVersion(raw)
		}
	}
	return types.Version{Major: major, Minor: minor, Patch: patch}, nil
}

// CompareVersions orders two parsed versions lexicographically over
// (major, minor, patch).
func CompareVersions(a types.Version, b types.Version) types.Ordering {
	if a.Major != b.Major {
		return orderInts(a.Major, b.Major)
	}
	if a.Minor != b.Minor {
		return orderInts(a.Minor, b.Minor)
	}
	return orderInts(a.Patch, b.Patch)
}

// HasCompatMarker reports whether a constraint carries the compat prefix.
func HasCompatMarker(constraint string) bool {
	return strings.HasPrefix(strings.TrimSpace(constraint), CompatMarker)
}

func versionComponent(token string) (int, error) {
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	if value < 0 {
		return 0, fmt.Errorf("negative version component: %d", value)
	}
	return value, nil
}

func orderInts(a int, b int) types.Ordering {
	if a < b {
		return types.OrderingLess
	}
	if a > b {
		return types.OrderingGreater
	}
	return types.OrderingEqual
}

func malformedVersion(raw string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("malformed version: %s", raw))
}
