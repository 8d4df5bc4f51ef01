// Package frames defines the naming scheme for frame packages and infers
// the frame range from the workspace layout.
//
// Frame packages live under the pnpm workspace as apps/frames/frame-XXXX
// and are published as @bad-apple/frame-XXXX, where XXXX is the 4-digit
// zero-padded frame index.
package frames

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// Scope is the pnpm workspace scope frame packages belong to
	Scope = "@bad-apple"

	// DirPrefix is the directory name prefix of a frame package
	DirPrefix = "frame-"

	// indexDigits is the zero-padded width of a frame index
	indexDigits = 4
)

// DefaultDir is the workspace-relative directory holding frame packages
const DefaultDir = "apps/frames"

// Package returns the pnpm package name for frame n, e.g. "@bad-apple/frame-0042".
func Package(n int) string {
	return fmt.Sprintf("%s/%s%0*d", Scope, DirPrefix, indexDigits, n)
}

// DirName returns the directory name for frame n, e.g. "frame-0042".
func DirName(n int) string {
	return fmt.Sprintf("%s%0*d", DirPrefix, indexDigits, n)
}

// ParseDirName extracts the frame index from a directory name.
// Only names of the form "frame-" followed by exactly 4 digits match.
func ParseDirName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, DirPrefix)
	if !ok {
		return 0, false
	}

	if len(rest) != indexDigits {
		return 0, false
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}

	return n, true
}

// InferEnd scans dir for frame package directories and returns the highest
// frame index found. Returns 0 when the directory cannot be read or holds
// no frame directories; callers treat 0 as an unresolvable range.
func InferEnd(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	end := 0
	for _, ent := range entries {
		n, ok := ParseDirName(ent.Name())
		if !ok {
			continue
		}
		if n > end {
			end = n
		}
	}

	return end
}
