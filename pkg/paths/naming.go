package paths

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// SegmentSeparator joins home path segments into a flat repo file name
const SegmentSeparator = "__"

// SynthesizeRepoName picks an unused file name inside baseFolder for a file
// known by its home-relative path.
//
// The name starts as the final path segment. While a file with that name
// exists, the next parent segment is prepended: ".config/git/config" tries
// "config", then "git__config", then "_.config__git__config". Segments that
// start with a dot get an underscore prefix. When every segment is used and
// the name is still taken, "~2", "~3", ... is appended.
//
// reserved lists absolute paths that count as taken even when nothing is on
// disk there yet, such as the repo's own state documents.
//
// The returned name is relative to baseFolder. It is only guaranteed unused
// at call time; the caller is expected to create it right away.
func SynthesizeRepoName(fs types.FS, baseFolder, homeRelative string, reserved ...string) (string, error) {
	segments := splitSegments(homeRelative)
	if len(segments) == 0 {
		return "", errors.Newf(errors.ErrInvalidInput, "cannot derive a repo name from %q", homeRelative)
	}
	taken := make(map[string]bool, len(reserved))
	for _, r := range reserved {
		taken[filepath.Clean(r)] = true
	}

	var parts []string
	for i := len(segments) - 1; i >= 0; i-- {
		parts = append([]string{escapeSegment(segments[i])}, parts...)
		name := strings.Join(parts, SegmentSeparator)
		free, err := isFree(fs, baseFolder, name, taken)
		if err != nil {
			return "", err
		}
		if free {
			return name, nil
		}
	}

	full := strings.Join(parts, SegmentSeparator)
	for n := 2; ; n++ {
		name := fmt.Sprintf("%s~%d", full, n)
		free, err := isFree(fs, baseFolder, name, taken)
		if err != nil {
			return "", err
		}
		if free {
			return name, nil
		}
	}
}

func splitSegments(homeRelative string) []string {
	cleaned := path.Clean(filepath.ToSlash(homeRelative))
	var segments []string
	for _, seg := range strings.Split(cleaned, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segments = append(segments, seg)
	}
	return segments
}

func escapeSegment(seg string) string {
	if strings.HasPrefix(seg, ".") {
		return "_" + seg
	}
	return seg
}

func isFree(fs types.FS, baseFolder, name string, taken map[string]bool) (bool, error) {
	candidate := filepath.Join(baseFolder, name)
	if taken[candidate] {
		return false, nil
	}
	exists, err := filesystem.Exists(fs, candidate)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrIOFailure, "cannot check %s", name)
	}
	return !exists, nil
}
