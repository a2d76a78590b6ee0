// Package hasher fingerprints file content for conflict detection.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/types"
)

// Hash returns the hex encoded SHA-256 digest of the file at path.
func Hash(fs types.FS, path string) (string, error) {
	content, err := fs.ReadFile(path)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrNotFound, "cannot hash %s", path).
				WithDetail("path", path)
		}
		return "", errors.Wrapf(err, errors.ErrIOFailure, "cannot hash %s", path).
			WithDetail("path", path)
	}
	return Sum(content), nil
}

// Sum returns the hex encoded SHA-256 digest of content.
func Sum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
