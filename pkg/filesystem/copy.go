package filesystem

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/dotsync/pkg/types"
)

// CopyFile copies src to dst, creating dst's parent directories.
// dst ends up with the permission bits of src, also when it already existed.
func CopyFile(fs types.FS, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("cannot copy directory %s", src)
	}

	content, err := fs.ReadFile(src)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", src, err)
	}

	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("cannot create directory for %s: %w", dst, err)
	}

	if err := fs.WriteFile(dst, content, info.Mode().Perm()); err != nil {
		return fmt.Errorf("cannot write %s: %w", dst, err)
	}
	if err := fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("cannot set mode of %s: %w", dst, err)
	}
	return nil
}

// Exists reports whether name exists. Errors other than "not found" are
// returned so callers don't mistake an unreadable path for a missing one.
func Exists(fs types.FS, name string) (bool, error) {
	_, err := fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}
