package filesystem

import (
	"errors"
	"io/fs"
	"os"
)

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// IsNotExist reports whether err means the file does not exist.
func IsNotExist(err error) bool {
	return isNotExist(err)
}
