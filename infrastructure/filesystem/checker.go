package filesystem

import (
	"errors"
	"io/fs"
	"os"

	"vidtrim/domain/video"
)

// Checker implements video.FileSystem using the os package
type Checker struct{}

// NewChecker creates a new filesystem checker
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists. A missing file is not an error;
// permission and other stat failures are.
func (c *Checker) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Remove deletes the file at path
func (c *Checker) Remove(path string) error {
	return os.Remove(path)
}

// Ensure Checker implements video.FileSystem
var _ video.FileSystem = (*Checker)(nil)
