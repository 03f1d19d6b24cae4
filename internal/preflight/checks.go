package preflight

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"vttscribe/internal/failure"
)

// ErrPreflight marks every failure reported by this package.
var ErrPreflight = failure.ErrPreflight

// Result reports the outcome of a single check for the doctor table.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckInput ensures path names a readable regular file.
func CheckInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: input %s does not exist", ErrPreflight, path)
		}
		return fmt.Errorf("%w: stat input: %w", ErrPreflight, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: input %s is a directory", ErrPreflight, path)
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return fmt.Errorf("%w: input %s is not readable: %w", ErrPreflight, path, err)
	}
	return nil
}

// CheckOutputDir ensures dir exists and the current user may create files in it.
func CheckOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: output directory %s does not exist", ErrPreflight, dir)
		}
		return fmt.Errorf("%w: stat output directory: %w", ErrPreflight, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: output directory %s is not a directory", ErrPreflight, dir)
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: output directory %s is not writable: %w", ErrPreflight, dir, err)
	}
	return nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}
