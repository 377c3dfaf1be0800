// Package fsutil holds the file primitives every shellkit store relies on:
// crash-safe whole-file replacement and recursive copies.
package fsutil

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// FilePerm is the mode for configuration files.
	FilePerm os.FileMode = 0644
	// SecretPerm is the mode for files holding encrypted material.
	SecretPerm os.FileMode = 0600
	// DirPerm is the mode for directories created on demand.
	DirPerm os.FileMode = 0755
)

// AtomicWriteFile replaces path with data.
//
// The data goes to a temporary file in the same directory, is fsynced and
// closed, then renamed over the target. A crash leaves either the old file
// or the new complete one. Missing parent directories are created.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir := filepath.Dir(absPath)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := f.Name()

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync data to disk: %w", err)
	}

	// Close before rename - required on Windows
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}

	if err := os.Rename(tempPath, absPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// PreservePerm returns the mode of an existing file, or fallback when the
// file does not exist yet.
func PreservePerm(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// EnsureFile creates an empty file at path if nothing exists there yet.
func EnsureFile(path string) error {
	if Exists(path) {
		return nil
	}
	return AtomicWriteFile(path, nil, FilePerm)
}

// CopyFile copies a regular file, keeping its permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return AtomicWriteFile(dst, data, info.Mode().Perm())
}

// CopyDir copies the tree rooted at src into dst. dst must not exist.
func CopyDir(src, dst string) error {
	if Exists(dst) {
		return fmt.Errorf("destination %s already exists", dst)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(target, info.Mode().Perm())
		}

		if !d.Type().IsRegular() {
			// Symlinks and devices are not part of a profile.
			return nil
		}
		return CopyFile(path, target)
	})
}
