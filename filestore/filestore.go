package filestore

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ContentReader is a function that reads file content given a file path.
// This allows the caller to control how files are read (filesystem, in-memory, etc.)
type ContentReader func(filePath string) ([]byte, error)

// ContentWriter is a function that writes file content given a file path.
type ContentWriter func(filePath string, data []byte) error

// FileInfo captures the identity of a file's content at a point in time.
// Two reads of an unchanged file yield equal FileInfo values.
type FileInfo struct {
	Size    int64
	ModTime time.Time
}

// StatFunc reports FileInfo for a file path.
type StatFunc func(filePath string) (FileInfo, error)

// Store bundles the read, write, and stat capabilities a session needs.
// Callers supply their own implementations to read from places other
// than the filesystem.
type Store struct {
	Read  ContentReader
	Write ContentWriter
	Stat  StatFunc
}

// OS returns a Store backed by the local filesystem. Writes are atomic:
// content lands in a temporary file in the target directory and is
// renamed into place.
func OS() Store {
	return Store{
		Read:  os.ReadFile,
		Write: writeAtomic,
		Stat: func(filePath string) (FileInfo, error) {
			info, err := os.Stat(filePath)
			if err != nil {
				return FileInfo{}, err
			}
			return FileInfo{Size: info.Size(), ModTime: info.ModTime()}, nil
		},
	}
}

func writeAtomic(filePath string, data []byte) error {
	dir := filepath.Dir(filePath)

	tmp, err := os.CreateTemp(dir, ".unfurl-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(filePath); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}

	return nil
}

// Canonical converts a file path to its canonical absolute form. All
// identity comparisons between file paths go through this.
func Canonical(filePath string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", filePath, err)
	}
	return absPath, nil
}
