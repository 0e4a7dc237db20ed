package kv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"syscall"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// File stores each key as its own file inside a directory.
// Reads and writes hold an exclusive lock on a per-key lock file, and writes
// go through a temp file and rename so readers never see partial values.
type File struct {
	dir string
}

// OpenFile returns a file store rooted at dir, creating dir if needed.
func OpenFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store directory is not configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) valuePath(key string) string {
	return filepath.Join(f.dir, fileName(key)+".json")
}

func (f *File) lockPath(key string) string {
	return filepath.Join(f.dir, fileName(key)+".lock")
}

func fileName(key string) string {
	return unsafeKeyChars.ReplaceAllString(key, "_")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := withFileLock(f.lockPath(key), func() error {
		var err error
		data, err = os.ReadFile(f.valuePath(key))
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	return withFileLock(f.lockPath(key), func() error {
		path := f.valuePath(key)
		if existing, err := os.ReadFile(path); err == nil {
			if bytes.Equal(existing, value) {
				return nil
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", key, err)
		}
		return writeFileAtomic(path, value)
	})
}

func (f *File) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	return withFileLock(f.lockPath(key), func() error {
		err := os.Remove(f.valuePath(key))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		return nil
	})
}

func (f *File) Close() error {
	return nil
}

// withFileLock executes fn while holding an exclusive lock on the file at path.
// Creates the file if it doesn't exist.
func withFileLock(path string, fn func() error) error {
	lockFile, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	return fn()
}

func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if err1 := tmpFile.Close(); err1 != nil && err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
