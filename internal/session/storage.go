package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotPersisted is returned by Storage.Read when no session has been saved.
var ErrNotPersisted = errors.New("no persisted session")

// Storage is the durable home of the serialized session, a single opaque entry.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Remove() error
}

// FileStorage keeps the session in one JSON file. Writes go through a
// temp-file rename so a crash never leaves a half-written session behind.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotPersisted
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	return data, nil
}

func (f *FileStorage) Write(data []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

func (f *FileStorage) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
