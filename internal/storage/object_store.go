package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrObjectNotFound is returned by Read and Stat when no binary exists at
// the given key. Delete treats absence as success (idempotent).
var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes a stored binary.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

// ObjectStore is a durable store for brochure binaries, keyed by
// brochures/{brandID}/{filename}.
type ObjectStore interface {
	Write(key string, data []byte) error
	Read(key string) ([]byte, error)
	Stat(key string) (*ObjectInfo, error)
	Delete(key string) error
	// DeletePrefix removes every object under a key prefix. Used by the
	// lifecycle manager to drop a brand's whole brochure directory.
	DeletePrefix(prefix string) error
}

// FileStore implements ObjectStore on the local filesystem.
// Objects live at {baseDir}/{key}; the key's slashes become directories.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a FileStore, ensuring the base directory exists.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("creating object store directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the filesystem path for a key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key))
}

// Write stores a binary at the given key, creating parent directories.
func (s *FileStore) Write(key string, data []byte) error {
	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing object %s: %w", key, err)
	}
	return nil
}

// Read returns the stored bytes for a key.
func (s *FileStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("reading object %s: %w", key, err)
	}
	return data, nil
}

// Stat returns object metadata, or ErrObjectNotFound.
func (s *FileStore) Stat(key string) (*ObjectInfo, error) {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("stating object %s: %w", key, err)
	}
	return &ObjectInfo{Key: key, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Delete removes a stored binary. Deleting a missing object is a no-op.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes all objects under a prefix. Missing prefix is a no-op.
func (s *FileStore) DeletePrefix(prefix string) error {
	if err := os.RemoveAll(s.Path(prefix)); err != nil {
		return fmt.Errorf("deleting prefix %s: %w", prefix, err)
	}
	return nil
}
