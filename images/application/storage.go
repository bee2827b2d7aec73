package application

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage writes validated upload bytes into the content-store directory
// under generated, collision-free names.
type Storage struct {
	dir string
}

// NewStorage ensures the content-store directory exists and returns a
// Storage rooted there.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content store directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// Dir returns the content-store directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Store writes content under a fresh name built from a random 128-bit token
// rendered as lowercase hex plus the original extension. Names are never
// derived from client input.
func (s *Storage) Store(content []byte, ext string) (string, error) {
	token := uuid.New()
	name := hex.EncodeToString(token[:]) + ext

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", name, err)
	}

	return name, nil
}

// Remove deletes a stored file. The name is reduced to its base so repository
// data can never point removal outside the content store.
func (s *Storage) Remove(storedName string) error {
	path := filepath.Join(s.dir, filepath.Base(storedName))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", storedName, err)
	}
	return nil
}
