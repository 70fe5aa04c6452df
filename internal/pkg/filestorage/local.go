package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage keeps uploaded spreadsheets on the local filesystem under a
// base directory. Files are renamed to a UUID to avoid collisions between
// terminals uploading identically named exports.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Save implements Storage. The original extension is preserved because the
// workbook reader selects its parser by extension.
func (s *LocalStorage) Save(content io.Reader, originalName string) (string, error) {
	name := uuid.New().String() + filepath.Ext(originalName)
	storedPath := filepath.Join(s.basePath, name)

	f, err := os.Create(storedPath)
	if err != nil {
		return "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		os.Remove(storedPath)
		return "", fmt.Errorf("failed to write stored file: %w", err)
	}

	return storedPath, nil
}

// Open implements Storage.
func (s *LocalStorage) Open(storedPath string) (io.ReadSeekCloser, error) {
	f, err := os.Open(storedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open stored file: %w", err)
	}
	return f, nil
}

// Remove implements Storage.
func (s *LocalStorage) Remove(storedPath string) error {
	if storedPath == "" {
		return nil
	}
	return os.Remove(storedPath)
}
