package learning

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps a model as an indented JSON document on disk
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the model file path
func (fs *FileStore) Path() string {
	return fs.path
}

// Save saves the model to a file
func (fs *FileStore) Save(_ context.Context, m *Model) error {
	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create model directory: %w", err)
		}
	}

	file, err := os.Create(fs.path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(m); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}

	return nil
}

// Load loads a model from a file
func (fs *FileStore) Load(_ context.Context) (*Model, error) {
	file, err := os.Open(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, fs.path)
		}
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	var m Model
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	return &m, nil
}

// Reset removes the model file
func (fs *FileStore) Reset(_ context.Context) error {
	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close is a no-op for file storage
func (fs *FileStore) Close() error {
	return nil
}
