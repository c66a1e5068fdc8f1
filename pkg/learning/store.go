package learning

import (
	"context"
	"errors"
)

// ErrModelNotFound is returned when a store holds no model
var ErrModelNotFound = errors.New("model not found")

// ModelStore persists trained models
type ModelStore interface {
	Save(ctx context.Context, m *Model) error
	Load(ctx context.Context) (*Model, error)
	Reset(ctx context.Context) error
	Close() error
}

// Ensure both implementations satisfy the interface
var _ ModelStore = (*FileStore)(nil)  // File-based implementation
var _ ModelStore = (*RedisStore)(nil) // Redis implementation
