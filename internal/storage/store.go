// Package storage keeps uploads and run outputs in a flat namespace of named objects.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Kavirubc/tplcheck/internal/config"
)

// Store defines operations for persisting uploads, result workbooks and charts.
// Put replaces any existing object of the same name wholesale.
type Store interface {
	Put(ctx context.Context, name string, content []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// ErrNotFound is returned by Get when no object has the given name.
var ErrNotFound = errors.New("object not found")

// ErrInvalidName is returned for names that reduce to nothing usable.
var ErrInvalidName = errors.New("invalid object name")

// New creates the store selected by cfg.Backend.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "filesystem":
		return NewFileStore(cfg.Dir)
	case "s3":
		return NewS3Store(cfg.S3)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}

// CleanName reduces name to its last path element so every object lives at the top level.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	base := path.Base(name)
	if name == "" || base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
