// Package storage provides the sources mapping assets are read from.
package storage

import (
	"context"
	"strings"
	"time"
)

// Store defines the interface for mapping asset operations
type Store interface {
	// Asset operations
	GetAsset(ctx context.Context, name string) (*Asset, error)
	PutAsset(ctx context.Context, name string, data []byte) error
	DeleteAsset(ctx context.Context, name string) error
	ListAssets(ctx context.Context) ([]Asset, error)

	// Health check
	Ping(ctx context.Context) error
}

// Asset is a raw mapping table as stored, before normalization.
type Asset struct {
	Name       string    `json:"name"`
	Content    []byte    `json:"-"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Extensions lists the asset file extensions a bare asset name resolves to,
// in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// ValidateName rejects names that could escape the store's namespace.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}

// Common errors
var (
	ErrAssetNotFound = &Error{"asset not found"}
	ErrInvalidName   = &Error{"invalid asset name"}
)

// Error represents a storage error
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}
