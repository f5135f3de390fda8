package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// filesystemStore keeps one file per asset in a flat directory
type filesystemStore struct {
	mu      sync.RWMutex
	rootDir string
}

// NewFilesystemStore creates a store backed by rootDir, creating the
// directory if needed.
func NewFilesystemStore(rootDir string) (Store, error) {
	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}

	return &filesystemStore{
		rootDir: rootDir,
	}, nil
}

// assetPath returns the filesystem path for an asset
func (s *filesystemStore) assetPath(name string) string {
	return filepath.Join(s.rootDir, name)
}

// PutAsset writes the asset atomically via a temporary file.
func (s *filesystemStore) PutAsset(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.rootDir, ".tmp-"+name+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write asset data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close asset file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.assetPath(name)); err != nil {
		return fmt.Errorf("failed to store asset: %w", err)
	}
	return nil
}

// GetAsset reads name, or name with one of the known extensions appended.
func (s *filesystemStore) GetAsset(ctx context.Context, name string) (*Asset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := []string{name}
	for _, ext := range Extensions {
		candidates = append(candidates, name+ext)
	}

	for _, candidate := range candidates {
		path := s.assetPath(candidate)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat asset: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset data: %w", err)
		}
		return &Asset{
			Name:       candidate,
			Content:    data,
			Size:       int64(len(data)),
			ModifiedAt: info.ModTime(),
		}, nil
	}

	return nil, ErrAssetNotFound
}

// DeleteAsset deletes an asset file
func (s *filesystemStore) DeleteAsset(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.assetPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrAssetNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete asset file: %w", err)
	}
	return nil
}

// ListAssets lists the asset files in the root directory
func (s *filesystemStore) ListAssets(ctx context.Context) ([]Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	var assets []Asset
	for _, entry := range entries {
		if entry.IsDir() || ValidateName(entry.Name()) != nil || entry.Name()[0] == '.' {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat asset: %w", err)
		}
		assets = append(assets, Asset{
			Name:       entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

// Ping checks if the storage backend is accessible
func (s *filesystemStore) Ping(ctx context.Context) error {
	info, err := os.Stat(s.rootDir)
	if err != nil {
		return fmt.Errorf("failed to access root directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", s.rootDir)
	}
	return nil
}
