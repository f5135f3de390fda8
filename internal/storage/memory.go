package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryStore is an in-memory implementation of the Store interface
type memoryStore struct {
	mu     sync.RWMutex
	assets map[string]Asset
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() Store {
	return &memoryStore{
		assets: make(map[string]Asset),
	}
}

func (s *memoryStore) PutAsset(ctx context.Context, name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	content := make([]byte, len(data))
	copy(content, data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.assets[name] = Asset{
		Name:       name,
		Content:    content,
		Size:       int64(len(content)),
		ModifiedAt: time.Now(),
	}
	return nil
}

// GetAsset returns the asset stored under name, or under name with one of
// the known extensions appended.
func (s *memoryStore) GetAsset(ctx context.Context, name string) (*Asset, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	asset, ok := s.assets[name]
	for i := 0; !ok && i < len(Extensions); i++ {
		asset, ok = s.assets[name+Extensions[i]]
	}
	if !ok {
		return nil, ErrAssetNotFound
	}

	result := asset
	result.Content = make([]byte, len(asset.Content))
	copy(result.Content, asset.Content)
	return &result, nil
}

func (s *memoryStore) DeleteAsset(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.assets[name]; !ok {
		return ErrAssetNotFound
	}
	delete(s.assets, name)
	return nil
}

func (s *memoryStore) ListAssets(ctx context.Context) ([]Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assets := make([]Asset, 0, len(s.assets))
	for _, a := range s.assets {
		a.Content = nil
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Name < assets[j].Name })
	return assets, nil
}

func (s *memoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
