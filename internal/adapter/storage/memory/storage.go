package memory

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
)

// Storage keeps values in process memory; nothing survives a restart.
type Storage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStorage() *Storage {
	return &Storage{values: make(map[string]string)}
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Storage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}
