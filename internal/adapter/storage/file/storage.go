// Package file persists the key-value snapshot as one JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"go.uber.org/zap"
)

var errCorrupt = errors.New("file storage: corrupt snapshot")

type Storage struct {
	mu     sync.Mutex
	path   string
	logger *logger.Logger
}

// NewStorage does not touch the disk; a missing file reads as empty storage.
func NewStorage(path string, log *logger.Logger) *Storage {
	return &Storage{path: path, logger: log.Named("file_storage")}
}

func (s *Storage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (s *Storage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readForWrite()
	if err != nil {
		return err
	}
	values[key] = value
	return s.write(values)
}

func (s *Storage) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.readForWrite()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(values, k)
	}
	return s.write(values)
}

func (s *Storage) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("file storage: read %s: %w", s.path, err)
	}
	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errCorrupt, s.path, err)
	}
	return values, nil
}

// readForWrite starts over from empty storage when the file cannot be
// decoded. The bad file is kept next to it with a .corrupt suffix.
func (s *Storage) readForWrite() (map[string]string, error) {
	values, err := s.read()
	if !errors.Is(err, errCorrupt) {
		return values, err
	}
	aside := s.path + ".corrupt"
	if rerr := os.Rename(s.path, aside); rerr != nil {
		s.logger.Warn("could not move corrupt snapshot aside", zap.String("path", s.path), zap.Error(rerr))
	} else {
		s.logger.Warn("corrupt snapshot replaced", zap.String("path", s.path), zap.String("moved_to", aside), zap.Error(err))
	}
	return make(map[string]string), nil
}

// write replaces the file atomically through a temp file in the same dir.
func (s *Storage) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("file storage: encode: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file storage: create dir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("file storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file storage: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file storage: replace %s: %w", s.path, err)
	}
	return nil
}
