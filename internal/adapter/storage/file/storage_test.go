package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/catalog/domain"
	"github.com/Abdurahmanit/GroupProject/catalog-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoragePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "device", "session.json")

	first := NewStorage(path, logger.NewNop())
	require.NoError(t, first.Set(ctx, domain.KeyFavorites, `["a","b"]`))
	require.NoError(t, first.Set(ctx, domain.KeyIsAuthenticated, "true"))

	second := NewStorage(path, logger.NewNop())
	v, err := second.Get(ctx, domain.KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, v)

	require.NoError(t, second.Delete(ctx, domain.KeyIsAuthenticated))
	_, err = first.Get(ctx, domain.KeyIsAuthenticated)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStorageMissingFileIsEmpty(t *testing.T) {
	s := NewStorage(filepath.Join(t.TempDir(), "none.json"), logger.NewNop())

	_, err := s.Get(context.Background(), domain.KeyUserEmail)

	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStorageCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := NewStorage(path, logger.NewNop())

	_, err := s.Get(context.Background(), domain.KeyFavorites)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStorageLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(filepath.Join(dir, "session.json"), logger.NewNop())
	require.NoError(t, s.Set(context.Background(), "k", "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestStorageWritesReplaceCorruptFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := NewStorage(path, logger.NewNop())

	require.NoError(t, s.Set(ctx, domain.KeyFavorites, `["1"]`))

	v, err := NewStorage(path, logger.NewNop()).Get(ctx, domain.KeyFavorites)
	require.NoError(t, err)
	assert.Equal(t, `["1"]`, v)

	aside, err := os.ReadFile(path + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(aside))
}

func TestStorageDeleteReplacesCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o600))
	s := NewStorage(path, logger.NewNop())

	require.NoError(t, s.Delete(ctx, domain.KeyIsAuthenticated, domain.KeyUserEmail))

	_, err := s.Get(ctx, domain.KeyUserEmail)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}
