package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zrxcoding/Gaming/internal/models"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "profiles.json")
	store, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	return store, path
}

func TestFileStore(t *testing.T) {
	store, _ := newTestFileStore(t)
	testProfileStore(t, store)
}

func TestFileStoreDocumentFormat(t *testing.T) {
	ctx := context.Background()
	store, path := newTestFileStore(t)

	require.NoError(t, store.SaveProfile(ctx, "42", "Poco X3", models.GameBGMI))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]map[string]string
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]map[string]string{
		"42": {"device": "Poco X3", "game": "bgmi"},
	}, doc)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, path := newTestFileStore(t)
	require.NoError(t, store.SaveProfile(ctx, "42", "iPhone 12", models.GameCOD))

	reopened, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)

	p, err := reopened.GetProfile(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 12", p.Device)
	assert.Equal(t, models.GameCOD, p.Game)
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	store, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.GetProfile(ctx, "42")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	// the next save replaces the corrupt document
	require.NoError(t, store.SaveProfile(ctx, "42", "Poco X3", models.GameFreeFire))
	p, err := store.GetProfile(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Poco X3", p.Device)
}

func TestFileStoreEmptyFile(t *testing.T) {
	store, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := store.GetProfile(context.Background(), "42")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestFileStoreUnreadableFileIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store, path := newTestFileStore(t)

	// a directory in place of the document makes every read fail
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644))

	_, err := store.GetProfile(ctx, "42")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	err = store.SaveProfile(ctx, "42", "Poco X3", models.GameBGMI)
	assert.ErrorContains(t, err, "read profiles file")

	_, err = os.Stat(filepath.Join(path, "keep"))
	assert.NoError(t, err)
}
