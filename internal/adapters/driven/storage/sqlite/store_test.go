package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
)

func sampleArtifact() *driven.IndexArtifact {
	return &driven.IndexArtifact{
		Meta: driven.IndexMeta{
			BuildID:    "build-1",
			Model:      "text-embedding-004",
			Dimensions: 3,
			BuiltAt:    time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC),
		},
		Chunks: []domain.Chunk{
			{PageNumber: 3, RuleID: "<SG1>", Content: "Robots must fit within 18 inches."},
			{PageNumber: 9, RuleID: "<R25>", Content: "A limited amount of custom plastic is allowed."},
		},
		Vectors: [][]float32{
			{0.1, -0.2, 0.3},
			{1.5, 0, -3.25},
		},
	}
}

func TestIndexStore_SaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "index.db")
	store := NewIndexStore(path)
	want := sampleArtifact()

	require.NoError(t, store.Save(context.Background(), want))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want.Meta, got.Meta)
	assert.Equal(t, want.Chunks, got.Chunks)
	assert.Equal(t, want.Vectors, got.Vectors)
	assert.Equal(t, path, store.Path())
}

func TestIndexStore_Save_ReplacesPreviousBuild(t *testing.T) {
	store := NewIndexStore(filepath.Join(t.TempDir(), "index.db"))
	first := sampleArtifact()
	require.NoError(t, store.Save(context.Background(), first))

	second := sampleArtifact()
	second.Meta.BuildID = "build-2"
	second.Chunks = second.Chunks[:1]
	second.Vectors = second.Vectors[:1]
	require.NoError(t, store.Save(context.Background(), second))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "build-2", got.Meta.BuildID)
	assert.Len(t, got.Chunks, 1)
}

func TestIndexStore_Save_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewIndexStore(filepath.Join(dir, "index.db"))

	require.NoError(t, store.Save(context.Background(), sampleArtifact()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.db", entries[0].Name())
}

func TestIndexStore_Save_RejectsMisaligned(t *testing.T) {
	dir := t.TempDir()
	store := NewIndexStore(filepath.Join(dir, "index.db"))

	artifact := sampleArtifact()
	artifact.Vectors = artifact.Vectors[:1]
	assert.ErrorIs(t, store.Save(context.Background(), artifact), domain.ErrIndexCorrupt)

	artifact = sampleArtifact()
	artifact.Vectors[1] = []float32{1}
	assert.ErrorIs(t, store.Save(context.Background(), artifact), domain.ErrIndexCorrupt)

	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestIndexStore_Save_FailureKeepsOldArtifact(t *testing.T) {
	store := NewIndexStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, store.Save(context.Background(), sampleArtifact()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	replacement := sampleArtifact()
	replacement.Meta.BuildID = "never"
	assert.Error(t, store.Save(ctx, replacement))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "build-1", got.Meta.BuildID)
}

func TestIndexStore_Load_Missing(t *testing.T) {
	store := NewIndexStore(filepath.Join(t.TempDir(), "absent.db"))

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestIndexStore_Load_NotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	require.NoError(t, os.WriteFile(path, []byte("definitely not sqlite, just some bytes to read"), 0600))
	store := NewIndexStore(path)

	_, err := store.Load(context.Background())

	assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
}

func TestIndexStore_Load_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	store := NewIndexStore(path)
	require.NoError(t, store.Save(context.Background(), sampleArtifact()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrIndexCorrupt)

	db, err := openDB(path)
	require.NoError(t, err)
	defer db.Close()

	var meta driven.IndexMeta
	err = readMeta(ctx, db, &meta)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrIndexCorrupt)

	err = readChunks(ctx, db, &driven.IndexArtifact{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrIndexCorrupt)

	// A cancelled read leaves the artifact intact.
	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "build-1", got.Meta.BuildID)
}

func TestIndexStore_Load_DetectsGapsAndBadVectors(t *testing.T) {
	tests := []struct {
		name   string
		mutate string
	}{
		{"position gap", "UPDATE chunks SET position = 5 WHERE position = 1"},
		{"short vector", "UPDATE chunks SET vector = x'00000000' WHERE position = 0"},
		{"missing meta", "DELETE FROM index_meta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.db")
			store := NewIndexStore(path)
			require.NoError(t, store.Save(context.Background(), sampleArtifact()))

			db, err := sql.Open("sqlite", path)
			require.NoError(t, err)
			_, err = db.Exec(tt.mutate)
			require.NoError(t, err)
			require.NoError(t, db.Close())

			_, err = store.Load(context.Background())
			assert.ErrorIs(t, err, domain.ErrIndexCorrupt)
		})
	}
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, migrate(context.Background(), db))
	require.NoError(t, migrate(context.Background(), db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestFloat32Encoding(t *testing.T) {
	in := []float32{0, -1.5, 3.14159, 1e-7}

	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Len(t, bytesToFloat32Slice([]byte{1, 2, 3, 4, 5}), 1)
	assert.Empty(t, bytesToFloat32Slice(nil))
}
