package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/rulebot/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/rulebot/internal/core/domain"
	"github.com/custodia-labs/rulebot/internal/core/ports/driven"
	"github.com/custodia-labs/rulebot/internal/logger"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore reads and writes the index artifact at a fixed path.
type IndexStore struct {
	path string
}

// NewIndexStore creates a store for the artifact at path.
// The parent directory is created on first Save.
func NewIndexStore(path string) *IndexStore {
	return &IndexStore{path: path}
}

// Path returns the artifact file path.
func (s *IndexStore) Path() string {
	return s.path
}

// Save writes the artifact to a temporary file and renames it into place.
func (s *IndexStore) Save(ctx context.Context, artifact *driven.IndexArtifact) error {
	if artifact == nil {
		return fmt.Errorf("%w: nil artifact", domain.ErrInvalidInput)
	}
	if err := checkAligned(artifact); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	db, err := openDB(tmpPath)
	if err != nil {
		return err
	}
	if err := migrate(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	if err := writeArtifact(ctx, db, artifact); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing index: %w", err)
	}
	committed = true

	logger.Debug("Index saved to %s (%d chunks, %d dims)", s.path, len(artifact.Chunks), artifact.Meta.Dimensions)
	return nil
}

// Load reads the artifact and verifies chunk/vector alignment.
func (s *IndexStore) Load(ctx context.Context) (*driven.IndexArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrIndexUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	db, err := openDB(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	defer db.Close()

	artifact := &driven.IndexArtifact{}
	if err := readMeta(ctx, db, &artifact.Meta); err != nil {
		return nil, err
	}
	if err := readChunks(ctx, db, artifact); err != nil {
		return nil, err
	}
	if err := checkAligned(artifact); err != nil {
		return nil, err
	}

	return artifact, nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// migrate runs every pending up migration and records its version.
func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_index.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func writeArtifact(ctx context.Context, db *sql.DB, artifact *driven.IndexArtifact) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := artifact.Meta
	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_meta (id, build_id, model, dimensions, built_at)
		VALUES (1, ?, ?, ?, ?)
	`, meta.BuildID, meta.Model, meta.Dimensions, meta.BuiltAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("writing index meta: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (position, rule_id, page_number, content, vector)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range artifact.Chunks {
		_, err := stmt.ExecContext(ctx, i, chunk.RuleID, chunk.PageNumber, chunk.Content,
			float32SliceToBytes(artifact.Vectors[i]))
		if err != nil {
			return fmt.Errorf("writing chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index: %w", err)
	}
	return nil
}

func readMeta(ctx context.Context, db *sql.DB, meta *driven.IndexMeta) error {
	var builtAt string
	row := db.QueryRowContext(ctx, `
		SELECT build_id, model, dimensions, built_at FROM index_meta WHERE id = 1
	`)
	if err := row.Scan(&meta.BuildID, &meta.Model, &meta.Dimensions, &builtAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: missing build metadata", domain.ErrIndexCorrupt)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: reading build metadata: %v", domain.ErrIndexCorrupt, err)
	}

	t, err := time.Parse(time.RFC3339Nano, builtAt)
	if err != nil {
		return fmt.Errorf("%w: built_at %q", domain.ErrIndexCorrupt, builtAt)
	}
	meta.BuiltAt = t
	return nil
}

func readChunks(ctx context.Context, db *sql.DB, artifact *driven.IndexArtifact) error {
	rows, err := db.QueryContext(ctx, `
		SELECT position, rule_id, page_number, content, vector FROM chunks ORDER BY position
	`)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: reading chunks: %v", domain.ErrIndexCorrupt, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			position int
			chunk    domain.Chunk
			blob     []byte
		)
		if err := rows.Scan(&position, &chunk.RuleID, &chunk.PageNumber, &chunk.Content, &blob); err != nil {
			return fmt.Errorf("%w: scanning chunk: %v", domain.ErrIndexCorrupt, err)
		}
		if position != len(artifact.Chunks) {
			return fmt.Errorf("%w: gap at position %d", domain.ErrIndexCorrupt, len(artifact.Chunks))
		}
		artifact.Chunks = append(artifact.Chunks, chunk)
		artifact.Vectors = append(artifact.Vectors, bytesToFloat32Slice(blob))
	}
	if err := rows.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: iterating chunks: %v", domain.ErrIndexCorrupt, err)
	}

	return nil
}

// checkAligned enforces one vector per chunk, each of the recorded dimension.
func checkAligned(artifact *driven.IndexArtifact) error {
	if len(artifact.Chunks) != len(artifact.Vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors",
			domain.ErrIndexCorrupt, len(artifact.Chunks), len(artifact.Vectors))
	}
	for i, v := range artifact.Vectors {
		if len(v) != artifact.Meta.Dimensions {
			return fmt.Errorf("%w: vector %d has %d dims, want %d",
				domain.ErrIndexCorrupt, i, len(v), artifact.Meta.Dimensions)
		}
	}
	return nil
}

// float32SliceToBytes encodes floats as little-endian for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice decodes a blob written by float32SliceToBytes.
// Trailing bytes that do not form a whole float are ignored.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
