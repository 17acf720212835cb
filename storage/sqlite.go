package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/opencontainers/go-digest"
	"github.com/viant/sigindex/index"
	"github.com/viant/sigindex/internal/codec"
)

// SQLite stores payloads in the sig_storage table. Content is compressed
// with zstd and its digest is checked on every load.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option configures a SQLite storage.
type Option func(*SQLite)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SQLite) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSQLite creates a SQLite-backed storage. It ensures the sig_storage schema
// exists in the provided database.
func NewSQLite(db *sql.DB, opts ...Option) (*SQLite, error) {
	if db == nil {
		return nil, fmt.Errorf("storage: db is nil")
	}
	if err := EnsureSchema(db); err != nil {
		return nil, err
	}
	s := &SQLite{db: db, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save implements index.Storage.
func (s *SQLite) Save(path string, content []byte) (string, error) {
	return s.SaveContext(context.Background(), path, content)
}

// Load implements index.Storage.
func (s *SQLite) Load(path string) ([]byte, error) {
	return s.LoadContext(context.Background(), path)
}

// SaveContext stores content under path, replacing any previous content.
// An empty path is replaced by a random one.
func (s *SQLite) SaveContext(ctx context.Context, path string, content []byte) (string, error) {
	if path == "" {
		path = uuid.NewString()
	}
	packed, err := codec.Compress(content)
	if err != nil {
		return "", err
	}
	dgst := digest.FromBytes(content)
	_, err = s.db.ExecContext(ctx, `INSERT INTO sig_storage(path, digest, size, content) VALUES(?, ?, ?, ?)
ON CONFLICT(path) DO UPDATE SET digest = excluded.digest, size = excluded.size, content = excluded.content`,
		path, dgst.String(), len(content), packed)
	if err != nil {
		return "", fmt.Errorf("storage: save %q: %w", path, err)
	}
	s.logger.Debug("saved payload", "path", path, "digest", dgst.String(), "size", len(content), "stored", len(packed))
	return path, nil
}

// LoadContext returns the content stored under path.
func (s *SQLite) LoadContext(ctx context.Context, path string) ([]byte, error) {
	var (
		recorded string
		packed   []byte
	)
	err := s.db.QueryRowContext(ctx, `SELECT digest, content FROM sig_storage WHERE path = ?`, path).Scan(&recorded, &packed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %q: %w", path, err)
	}
	content, err := codec.Decompress(packed)
	if err != nil {
		return nil, fmt.Errorf("storage: load %q: %w", path, err)
	}
	want, err := digest.Parse(recorded)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrDigestMismatch, path, err)
	}
	if got := digest.FromBytes(content); got != want {
		return nil, fmt.Errorf("%w: %q: got %s, want %s", ErrDigestMismatch, path, got, want)
	}
	s.logger.Debug("loaded payload", "path", path, "digest", recorded, "size", len(content))
	return content, nil
}

// List returns stored paths starting with prefix, in path order. The prefix
// is compared byte-wise so multi-byte UTF-8 prefixes match.
func (s *SQLite) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM sig_storage
WHERE substr(CAST(path AS BLOB), 1, ?) = CAST(? AS BLOB) ORDER BY path`, len(prefix), prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes the content stored under path.
func (s *SQLite) Remove(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("storage: Remove called with empty path")
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM sig_storage WHERE path = ?`, path)
	return err
}

// Ensure SQLite satisfies the index.Storage interface.
var _ index.Storage = (*SQLite)(nil)
