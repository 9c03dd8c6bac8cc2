// Package sqlite is the SQLite-backed speech cache.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/voxhire/voxhire/internal/storage"
)

// Cache is a SQLite implementation of storage.SpeechCache.
type Cache struct {
	db *sql.DB
}

var _ storage.SpeechCache = (*Cache)(nil)

// New opens (or creates) the cache database at dbPath.
func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS speech_cache (
		key TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		audio BLOB NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	return err
}

// Get returns the cached audio for key, or ok=false on miss or error.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, string, bool) {
	var data []byte
	var contentType string
	err := c.db.QueryRowContext(ctx,
		`SELECT audio, content_type FROM speech_cache WHERE key = ?`, key,
	).Scan(&data, &contentType)
	if err != nil {
		// Misses and broken caches look the same; synthesis still works.
		return nil, "", false
	}
	return data, contentType, true
}

// Put stores audio under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO speech_cache (key, content_type, audio, created_at) VALUES (?, ?, ?, ?)`,
		key, contentType, data, time.Now())
	return err
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
