// Package assetlib indexes baked .btasset files in a SQLite catalog.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package assetlib

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hungaromakker/battle-tok-sub003/engine/asset"
)

var ErrNotFound = errors.New("assetlib: asset not found")

// Catalog manages the SQLite database of known assets.
type Catalog struct {
	db *sql.DB
}

// Entry is one catalogued asset.
type Entry struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Method      string
	Tags        []string
	Path        string
	VertexCount int
	IndexCount  int
	UpdatedAt   time.Time
}

// Open creates or opens the catalog at dbPath, creating parent
// directories and running migrations.
func Open(dbPath string) (*Catalog, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("assetlib: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assetlib: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("assetlib: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("assetlib: cannot connect to database: %w", err)
	}

	c := &Catalog{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("assetlib: migration failed: %w", err)
	}
	return c, nil
}

func (c *Catalog) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			method TEXT NOT NULL,
			tags TEXT NOT NULL DEFAULT '',
			path TEXT NOT NULL,
			vertex_count INTEGER NOT NULL DEFAULT 0,
			index_count INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category);
	`
	_, err := c.db.Exec(schema)
	return err
}

func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Put records a saved asset, replacing any entry with the same id.
func (c *Catalog) Put(path string, a *asset.Asset) error {
	m := a.Metadata
	_, err := c.db.Exec(`
		INSERT INTO assets (id, name, category, method, tags, path, vertex_count, index_count, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			method = excluded.method,
			tags = excluded.tags,
			path = excluded.path,
			vertex_count = excluded.vertex_count,
			index_count = excluded.index_count,
			updated_at = CURRENT_TIMESTAMP`,
		m.ID.String(), m.Name, m.Category, m.Method, strings.Join(m.Tags, ","),
		path, len(a.Mesh.Vertices), len(a.Mesh.Indices),
	)
	if err != nil {
		return fmt.Errorf("assetlib: cannot save %s: %w", m.Name, err)
	}
	return nil
}

// Get looks up one asset by id.
func (c *Catalog) Get(id uuid.UUID) (Entry, error) {
	row := c.db.QueryRow(`
		SELECT id, name, category, method, tags, path, vertex_count, index_count, updated_at
		FROM assets WHERE id = ?`, id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("assetlib: cannot read %s: %w", id, err)
	}
	return e, nil
}

// List returns entries ordered by name. An empty category lists everything.
func (c *Catalog) List(category string) ([]Entry, error) {
	query := `SELECT id, name, category, method, tags, path, vertex_count, index_count, updated_at FROM assets`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name, id`

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("assetlib: cannot list assets: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("assetlib: cannot scan asset: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Remove deletes an entry; the .btasset file is left alone.
func (c *Catalog) Remove(id uuid.UUID) error {
	res, err := c.db.Exec(`DELETE FROM assets WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("assetlib: cannot remove %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Load reads the asset file an entry points to.
func (c *Catalog) Load(id uuid.UUID) (*asset.Asset, error) {
	e, err := c.Get(id)
	if err != nil {
		return nil, err
	}
	return asset.Load(e.Path)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		e         Entry
		id        string
		tags      string
		updatedAt any
	)
	if err := s.Scan(&id, &e.Name, &e.Category, &e.Method, &tags, &e.Path, &e.VertexCount, &e.IndexCount, &updatedAt); err != nil {
		return Entry{}, err
	}

	// The driver may hand back either a time.Time or the raw string.
	switch v := updatedAt.(type) {
	case time.Time:
		e.UpdatedAt = v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			e.UpdatedAt = parsed
		}
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return Entry{}, err
	}
	e.ID = parsed
	if tags != "" {
		e.Tags = strings.Split(tags, ",")
	}
	return e, nil
}
