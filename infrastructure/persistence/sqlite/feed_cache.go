// Package sqlite holds the on-device cache. The last feed snapshot
// survives a restart so the user sees something before the first fetch
// completes.
package sqlite

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"echoclient/domain/feed"
	apperrors "echoclient/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS feed_cache (
	position   INTEGER PRIMARY KEY,
	id         INTEGER NOT NULL,
	author_id  INTEGER NOT NULL,
	author     TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TEXT NOT NULL,
	like_count INTEGER NOT NULL,
	liked      INTEGER NOT NULL
);
`

// FeedCache persists feed snapshots in a local sqlite database. The cache
// holds at most one snapshot: saving replaces the previous one whole, the
// same way a successful fetch replaces the in-memory list.
type FeedCache struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenFeedCache opens (and if needed creates) the cache database at path.
func OpenFeedCache(path string, logger *zap.Logger) (*FeedCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, apperrors.NewStorageError("open feed cache", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, apperrors.NewStorageError("open feed cache", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("init feed cache", err)
	}
	return &FeedCache{db: db, logger: logger}, nil
}

// SaveSnapshot replaces the cached snapshot with items, preserving order.
func (c *FeedCache) SaveSnapshot(items []feed.Item) error {
	tx, err := c.db.Begin()
	if err != nil {
		return apperrors.NewStorageError("save feed snapshot", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM feed_cache`); err != nil {
		return apperrors.NewStorageError("save feed snapshot", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO feed_cache (position, id, author_id, author, content, created_at, like_count, liked)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return apperrors.NewStorageError("save feed snapshot", err)
	}
	defer stmt.Close()

	for i, item := range items {
		liked := 0
		if item.LikedByViewer {
			liked = 1
		}
		_, err := stmt.Exec(i, item.ID, item.AuthorID, item.AuthorName,
			item.Content, item.CreatedAt.UTC().Format(time.RFC3339Nano),
			item.LikeCount, liked)
		if err != nil {
			return apperrors.NewStorageError("save feed snapshot", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("save feed snapshot", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot in its saved order. An empty
// cache yields an empty slice, not an error.
func (c *FeedCache) LoadSnapshot() ([]feed.Item, error) {
	rows, err := c.db.Query(`
SELECT id, author_id, author, content, created_at, like_count, liked
FROM feed_cache ORDER BY position`)
	if err != nil {
		return nil, apperrors.NewStorageError("load feed snapshot", err)
	}
	defer rows.Close()

	var items []feed.Item
	for rows.Next() {
		var item feed.Item
		var createdAt string
		var liked int
		if err := rows.Scan(&item.ID, &item.AuthorID, &item.AuthorName,
			&item.Content, &createdAt, &item.LikeCount, &liked); err != nil {
			return nil, apperrors.NewStorageError("load feed snapshot", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			c.logger.Warn("cached post has bad timestamp, skipping",
				zap.Int64("id", item.ID), zap.Error(err))
			continue
		}
		item.CreatedAt = ts
		item.LikedByViewer = liked != 0
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("load feed snapshot", err)
	}
	return items, nil
}

// Clear drops the cached snapshot.
func (c *FeedCache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM feed_cache`); err != nil {
		return apperrors.NewStorageError("clear feed cache", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *FeedCache) Close() error {
	return c.db.Close()
}
