// Package store is the SQLite-backed metadata store for articles and tags.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS articles (
	id         TEXT PRIMARY KEY,
	slug       TEXT NOT NULL UNIQUE,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	excerpt    TEXT NOT NULL DEFAULT '',
	published  INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	slug       TEXT NOT NULL UNIQUE,
	color      TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS article_tags (
	article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
	tag_id     TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	UNIQUE(article_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_article_tags_article ON article_tags(article_id);
CREATE INDEX IF NOT EXISTS idx_article_tags_tag ON article_tags(tag_id);
CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at);
`

// ArticleStore is the metadata-store surface consumed by the resolver.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with fakes.
type ArticleStore interface {
	ListArticles(q ListQuery) ([]models.Article, int, error)
	GetArticleBySlug(slug string) (*models.Article, error)
	GetArticleByID(id string) (*models.Article, error)
	RelatedArticles(articleID string, limit int) ([]models.Article, error)
	UpdateTitle(articleID, newTitle string) (oldTitle string, err error)
	ListTags() ([]models.TagCount, error)
	Close() error
}

// Verify *DB satisfies ArticleStore at compile time.
var _ ArticleStore = (*DB)(nil)

// DB wraps a sql.DB with blog-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// readErr wraps a read-path store error so callers can match
// apperr.ErrStoreUnavailable.
func readErr(op string, err error) error {
	return fmt.Errorf("store: %s: %w: %v", op, apperr.ErrStoreUnavailable, err)
}

// writeErr wraps a write-path store error so callers can match
// apperr.ErrWriteFailed.
func writeErr(op string, err error) error {
	return fmt.Errorf("store: %s: %w: %v", op, apperr.ErrWriteFailed, err)
}
