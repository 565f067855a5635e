package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
)

// ListTags returns every tag with its article count, ordered by name.
func (db *DB) ListTags() ([]models.TagCount, error) {
	rows, err := db.conn.Query(`
		SELECT t.id, t.name, t.slug, t.color, COUNT(at.article_id)
		FROM tags t
		LEFT JOIN article_tags at ON at.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name ASC
	`)
	if err != nil {
		return nil, readErr("list tags", err)
	}
	defer rows.Close()

	var out []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.ID, &tc.Name, &tc.Slug, &tc.Color, &tc.ArticleCount); err != nil {
			return nil, readErr("scan tag", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, readErr("iterate tags", err)
	}
	return out, nil
}

// GetTagBySlug returns a single tag or apperr.ErrNotFound.
func (db *DB) GetTagBySlug(slug string) (*models.Tag, error) {
	var t models.Tag
	err := db.conn.QueryRow(
		`SELECT id, name, slug, color FROM tags WHERE slug = ?`, slug,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, readErr("get tag", err)
	}
	return &t, nil
}

// UpsertTag inserts a tag by slug or updates its name and color, returning
// the stored record either way.
func (db *DB) UpsertTag(name, slug, color string) (*models.Tag, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`
		INSERT INTO tags (id, name, slug, color, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name  = excluded.name,
			color = excluded.color
	`, id, name, slug, color, time.Now().UTC())
	if err != nil {
		return nil, writeErr("upsert tag", err)
	}
	return db.GetTagBySlug(slug)
}

// TagArticle associates an existing tag with an existing article.
func (db *DB) TagArticle(articleID, tagID string) error {
	if _, err := db.conn.Exec(
		`INSERT OR IGNORE INTO article_tags (article_id, tag_id) VALUES (?, ?)`,
		articleID, tagID,
	); err != nil {
		return writeErr("tag article", err)
	}
	return nil
}

// DeleteTag removes a tag. Join rows cascade; articles are untouched.
func (db *DB) DeleteTag(id string) error {
	res, err := db.conn.Exec(`DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return writeErr("delete tag", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
