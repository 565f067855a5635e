package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
)

// ListQuery narrows and pages an article listing. A nil Published means no
// publication filter; tag slugs use OR semantics; Search matches title or
// excerpt case-insensitively.
type ListQuery struct {
	Published *bool
	TagSlugs  []string
	Search    string
	Limit     int
	Offset    int
}

const articleCols = "a.id, a.slug, a.title, a.excerpt, a.published, a.created_at, a.updated_at"

// ListArticles returns one page of articles plus the total match count.
// Results are ordered newest-first with insertion order breaking ties.
// Listing rows omit inline content; use GetArticleBySlug for the full record.
func (db *DB) ListArticles(q ListQuery) ([]models.Article, int, error) {
	cond, args := buildWhere(q)

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM articles a`+cond, args...).Scan(&total); err != nil {
		return nil, 0, readErr("count articles", err)
	}

	query := `SELECT ` + articleCols + ` FROM articles a` + cond +
		` ORDER BY a.created_at DESC, a.rowid ASC LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, readErr("list articles", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, 0, readErr("scan articles", err)
	}
	if err := db.attachTags(articles); err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// GetArticleBySlug returns the full article record, inline content and tags
// included, or apperr.ErrNotFound.
func (db *DB) GetArticleBySlug(slug string) (*models.Article, error) {
	return db.getArticle("a.slug = ?", slug)
}

// GetArticleByID returns the full article record or apperr.ErrNotFound.
func (db *DB) GetArticleByID(id string) (*models.Article, error) {
	return db.getArticle("a.id = ?", id)
}

func (db *DB) getArticle(cond string, arg any) (*models.Article, error) {
	var a models.Article
	var published int
	err := db.conn.QueryRow(
		`SELECT a.id, a.slug, a.title, a.content, a.excerpt, a.published, a.created_at, a.updated_at
		 FROM articles a WHERE `+cond, arg,
	).Scan(&a.ID, &a.Slug, &a.Title, &a.Content, &a.Excerpt, &published, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, readErr("get article", err)
	}
	a.Published = published != 0

	arts := []models.Article{a}
	if err := db.attachTags(arts); err != nil {
		return nil, err
	}
	return &arts[0], nil
}

// RelatedArticles returns published articles sharing at least one tag with
// the given article, excluding the article itself, newest first. An article
// with no tags yields an empty result.
func (db *DB) RelatedArticles(articleID string, limit int) ([]models.Article, error) {
	rows, err := db.conn.Query(`
		SELECT `+articleCols+`
		FROM articles a
		WHERE a.id != ?
		  AND a.published = 1
		  AND a.id IN (
			SELECT at2.article_id FROM article_tags at2
			WHERE at2.tag_id IN (SELECT tag_id FROM article_tags WHERE article_id = ?))
		ORDER BY a.created_at DESC, a.rowid ASC
		LIMIT ?
	`, articleID, articleID, limit)
	if err != nil {
		return nil, readErr("related articles", err)
	}
	defer rows.Close()

	articles, err := scanArticles(rows)
	if err != nil {
		return nil, readErr("scan related", err)
	}
	if err := db.attachTags(articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// UpdateTitle persists a new title for the article, leaving every other
// field untouched except updated_at. Returns the previous title. The read
// and write share one transaction so a concurrent delete cannot leave a
// partial effect.
func (db *DB) UpdateTitle(articleID, newTitle string) (string, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return "", writeErr("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	var oldTitle string
	err = tx.QueryRow(`SELECT title FROM articles WHERE id = ?`, articleID).Scan(&oldTitle)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", writeErr("read current title", err)
	}

	if _, err := tx.Exec(
		`UPDATE articles SET title = ?, updated_at = ? WHERE id = ?`,
		newTitle, time.Now().UTC(), articleID,
	); err != nil {
		return "", writeErr("update title", err)
	}
	if err := tx.Commit(); err != nil {
		return "", writeErr("commit", err)
	}
	return oldTitle, nil
}

// CreateArticle inserts an article and its tag associations in one
// transaction. Referenced tags must already exist.
func (db *DB) CreateArticle(a *models.Article) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return writeErr("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO articles (id, slug, title, content, excerpt, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Slug, a.Title, a.Content, a.Excerpt, boolInt(a.Published), a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return writeErr("insert article", err)
	}

	for _, tag := range a.Tags {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO article_tags (article_id, tag_id) VALUES (?, ?)`,
			a.ID, tag.ID,
		); err != nil {
			return writeErr("insert article tag", err)
		}
	}
	return tx.Commit()
}

// attachTags loads tag associations for the given articles with a single
// query and fills each Tags slice (never nil).
func (db *DB) attachTags(articles []models.Article) error {
	for i := range articles {
		articles[i].Tags = []models.Tag{}
	}
	if len(articles) == 0 {
		return nil
	}

	ph := placeholders(len(articles))
	args := make([]any, len(articles))
	byID := make(map[string]*models.Article, len(articles))
	for i := range articles {
		args[i] = articles[i].ID
		byID[articles[i].ID] = &articles[i]
	}

	rows, err := db.conn.Query(fmt.Sprintf(`
		SELECT at.article_id, t.id, t.name, t.slug, t.color
		FROM article_tags at
		JOIN tags t ON t.id = at.tag_id
		WHERE at.article_id IN (%s)
		ORDER BY t.name ASC
	`, ph), args...)
	if err != nil {
		return readErr("load tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		var tag models.Tag
		if err := rows.Scan(&articleID, &tag.ID, &tag.Name, &tag.Slug, &tag.Color); err != nil {
			return readErr("scan tag", err)
		}
		if a, ok := byID[articleID]; ok {
			a.Tags = append(a.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return readErr("iterate tags", err)
	}
	return nil
}

func buildWhere(q ListQuery) (cond string, args []any) {
	var where []string
	if q.Published != nil {
		where = append(where, "a.published = ?")
		args = append(args, boolInt(*q.Published))
	}
	if q.Search != "" {
		where = append(where, `(a.title LIKE ? ESCAPE '\' OR a.excerpt LIKE ? ESCAPE '\')`)
		like := "%" + escapeLike(q.Search) + "%"
		args = append(args, like, like)
	}
	if len(q.TagSlugs) > 0 {
		where = append(where, fmt.Sprintf(`a.id IN (
			SELECT at.article_id FROM article_tags at
			JOIN tags t ON t.id = at.tag_id
			WHERE t.slug IN (%s))`, placeholders(len(q.TagSlugs))))
		for _, s := range q.TagSlugs {
			args = append(args, s)
		}
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// escapeLike neutralises LIKE metacharacters so a search string matches as a
// literal substring.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanArticles(rows *sql.Rows) ([]models.Article, error) {
	var out []models.Article
	for rows.Next() {
		var a models.Article
		var published int
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Excerpt, &published, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		a.Published = published != 0
		out = append(out, a)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
