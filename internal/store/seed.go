package store

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
)

type seedTag struct {
	name  string
	slug  string
	color string
}

type seedArticle struct {
	slug     string
	title    string
	excerpt  string
	content  string
	tagSlugs []string
}

var seedTags = []seedTag{
	{"Go", "go", "#00ADD8"},
	{"Web Development", "web-development", "#FF6B6B"},
	{"Frontend", "frontend", "#4ECDC4"},
	{"Backend", "backend", "#45B7D1"},
	{"Best Practices", "best-practices", "#9B59B6"},
	{"Tooling", "tooling", "#F39C12"},
}

var seedArticles = []seedArticle{
	{
		slug:     "welcome-to-tblog",
		title:    "Welcome to TBlog",
		excerpt:  "A quick tour of the platform and what to expect here.",
		content:  "# Welcome\n\nThis is the first article on the platform. More to come.",
		tagSlugs: []string{"web-development", "frontend"},
	},
	{
		slug:     "structuring-a-web-service",
		title:    "Structuring a Web Service",
		excerpt:  "Layering storage, resolution, and transport so each part stays testable.",
		content:  "# Layers\n\nKeep the storage boundary narrow and the transport layer thin.",
		tagSlugs: []string{"backend", "best-practices"},
	},
	{
		slug:     "markdown-publishing-workflow",
		title:    "A Markdown Publishing Workflow",
		excerpt:  "Authoring articles as plain files with front-matter metadata.",
		content:  "# Files first\n\nWrite locally, commit, and let the platform pick it up.",
		tagSlugs: []string{"tooling", "best-practices"},
	},
}

// Seed populates the canonical tag set and a handful of demo articles.
// Safe to run repeatedly: tags upsert by slug, articles are skipped when
// their slug already exists.
func Seed(db *DB, logger *slog.Logger) error {
	tagsBySlug := make(map[string]models.Tag, len(seedTags))
	for _, st := range seedTags {
		tag, err := db.UpsertTag(st.name, st.slug, st.color)
		if err != nil {
			return fmt.Errorf("seed: tag %s: %w", st.slug, err)
		}
		tagsBySlug[st.slug] = *tag
	}
	logger.Info("seed: tags ready", slog.Int("count", len(seedTags)))

	created := 0
	now := time.Now().UTC()
	for i, sa := range seedArticles {
		if _, err := db.GetArticleBySlug(sa.slug); err == nil {
			continue
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("seed: check %s: %w", sa.slug, err)
		}

		a := models.Article{
			ID:        uuid.NewString(),
			Slug:      sa.slug,
			Title:     sa.title,
			Content:   sa.content,
			Excerpt:   sa.excerpt,
			Published: true,
			// Stagger creation times so listings have a stable order.
			CreatedAt: now.Add(time.Duration(i-len(seedArticles)) * time.Hour),
			UpdatedAt: now,
		}
		for _, ts := range sa.tagSlugs {
			a.Tags = append(a.Tags, tagsBySlug[ts])
		}
		if err := db.CreateArticle(&a); err != nil {
			return fmt.Errorf("seed: article %s: %w", sa.slug, err)
		}
		created++
	}
	logger.Info("seed: articles ready", slog.Int("created", created))
	return nil
}
