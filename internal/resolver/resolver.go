// Package resolver composes the metadata store and the content store into
// complete article views: listings, single-article resolution, related
// articles, and the title mutation path.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
	"github.com/nordveil/tblog/internal/store"
)

// ErrEmptyTitle rejects a title that is empty after trimming.
var ErrEmptyTitle = errors.New("title must not be empty")

// ContentSource is the file-backed document surface consumed by the
// resolver. *content.Store satisfies it.
type ContentSource interface {
	Fetch(slug string) (*models.Document, error)
	Compile(markdown string) (string, error)
}

// Config bounds listing pagination and cache behaviour.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	ListingTTL      time.Duration
}

// Resolver answers article queries for the presentation layer.
type Resolver struct {
	store   store.ArticleStore
	content ContentSource
	cfg     Config
	cache   *listingCache
	logger  *slog.Logger
}

// New creates a resolver. A zero ListingTTL disables the listing cache.
func New(st store.ArticleStore, cs ContentSource, cfg Config, logger *slog.Logger) *Resolver {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 10
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:   st,
		content: cs,
		cfg:     cfg,
		cache:   newListingCache(cfg.ListingTTL),
		logger:  logger,
	}
}

// ListFilter narrows a listing. A nil Published defaults to published-only;
// tag slugs use OR semantics; Search matches title or excerpt
// case-insensitively.
type ListFilter struct {
	Published *bool
	Tags      []string
	Search    string
	Page      int
	PageSize  int
}

// Page is one page of a listing with pagination totals.
type Page struct {
	Articles   []models.Article `json:"articles"`
	Total      int              `json:"total"`
	PageNum    int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

// List returns one page of articles matching the filter. The operation is
// all-or-nothing: a store failure propagates as ErrStoreUnavailable and no
// partial page is returned. Results may be served from the listing cache
// within the configured revalidation interval.
func (r *Resolver) List(_ context.Context, f ListFilter) (*Page, error) {
	f = r.normalize(f)

	key := cacheKey(f)
	if p, ok := r.cache.get(key); ok {
		return p, nil
	}

	articles, total, err := r.store.ListArticles(store.ListQuery{
		Published: f.Published,
		TagSlugs:  f.Tags,
		Search:    f.Search,
		Limit:     f.PageSize,
		Offset:    (f.Page - 1) * f.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []models.Article{}
	}

	p := &Page{
		Articles:   articles,
		Total:      total,
		PageNum:    f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages(total, f.PageSize),
	}
	r.cache.put(key, p)
	return p, nil
}

// ArticleView is a fully assembled article: metadata-store fields layered
// with a body sourced from whichever store provides one. When neither store
// holds a body the excerpt stands alone and BodyHTML is empty.
type ArticleView struct {
	models.Article
	BodyHTML string `json:"body_html,omitempty"`
}

// ResolveBySlug looks up one article by slug across both stores. Inline
// metadata-store content satisfies the body when present; otherwise the
// file-backed document is consulted. Returns apperr.ErrNotFound when no
// record and no document exist, and also for unpublished articles unless
// includeUnpublished is set: draft visibility is enforced here, not in the
// stores.
func (r *Resolver) ResolveBySlug(_ context.Context, slug string, includeUnpublished bool) (*ArticleView, error) {
	meta, err := r.store.GetArticleBySlug(slug)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	doc, docErr := r.content.Fetch(slug)
	if docErr != nil && !errors.Is(docErr, apperr.ErrNotFound) {
		return nil, docErr
	}

	switch {
	case meta != nil:
		view := &ArticleView{Article: *meta}
		if !view.Published && !includeUnpublished {
			return nil, apperr.ErrNotFound
		}
		if meta.Content != "" {
			html, err := r.content.Compile(meta.Content)
			if err == nil {
				view.BodyHTML = html
				return view, nil
			}
			r.logger.Warn("resolver: inline body compile failed",
				slog.String("slug", slug),
				slog.String("error", err.Error()))
		}
		if doc != nil {
			view.BodyHTML = doc.HTML
		}
		return view, nil

	case doc != nil:
		if !doc.FrontMatter.Published && !includeUnpublished {
			return nil, apperr.ErrNotFound
		}
		return &ArticleView{
			Article: models.Article{
				Slug:      slug,
				Title:     doc.FrontMatter.Title,
				Excerpt:   doc.FrontMatter.Excerpt,
				Published: doc.FrontMatter.Published,
				Tags:      []models.Tag{},
				CreatedAt: doc.FrontMatter.Date,
				UpdatedAt: doc.FrontMatter.Date,
			},
			BodyHTML: doc.HTML,
		}, nil

	default:
		return nil, apperr.ErrNotFound
	}
}

// RelatedArticles returns up to limit published articles sharing at least
// one tag with the given article, newest first, never including the article
// itself. No tags or no overlap yields an empty slice, not an error.
func (r *Resolver) RelatedArticles(_ context.Context, articleID string, limit int) ([]models.Article, error) {
	if limit <= 0 {
		limit = 3
	}
	related, err := r.store.RelatedArticles(articleID, limit)
	if err != nil {
		return nil, err
	}
	if related == nil {
		related = []models.Article{}
	}
	return related, nil
}

// TitleChange reports a completed title mutation for caller confirmation.
type TitleChange struct {
	OldTitle string `json:"old_title"`
	NewTitle string `json:"new_title"`
}

// UpdateTitle persists a new title for the article and invalidates the
// listing cache so the next listing read observes it. The direct resolve
// path is read-your-writes regardless of the cache.
func (r *Resolver) UpdateTitle(_ context.Context, articleID, newTitle string) (*TitleChange, error) {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil, ErrEmptyTitle
	}
	oldTitle, err := r.store.UpdateTitle(articleID, newTitle)
	if err != nil {
		return nil, err
	}
	r.InvalidateListings()
	return &TitleChange{OldTitle: oldTitle, NewTitle: newTitle}, nil
}

// Tags returns the tag aggregation with per-tag article counts.
func (r *Resolver) Tags(_ context.Context) ([]models.TagCount, error) {
	tags, err := r.store.ListTags()
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []models.TagCount{}
	}
	return tags, nil
}

// InvalidateListings drops every cached listing page. Called after title
// mutations and on content-directory changes.
func (r *Resolver) InvalidateListings() {
	r.cache.invalidate()
}

func (r *Resolver) normalize(f ListFilter) ListFilter {
	if f.Published == nil {
		published := true
		f.Published = &published
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = r.cfg.DefaultPageSize
	}
	if f.PageSize > r.cfg.MaxPageSize {
		f.PageSize = r.cfg.MaxPageSize
	}
	return f
}

func totalPages(total, pageSize int) int {
	if total == 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
