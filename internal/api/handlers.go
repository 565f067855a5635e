package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
	"github.com/nordveil/tblog/internal/resolver"
	"github.com/nordveil/tblog/internal/sse"
)

const relatedLimit = 3

// Handler holds API route handlers.
type Handler struct {
	res    *resolver.Resolver
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil when live events are
// not wired.
func NewHandler(res *resolver.Resolver, broker *sse.Broker) *Handler {
	return &Handler{res: res, broker: broker}
}

// ListArticles handles GET /api/articles.
//
//	@Summary		List articles with pagination and filtering
//	@Tags			articles
//	@Produce		json
//	@Param			page		query		int		false	"Page number (1-based)"
//	@Param			page_size	query		int		false	"Page size"
//	@Param			tag			query		string	false	"Filter by tag slug (repeatable, OR semantics)"
//	@Param			q			query		string	false	"Search title and excerpt"
//	@Param			published	query		bool	false	"Publication filter (admin only)"
//	@Success		200			{object}	ArticlePage
//	@Router			/articles [get]
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	filter := resolver.ListFilter{
		Tags:     q["tag"],
		Search:   q.Get("q"),
		Page:     page,
		PageSize: pageSize,
	}
	// Non-admins always get the published-only default.
	if raw := q.Get("published"); raw != "" && isAdmin(r.Context()) {
		if published, err := strconv.ParseBool(raw); err == nil {
			filter.Published = &published
		}
	}

	result, err := h.res.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, "list articles", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetArticle handles GET /api/articles/{slug}.
//
//	@Summary		Get a single article by slug, with related articles
//	@Tags			articles
//	@Produce		json
//	@Param			slug	path		string	true	"Article slug"
//	@Success		200		{object}	ArticleDetailResponse
//	@Failure		404		{object}	errResponse
//	@Router			/articles/{slug} [get]
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}

	view, err := h.res.ResolveBySlug(r.Context(), slug, isAdmin(r.Context()))
	if err != nil {
		h.writeError(w, "get article", err)
		return
	}

	related := []models.Article{}
	if view.ID != "" {
		rel, err := h.res.RelatedArticles(r.Context(), view.ID, relatedLimit)
		if err != nil {
			slog.Warn("related articles failed",
				slog.String("slug", slug),
				slog.String("error", err.Error()))
		} else {
			related = rel
		}
	}

	writeJSON(w, http.StatusOK, ArticleDetailResponse{Article: view, Related: related})
}

// UpdateTitle handles PATCH /api/articles/{id}/title.
//
//	@Summary		Rename an article
//	@Tags			articles
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Article ID"
//	@Param			body	body		UpdateTitleRequest	true	"New title"
//	@Success		200		{object}	TitleChangeResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/articles/{id}/title [patch]
func (h *Handler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id is required"))
		return
	}

	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	change, err := h.res.UpdateTitle(r.Context(), id, req.Title)
	if err != nil {
		h.writeError(w, "update title", err)
		return
	}

	if h.broker != nil {
		h.broker.Publish(sse.Event{
			Type: sse.EventArticleUpdated,
			Data: sse.ArticleChange{ID: id, Title: change.NewTitle},
		})
	}
	writeJSON(w, http.StatusOK, change)
}

// ListTags handles GET /api/tags.
//
//	@Summary		List tags with per-tag article counts
//	@Tags			tags
//	@Produce		json
//	@Success		200	{object}	TagListResponse
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.res.Tags(r.Context())
	if err != nil {
		h.writeError(w, "list tags", err)
		return
	}
	writeJSON(w, http.StatusOK, TagListResponse{Tags: tags})
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, resolver.ErrEmptyTitle):
		writeJSON(w, http.StatusBadRequest, errorBody("title must not be empty"))
	case errors.Is(err, apperr.ErrStoreUnavailable):
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, errorBody("store unavailable"))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
