package api

import (
	"github.com/nordveil/tblog/internal/models"
	"github.com/nordveil/tblog/internal/resolver"
)

// UpdateTitleRequest is the request body for renaming an article.
type UpdateTitleRequest struct {
	Title string `json:"title" example:"My Updated Title"`
}

// ArticlePage is one page of a listing (aliased from the domain layer).
type ArticlePage = resolver.Page

// ArticleView is a fully assembled article (aliased from the domain layer).
type ArticleView = resolver.ArticleView

// ArticleDetailResponse bundles an article with its related articles.
type ArticleDetailResponse struct {
	Article *ArticleView     `json:"article"`
	Related []models.Article `json:"related"`
}

// TagListResponse wraps the tag aggregation.
type TagListResponse struct {
	Tags []models.TagCount `json:"tags"`
}

// TitleChangeResponse confirms a title mutation (aliased from the domain layer).
type TitleChangeResponse = resolver.TitleChange
