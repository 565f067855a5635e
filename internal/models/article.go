// Package models defines the domain types for tblog.
package models

import "time"

// Article is a publishable content item stored in the metadata store.
// Content may be empty when the article body lives in the content store
// as a file-backed document instead.
type Article struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Published bool      `json:"published"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tag labels articles. Association is many-to-many.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

// TagCount is a tag together with how many articles reference it.
type TagCount struct {
	Tag
	ArticleCount int `json:"article_count"`
}

// FrontMatter is the structured header of a file-backed document.
type FrontMatter struct {
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Date      time.Time `json:"date"`
	Slug      string    `json:"slug"`
	Published bool      `json:"published"`
}

// Document is a file-backed article body compiled to renderable HTML.
type Document struct {
	FrontMatter FrontMatter `json:"front_matter"`
	HTML        string      `json:"html"`
	Checksum    string      `json:"checksum"`
}
