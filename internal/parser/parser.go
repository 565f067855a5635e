// Package parser splits blog content files into front-matter and body.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
)

// dateLayouts are accepted formats for the front-matter date field.
var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}

// rawFrontMatter mirrors the YAML header of a content file.
type rawFrontMatter struct {
	Title     string `yaml:"title"`
	Excerpt   string `yaml:"excerpt"`
	Date      string `yaml:"date"`
	Slug      string `yaml:"slug"`
	Published bool   `yaml:"published"`
}

// Result holds the output of parsing a content file.
type Result struct {
	FrontMatter models.FrontMatter
	Body        string
}

// Parse extracts the front-matter header and Markdown body from raw file
// bytes. A missing or malformed header is a parse failure; callers decide
// how far that propagates.
func Parse(data []byte) (*Result, error) {
	block, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, err
	}

	var raw rawFrontMatter
	if err := yaml.Unmarshal(block, &raw); err != nil {
		return nil, fmt.Errorf("%w: front-matter yaml: %v", apperr.ErrParseFailure, err)
	}
	if raw.Title == "" {
		return nil, fmt.Errorf("%w: front-matter missing title", apperr.ErrParseFailure)
	}

	fm := models.FrontMatter{
		Title:     raw.Title,
		Excerpt:   raw.Excerpt,
		Slug:      raw.Slug,
		Published: raw.Published,
	}
	if raw.Date != "" {
		ts, err := parseDate(raw.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: front-matter date %q", apperr.ErrParseFailure, raw.Date)
		}
		fm.Date = ts
	}

	return &Result{FrontMatter: fm, Body: body}, nil
}

// splitFrontMatter separates the YAML header (between leading --- delimiters)
// from the Markdown body.
func splitFrontMatter(data []byte) ([]byte, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", fmt.Errorf("%w: missing front-matter block", apperr.ErrParseFailure)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", fmt.Errorf("%w: unterminated front-matter block", apperr.ErrParseFailure)
	}

	block := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	return block, body, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
