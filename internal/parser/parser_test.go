package parser

import (
	"errors"
	"testing"

	"github.com/nordveil/tblog/internal/apperr"
)

func TestParse_FrontMatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\nexcerpt: A greeting\ndate: '2024-01-15'\nslug: hello\npublished: true\n---\n# Hello\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FrontMatter.Title != "Hello" {
		t.Errorf("title = %q, want %q", r.FrontMatter.Title, "Hello")
	}
	if r.FrontMatter.Excerpt != "A greeting" {
		t.Errorf("excerpt = %q", r.FrontMatter.Excerpt)
	}
	if r.FrontMatter.Slug != "hello" {
		t.Errorf("slug = %q", r.FrontMatter.Slug)
	}
	if !r.FrontMatter.Published {
		t.Error("published = false, want true")
	}
	if got := r.FrontMatter.Date.Format("2006-01-02"); got != "2024-01-15" {
		t.Errorf("date = %s, want 2024-01-15", got)
	}
	if r.Body != "# Hello\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_RFC3339Date(t *testing.T) {
	input := []byte("---\ntitle: T\ndate: 2024-06-01T09:30:00Z\n---\nbody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.FrontMatter.Date.Hour() != 9 {
		t.Errorf("date = %v", r.FrontMatter.Date)
	}
}

func TestParse_MissingFrontMatter(t *testing.T) {
	_, err := Parse([]byte("# Just a heading\nSome text.\n"))
	if !errors.Is(err, apperr.ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
}

func TestParse_UnterminatedBlock(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: Broken\nno closing delimiter\n"))
	if !errors.Is(err, apperr.ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\n: invalid: yaml: {{{\n---\nBody\n"))
	if !errors.Is(err, apperr.ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
}

func TestParse_MissingTitle(t *testing.T) {
	_, err := Parse([]byte("---\nexcerpt: no title here\n---\nBody\n"))
	if !errors.Is(err, apperr.ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
}

func TestParse_BadDate(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: T\ndate: someday\n---\nBody\n"))
	if !errors.Is(err, apperr.ErrParseFailure) {
		t.Fatalf("err = %v, want ErrParseFailure", err)
	}
}

func TestParse_EmptyDateAllowed(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: T\n---\nBody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.FrontMatter.Date.IsZero() {
		t.Errorf("date = %v, want zero", r.FrontMatter.Date)
	}
}
