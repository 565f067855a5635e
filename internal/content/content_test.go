package content

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/nordveil/tblog/internal/apperr"
)

func testStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(dir, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const validPost = "---\ntitle: First Post\nexcerpt: An intro\ndate: '2024-03-01'\nslug: first-post\npublished: true\n---\n# First\n\nSome **bold** text.\n"

func TestListSlugs(t *testing.T) {
	s, dir := testStore(t)
	writeFile(t, dir, "first-post.md", validPost)
	writeFile(t, dir, "second-post.md", validPost)
	writeFile(t, dir, "notes.txt", "not content")

	slugs, err := s.ListSlugs()
	if err != nil {
		t.Fatalf("ListSlugs: %v", err)
	}
	sort.Strings(slugs)
	if len(slugs) != 2 || slugs[0] != "first-post" || slugs[1] != "second-post" {
		t.Errorf("slugs = %v", slugs)
	}
}

func TestListSlugs_MissingDirectory(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	slugs, err := s.ListSlugs()
	if err != nil {
		t.Fatalf("ListSlugs: %v", err)
	}
	if len(slugs) != 0 {
		t.Errorf("slugs = %v, want empty", slugs)
	}
}

func TestFetch(t *testing.T) {
	s, dir := testStore(t)
	writeFile(t, dir, "first-post.md", validPost)

	doc, err := s.Fetch("first-post")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if doc.FrontMatter.Title != "First Post" {
		t.Errorf("title = %q", doc.FrontMatter.Title)
	}
	if !doc.FrontMatter.Published {
		t.Error("published = false")
	}
	if !strings.Contains(doc.HTML, "<strong>bold</strong>") {
		t.Errorf("html = %q, want compiled markdown", doc.HTML)
	}
	if doc.Checksum == "" {
		t.Error("checksum is empty")
	}
}

func TestFetch_NotFound(t *testing.T) {
	s, _ := testStore(t)
	_, err := s.Fetch("nonexistent")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFetch_ParseFailureSurfacesAsNotFound(t *testing.T) {
	s, dir := testStore(t)
	writeFile(t, dir, "broken.md", "no front matter here\n")

	_, err := s.Fetch("broken")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFetch_RejectsTraversal(t *testing.T) {
	s, _ := testStore(t)
	for _, slug := range []string{"", "..", "a/b", `a\b`, "../etc/passwd"} {
		if _, err := s.Fetch(slug); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Fetch(%q) err = %v, want ErrNotFound", slug, err)
		}
	}
}
