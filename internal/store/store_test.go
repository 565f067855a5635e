package store

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "tblog-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustTag(t *testing.T, db *DB, name, slug string) models.Tag {
	t.Helper()
	tag, err := db.UpsertTag(name, slug, "")
	if err != nil {
		t.Fatalf("UpsertTag(%s): %v", slug, err)
	}
	return *tag
}

func mustArticle(t *testing.T, db *DB, slug, title string, published bool, createdAt time.Time, tags ...models.Tag) models.Article {
	t.Helper()
	a := models.Article{
		ID:        uuid.NewString(),
		Slug:      slug,
		Title:     title,
		Excerpt:   "excerpt for " + title,
		Published: published,
		Tags:      tags,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := db.CreateArticle(&a); err != nil {
		t.Fatalf("CreateArticle(%s): %v", slug, err)
	}
	return a
}

func boolPtr(b bool) *bool { return &b }

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"articles", "tags", "article_tags"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestGetArticleBySlug(t *testing.T) {
	db := testDB(t)
	tag := mustTag(t, db, "Go", "go")
	mustArticle(t, db, "hello", "Hello", true, time.Now(), tag)

	a, err := db.GetArticleBySlug("hello")
	if err != nil {
		t.Fatalf("GetArticleBySlug: %v", err)
	}
	if a.Title != "Hello" || !a.Published {
		t.Errorf("article = %+v", a)
	}
	if len(a.Tags) != 1 || a.Tags[0].Slug != "go" {
		t.Errorf("tags = %v", a.Tags)
	}
}

func TestGetArticleBySlug_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetArticleBySlug("nonexistent")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListArticles_PublishedFilter(t *testing.T) {
	db := testDB(t)
	mustArticle(t, db, "pub", "Published", true, time.Now())
	mustArticle(t, db, "draft", "Draft", false, time.Now())

	arts, total, err := db.ListArticles(ListQuery{Published: boolPtr(true), Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 1 || len(arts) != 1 || arts[0].Slug != "pub" {
		t.Errorf("arts = %v, total = %d", arts, total)
	}

	arts, total, err = db.ListArticles(ListQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles unfiltered: %v", err)
	}
	if total != 2 || len(arts) != 2 {
		t.Errorf("unfiltered total = %d, len = %d", total, len(arts))
	}
}

func TestListArticles_OrderNewestFirstStable(t *testing.T) {
	db := testDB(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mustArticle(t, db, "old", "Old", true, base.Add(-time.Hour))
	mustArticle(t, db, "tie-a", "Tie A", true, base)
	mustArticle(t, db, "tie-b", "Tie B", true, base)

	arts, _, err := db.ListArticles(ListQuery{Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	got := []string{arts[0].Slug, arts[1].Slug, arts[2].Slug}
	// Ties on created_at keep insertion order.
	want := []string{"tie-a", "tie-b", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestListArticles_SearchCaseInsensitive(t *testing.T) {
	db := testDB(t)
	mustArticle(t, db, "intro-go", "Intro to Go", true, time.Now())
	mustArticle(t, db, "other", "Something Else", true, time.Now())

	arts, total, err := db.ListArticles(ListQuery{Search: "INTRO", Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 1 || arts[0].Slug != "intro-go" {
		t.Errorf("search result = %v, total = %d", arts, total)
	}
}

func TestListArticles_SearchMatchesExcerpt(t *testing.T) {
	db := testDB(t)
	a := models.Article{
		ID: uuid.NewString(), Slug: "e", Title: "Plain",
		Excerpt: "a deep dive into concurrency", Published: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.CreateArticle(&a); err != nil {
		t.Fatal(err)
	}

	_, total, err := db.ListArticles(ListQuery{Search: "Concurrency", Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
}

func TestListArticles_TagFilterOrSemantics(t *testing.T) {
	db := testDB(t)
	x := mustTag(t, db, "X", "x")
	y := mustTag(t, db, "Y", "y")
	z := mustTag(t, db, "Z", "z")
	mustArticle(t, db, "a", "A", true, time.Now(), x)
	mustArticle(t, db, "b", "B", true, time.Now(), y)
	mustArticle(t, db, "c", "C", true, time.Now(), z)

	_, total, err := db.ListArticles(ListQuery{TagSlugs: []string{"x", "y"}, Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 (OR across tag set)", total)
	}
}

func TestListArticles_Pagination(t *testing.T) {
	db := testDB(t)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustArticle(t, db, uuid.NewString()[:8], "T", true, base.Add(time.Duration(i)*time.Hour))
	}

	arts, total, err := db.ListArticles(ListQuery{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(arts) != 1 {
		t.Errorf("last page len = %d, want 1", len(arts))
	}
}

func TestRelatedArticles(t *testing.T) {
	db := testDB(t)
	x := mustTag(t, db, "X", "x")
	y := mustTag(t, db, "Y", "y")
	z := mustTag(t, db, "Z", "z")
	a := mustArticle(t, db, "a", "A", true, time.Now(), x, y)
	mustArticle(t, db, "b", "B", true, time.Now(), y)
	mustArticle(t, db, "c", "C", false, time.Now(), z)

	related, err := db.RelatedArticles(a.ID, 5)
	if err != nil {
		t.Fatalf("RelatedArticles: %v", err)
	}
	if len(related) != 1 || related[0].Slug != "b" {
		t.Errorf("related = %v, want [b]", related)
	}
	for _, r := range related {
		if r.ID == a.ID {
			t.Error("related result includes the source article")
		}
		if !r.Published {
			t.Error("related result includes an unpublished article")
		}
	}
}

func TestRelatedArticles_NoTags(t *testing.T) {
	db := testDB(t)
	a := mustArticle(t, db, "lonely", "Lonely", true, time.Now())

	related, err := db.RelatedArticles(a.ID, 5)
	if err != nil {
		t.Fatalf("RelatedArticles: %v", err)
	}
	if len(related) != 0 {
		t.Errorf("related = %v, want empty", related)
	}
}

func TestUpdateTitle(t *testing.T) {
	db := testDB(t)
	a := mustArticle(t, db, "up", "Old Title", true, time.Now())

	old, err := db.UpdateTitle(a.ID, "New Title")
	if err != nil {
		t.Fatalf("UpdateTitle: %v", err)
	}
	if old != "Old Title" {
		t.Errorf("old = %q", old)
	}

	got, err := db.GetArticleBySlug("up")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "New Title" {
		t.Errorf("title = %q, want %q", got.Title, "New Title")
	}
	if got.Excerpt != a.Excerpt || got.Slug != a.Slug {
		t.Error("UpdateTitle touched fields other than title")
	}
}

func TestUpdateTitle_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.UpdateTitle("missing-id", "T")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListTags_Counts(t *testing.T) {
	db := testDB(t)
	x := mustTag(t, db, "Alpha", "alpha")
	mustTag(t, db, "Beta", "beta")
	mustArticle(t, db, "a", "A", true, time.Now(), x)
	mustArticle(t, db, "b", "B", true, time.Now(), x)

	tags, err := db.ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("len(tags) = %d, want 2", len(tags))
	}
	if tags[0].Slug != "alpha" || tags[0].ArticleCount != 2 {
		t.Errorf("tags[0] = %+v", tags[0])
	}
	if tags[1].Slug != "beta" || tags[1].ArticleCount != 0 {
		t.Errorf("tags[1] = %+v", tags[1])
	}
}

func TestDeleteTag_CascadesJoinRows(t *testing.T) {
	db := testDB(t)
	x := mustTag(t, db, "X", "x")
	a := mustArticle(t, db, "a", "A", true, time.Now(), x)

	if err := db.DeleteTag(x.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	got, err := db.GetArticleByID(a.ID)
	if err != nil {
		t.Fatalf("article should survive tag deletion: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("tags = %v, want none after cascade", got.Tags)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := testDB(t)
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := Seed(db, logger); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	_, firstTotal, err := db.ListArticles(ListQuery{Limit: 50})
	if err != nil {
		t.Fatal(err)
	}

	if err := Seed(db, logger); err != nil {
		t.Fatalf("Seed (second run): %v", err)
	}
	_, secondTotal, err := db.ListArticles(ListQuery{Limit: 50})
	if err != nil {
		t.Fatal(err)
	}
	if firstTotal != secondTotal {
		t.Errorf("article count changed on reseed: %d -> %d", firstTotal, secondTotal)
	}
}

func TestListArticlesSearchLiteralWildcards(t *testing.T) {
	db := testDB(t)
	mustArticle(t, db, "percent", "100% Coverage", true, time.Now())
	mustArticle(t, db, "letter", "100x Coverage", true, time.Now())
	mustArticle(t, db, "underscore", "snake_case naming", true, time.Now())
	mustArticle(t, db, "spaced", "snake case naming", true, time.Now())

	articles, total, err := db.ListArticles(ListQuery{Search: "100%", Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 1 || len(articles) != 1 || articles[0].Slug != "percent" {
		t.Errorf("search %%: got %d matches %+v, want only percent", total, articles)
	}

	articles, total, err = db.ListArticles(ListQuery{Search: "snake_", Limit: 10})
	if err != nil {
		t.Fatalf("ListArticles: %v", err)
	}
	if total != 1 || len(articles) != 1 || articles[0].Slug != "underscore" {
		t.Errorf("search _: got %d matches %+v, want only underscore", total, articles)
	}
}
