// Package content reads file-backed articles from the posts directory and
// compiles their Markdown bodies to HTML.
package content

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nordveil/tblog/internal/apperr"
	"github.com/nordveil/tblog/internal/models"
	"github.com/nordveil/tblog/internal/parser"
)

// Ext is the fixed extension of content files.
const Ext = ".md"

// Store reads structured-content files from a single directory. The
// directory may be absent; the platform tolerates a content-free deployment.
type Store struct {
	root   string
	md     goldmark.Markdown
	logger *slog.Logger
}

// NewStore creates a content store rooted at dir. The directory is not
// required to exist.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("content: resolve root: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		root:   abs,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger: logger,
	}, nil
}

// ListSlugs enumerates every content file and returns its slug (file name
// without extension). A missing directory yields an empty set, not an error.
// Ordering is up to the caller.
func (s *Store) ListSlugs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("content: list: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Ext) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), Ext))
	}
	return out, nil
}

// Fetch locates the file for slug, parses its front-matter, and compiles the
// body to HTML. Absent files return ErrNotFound. Parse or compile failures
// are logged and also surface as ErrNotFound: a broken file is treated the
// same as a missing one.
func (s *Store) Fetch(slug string) (*models.Document, error) {
	path, err := s.filePath(slug)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("content: read %s: %w", slug, err)
	}

	res, err := parser.Parse(data)
	if err != nil {
		s.logger.Warn("content: parse failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		return nil, apperr.ErrNotFound
	}

	var buf bytes.Buffer
	if err := s.md.Convert([]byte(res.Body), &buf); err != nil {
		s.logger.Warn("content: compile failed",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		return nil, apperr.ErrNotFound
	}

	return &models.Document{
		FrontMatter: res.FrontMatter,
		HTML:        buf.String(),
		Checksum:    checksum(data),
	}, nil
}

// Compile renders a Markdown body to HTML. Used by the resolver for
// articles whose body lives inline in the metadata store.
func (s *Store) Compile(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("%w: compile: %v", apperr.ErrParseFailure, err)
	}
	return buf.String(), nil
}

// Root returns the absolute posts directory.
func (s *Store) Root() string {
	return s.root
}

// filePath resolves slug to an absolute file path, rejecting anything that
// would escape the posts directory.
func (s *Store) filePath(slug string) (string, error) {
	if slug == "" || strings.ContainsAny(slug, "/\\") || slug == "." || slug == ".." {
		return "", apperr.ErrNotFound
	}
	return filepath.Join(s.root, slug+Ext), nil
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
