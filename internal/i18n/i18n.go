// Package i18n provides typed UI string tables per locale. Keys form a
// closed enumeration; every locale must define every key, checked at load
// time. A key missing from a locale falls back to the default locale.
package i18n

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nordveil/tblog/internal/prefs"
)

// Key identifies one translatable string.
type Key string

// The closed key enumeration. New strings are added here first.
const (
	KeySiteTitle       Key = "site.title"
	KeySiteDescription Key = "site.description"
	KeySiteWelcome     Key = "site.welcome"

	KeyNavHome     Key = "nav.home"
	KeyNavPosts    Key = "nav.posts"
	KeyNavTheme    Key = "nav.theme"
	KeyNavLanguage Key = "nav.language"

	KeyThemeLight  Key = "theme.light"
	KeyThemeDark   Key = "theme.dark"
	KeyThemeSystem Key = "theme.system"
	KeyThemeToggle Key = "theme.toggle"

	KeyButtonReadMore Key = "button.readMore"
	KeyButtonBackHome Key = "button.backHome"
	KeyButtonRetry    Key = "button.retry"
	KeyButtonSearch   Key = "button.search"

	KeyPostPublishedAt Key = "post.publishedAt"
	KeyPostUpdatedAt   Key = "post.updatedAt"
	KeyPostTags        Key = "post.tags"
	KeyPostRelated     Key = "post.related"
	KeyPostLatest      Key = "post.latest"
	KeyPostDraft       Key = "post.draft"

	KeySearchPlaceholder Key = "search.placeholder"
	KeySearchNoResults   Key = "search.noResults"

	KeyPaginationPrev       Key = "pagination.prev"
	KeyPaginationNext       Key = "pagination.next"
	KeyPaginationPage       Key = "pagination.page"
	KeyPaginationTotalPages Key = "pagination.totalPages"

	KeyErrorNotFound     Key = "error.notFound"
	KeyErrorPostNotFound Key = "error.postNotFound"
	KeyErrorServerError  Key = "error.serverError"

	KeyStatusLoading Key = "status.loading"
	KeyStatusNoPosts Key = "status.noPosts"

	KeyTagsTitle Key = "tags.title"
	KeyTagsCount Key = "tags.count"
)

// allKeys enumerates the closed key set for completeness checking.
var allKeys = []Key{
	KeySiteTitle, KeySiteDescription, KeySiteWelcome,
	KeyNavHome, KeyNavPosts, KeyNavTheme, KeyNavLanguage,
	KeyThemeLight, KeyThemeDark, KeyThemeSystem, KeyThemeToggle,
	KeyButtonReadMore, KeyButtonBackHome, KeyButtonRetry, KeyButtonSearch,
	KeyPostPublishedAt, KeyPostUpdatedAt, KeyPostTags, KeyPostRelated,
	KeyPostLatest, KeyPostDraft,
	KeySearchPlaceholder, KeySearchNoResults,
	KeyPaginationPrev, KeyPaginationNext, KeyPaginationPage, KeyPaginationTotalPages,
	KeyErrorNotFound, KeyErrorPostNotFound, KeyErrorServerError,
	KeyStatusLoading, KeyStatusNoPosts,
	KeyTagsTitle, KeyTagsCount,
}

// Params substitutes {{name}} placeholders in a template string.
type Params map[string]any

// Catalog holds every locale's table plus the fallback locale.
type Catalog struct {
	defaultLocale prefs.Locale
	tables        map[prefs.Locale]map[Key]string
}

// NewCatalog builds a catalog and verifies that every locale defines every
// key of the closed enumeration.
func NewCatalog(defaultLocale prefs.Locale, tables map[prefs.Locale]map[Key]string) (*Catalog, error) {
	if _, ok := tables[defaultLocale]; !ok {
		return nil, fmt.Errorf("i18n: default locale %q has no table", defaultLocale)
	}
	for locale, table := range tables {
		var missing []string
		for _, k := range allKeys {
			if _, ok := table[k]; !ok {
				missing = append(missing, string(k))
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return nil, fmt.Errorf("i18n: locale %q missing keys: %s", locale, strings.Join(missing, ", "))
		}
	}
	return &Catalog{defaultLocale: defaultLocale, tables: tables}, nil
}

// Default returns the catalog for the built-in zh/en tables. The tables are
// complete by construction; a failure here is a programming error.
func Default() *Catalog {
	c, err := NewCatalog("zh", map[prefs.Locale]map[Key]string{
		"zh": zhTable,
		"en": enTable,
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Locales returns the locales the catalog can translate to.
func (c *Catalog) Locales() []prefs.Locale {
	out := make([]prefs.Locale, 0, len(c.tables))
	for l := range c.tables {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Supported reports whether the catalog holds a table for locale.
func (c *Catalog) Supported(l prefs.Locale) bool {
	_, ok := c.tables[l]
	return ok
}

// T translates key for locale, substituting params. An unknown locale or a
// missing key falls back to the default locale; a key absent there too
// returns the key itself.
func (c *Catalog) T(locale prefs.Locale, key Key, params Params) string {
	tmpl, ok := c.tables[locale][key]
	if !ok {
		tmpl, ok = c.tables[c.defaultLocale][key]
	}
	if !ok {
		return string(key)
	}
	if len(params) == 0 {
		return tmpl
	}
	return substitute(tmpl, params)
}

// Func returns a translation function bound to one locale.
func (c *Catalog) Func(locale prefs.Locale) func(Key, Params) string {
	return func(key Key, params Params) string {
		return c.T(locale, key, params)
	}
}

func substitute(tmpl string, params Params) string {
	var b strings.Builder
	for {
		start := strings.Index(tmpl, "{{")
		if start < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.Index(tmpl[start:], "}}")
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		name := tmpl[start+2 : start+end]
		b.WriteString(tmpl[:start])
		if v, ok := params[name]; ok {
			fmt.Fprintf(&b, "%v", v)
		} else {
			// Unknown placeholders stay verbatim.
			b.WriteString(tmpl[start : start+end+2])
		}
		tmpl = tmpl[start+end+2:]
	}
}
