package internal

import "github.com/nordveil/tblog/internal/i18n"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	catalog *i18n.Catalog
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithCatalog overrides the built-in translation catalog.
func WithCatalog(c *i18n.Catalog) Option {
	return func(a *application) {
		a.catalog = c
	}
}
