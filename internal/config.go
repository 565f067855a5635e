package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/nordveil/tblog/internal/prefs"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Auth    AuthConfig        `yaml:"auth"`
	Blog    BlogConfig        `yaml:"blog"`
	Theme   ThemeConfig       `yaml:"theme"`
	I18n    I18nConfig        `yaml:"i18n"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Blog.Validate(); err != nil {
		return err
	}
	if err := c.Theme.Validate(); err != nil {
		return err
	}
	return c.I18n.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the path to the Markdown posts directory.
type ContentConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how admin routes are protected:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer JWT authentication; Secret must be non-empty.
type AuthConfig struct {
	Mode     string        `yaml:"mode"`
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Secret == "" {
		return fmt.Errorf("auth: mode is %q but secret is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// BlogConfig holds listing and caching behaviour.
type BlogConfig struct {
	PostsPerPage int           `yaml:"posts_per_page"`
	MaxPageSize  int           `yaml:"max_page_size"`
	ListingTTL   time.Duration `yaml:"listing_ttl"`
}

// Validate validates the blog configuration.
func (c *BlogConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.PostsPerPage, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxPageSize, validation.Required, validation.Min(1)),
	); err != nil {
		return err
	}
	if c.MaxPageSize < c.PostsPerPage {
		return fmt.Errorf("blog: max_page_size %d is below posts_per_page %d", c.MaxPageSize, c.PostsPerPage)
	}
	return nil
}

// ThemeConfig holds the initial theme behaviour served to clients.
type ThemeConfig struct {
	Default      string `yaml:"default"`
	EnableSystem bool   `yaml:"enable_system"`
}

// Validate validates the theme configuration.
func (c *ThemeConfig) Validate() error {
	if c.Default == "" {
		c.Default = string(prefs.ThemeLight)
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Default, validation.In(string(prefs.ThemeLight), string(prefs.ThemeDark))),
	)
}

// I18nConfig holds localisation configuration.
type I18nConfig struct {
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
}

// Validate validates the i18n configuration.
func (c *I18nConfig) Validate() error {
	if c.DefaultLocale == "" {
		c.DefaultLocale = "zh"
	}
	if len(c.Locales) == 0 {
		c.Locales = []string{"zh", "en"}
	}
	for _, l := range c.Locales {
		if l == c.DefaultLocale {
			return nil
		}
	}
	return fmt.Errorf("i18n: default_locale %q is not in locales %v", c.DefaultLocale, c.Locales)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path: "./posts",
		},
		SQLite: SQLiteConfig{
			Path: "./tblog.db",
		},
		Auth: AuthConfig{
			Mode:     AuthModeDisabled,
			TokenTTL: 24 * time.Hour,
		},
		Blog: BlogConfig{
			PostsPerPage: 6,
			MaxPageSize:  50,
			ListingTTL:   5 * time.Minute,
		},
		Theme: ThemeConfig{
			Default:      string(prefs.ThemeLight),
			EnableSystem: true,
		},
		I18n: I18nConfig{
			DefaultLocale: "zh",
			Locales:       []string{"zh", "en"},
		},
	}
}
