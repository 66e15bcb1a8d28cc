package errorsignal

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal/views"
)

// Config holds all configuration for the site. Keys match the config file
// and, upper-cased with an ERRORSIGNAL_ prefix, the environment.
type Config struct {
	Addr       string `mapstructure:"addr"`       // listen address (default ":3000")
	PathPrefix string `mapstructure:"pathPrefix"` // mount point, "" or "/blog"
	Owner      string `mapstructure:"owner"`      // footer and avatar alt text

	MetadataPath string `mapstructure:"metadataPath"` // site metadata YAML (default "site.yaml")
	DatabasePath string `mapstructure:"databasePath"` // SQLite path (default "data/blog.db")
	ContentDir   string `mapstructure:"contentDir"`   // markdown posts (default "content/blog")
	StaticDir    string `mapstructure:"staticDir"`    // user assets served at /public (default "public")
	AvatarPath   string `mapstructure:"avatarPath"`   // profile picture; missing uses the placeholder
	OutputDir    string `mapstructure:"outputDir"`    // static export target (default "dist")

	AnalyticsDomain string `mapstructure:"analyticsDomain"`

	AdminPassword string `mapstructure:"adminPassword"` // required to serve
	SessionSecret string `mapstructure:"sessionSecret"` // required to serve
	CookieSecure  bool   `mapstructure:"cookieSecure"`  // set true behind HTTPS

	PostCacheTTL time.Duration `mapstructure:"postCacheTTL"` // default 5m
	Dev          bool          `mapstructure:"dev"`          // watch content and live reload
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	c.PathPrefix = normalizePrefix(c.PathPrefix)
	if c.Owner == "" {
		c.Owner = views.DefaultOwner
	}
	if c.MetadataPath == "" {
		c.MetadataPath = "site.yaml"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/blog"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.AvatarPath == "" {
		c.AvatarPath = "content/assets/profile-pic.jpg"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.AnalyticsDomain == "" {
		c.AnalyticsDomain = views.DefaultAnalyticsDomain
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// validateServe checks settings that only the HTTP server needs.
func (c Config) validateServe() error {
	if c.AdminPassword == "" {
		return errors.New("errorsignal: adminPassword is required")
	}
	if c.SessionSecret == "" {
		return errors.New("errorsignal: sessionSecret is required")
	}
	return nil
}

// normalizePrefix turns "blog/", "/blog" and "/blog/" into "/blog", and "/" into "".
func normalizePrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the application logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithClock overrides the render-time clock used for the footer year.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.clock = now
	}
}
