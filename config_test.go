package errorsignal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/emersonmde/errorsignal/views"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.Equal(t, ":3000", c.Addr)
	require.Equal(t, "", c.PathPrefix)
	require.Equal(t, views.DefaultOwner, c.Owner)
	require.Equal(t, "site.yaml", c.MetadataPath)
	require.Equal(t, "data/blog.db", c.DatabasePath)
	require.Equal(t, "content/blog", c.ContentDir)
	require.Equal(t, "dist", c.OutputDir)
	require.Equal(t, views.DefaultAnalyticsDomain, c.AnalyticsDomain)
	require.Equal(t, 5*time.Minute, c.PostCacheTTL)
	require.False(t, c.Dev)
}

func TestNormalizePrefix(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"/":       "",
		"  ":      "",
		"blog":    "/blog",
		"/blog":   "/blog",
		"/blog/":  "/blog",
		"blog/":   "/blog",
		"/a/b/":   "/a/b",
		" /docs ": "/docs",
	}
	for in, want := range tests {
		require.Equal(t, want, normalizePrefix(in), "normalizePrefix(%q)", in)
	}
}

func TestValidateServe(t *testing.T) {
	c := DefaultConfig()
	require.ErrorContains(t, c.validateServe(), "adminPassword")

	c.AdminPassword = "pw"
	require.ErrorContains(t, c.validateServe(), "sessionSecret")

	c.SessionSecret = "secret"
	require.NoError(t, c.validateServe())
}

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"", "debug", "WARN", "bogus"} {
		log, err := NewLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, log)
	}
	log, err := NewLogger("debug")
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(-1))

	log, err = NewLogger("bogus")
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(-1), "unknown level falls back to info")
}

func TestSitePath(t *testing.T) {
	a := &App{Config: Config{PathPrefix: "/blog"}}
	tests := map[string]string{
		"/blog":             "/",
		"/blog/":            "/",
		"/blog/static/x":    "/static/x",
		"/blogger":          "/blogger",
		"/blogger/feed.xml": "/blogger/feed.xml",
		"/other":            "/other",
	}
	for in, want := range tests {
		require.Equal(t, want, a.sitePath(in), "sitePath(%q)", in)
	}

	root := &App{}
	require.Equal(t, "/blogger", root.sitePath("/blogger"))
}
