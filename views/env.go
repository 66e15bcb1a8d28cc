// Package views builds the site's pages from small presentational units:
// Head (document head tags), Layout (page shell) and Bio (author card).
//
// Every unit is a pure function of its inputs and the Env it is handed;
// nothing here reads globals, performs I/O or logs.
package views

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"

	"github.com/emersonmde/errorsignal/site"
)

const (
	// AnalyticsScriptURL is the third-party analytics origin.
	AnalyticsScriptURL = "https://plausible.io/js/script.js"
	// DefaultAnalyticsDomain identifies the site to the analytics provider.
	DefaultAnalyticsDomain = "errorsignal.dev"
	// DefaultOwner is credited in the footer and the avatar alt text.
	DefaultOwner = "Matthew Emerson"

	IconPath             = "/static/icon.svg"
	StylesheetPath       = "/static/style.css"
	AvatarPlaceholder    = "/static/avatar.svg"
	LiveReloadScriptPath = "/static/livereload.js"
	LiveReloadSocketPath = "/__livereload"

	// ScrollToTopScript issues one smooth scroll to the origin per activation.
	ScrollToTopScript = "window.scrollTo({top: 0, behavior: 'smooth'})"
)

// Env is the render-time dependency bundle passed to every component.
type Env struct {
	Metadata        site.Metadata
	PathPrefix      string
	Owner           string
	AnalyticsDomain string
	AvatarURL       string // 1x avatar; empty uses the placeholder
	AvatarURL2x     string
	BuildTime       time.Time
	LiveReload      bool
	CSRFToken       string
	Clock           func() time.Time
}

// Now returns the current time from the Env clock.
func (e Env) Now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

// URL prefixes an absolute site path with the path prefix.
func (e Env) URL(path string) string {
	return e.PathPrefix + path
}

func (e Env) owner() string {
	if e.Owner == "" {
		return DefaultOwner
	}
	return e.Owner
}

func (e Env) analyticsDomain() string {
	if e.AnalyticsDomain == "" {
		return DefaultAnalyticsDomain
	}
	return e.AnalyticsDomain
}

// Component adapts a node to the templ.Component contract the HTTP layer renders.
func Component(n g.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return n.Render(w)
	})
}

// fragment groups nodes, dropping nils so the group is always renderable.
func fragment(nodes ...g.Node) g.Group {
	out := make(g.Group, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
