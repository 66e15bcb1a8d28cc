// Package icons renders the inline SVG platform glyphs used by the bio links.
//
// Setup must be called once by the host before any page renders. It fixes
// process-wide options such as whether the icon stylesheet is injected into
// the document head; components never change these options themselves.
package icons

import (
	"errors"
	"sync"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// ErrAlreadyConfigured is returned by every Setup call after the first.
var ErrAlreadyConfigured = errors.New("icons: already configured")

// Options are the process-wide icon settings.
type Options struct {
	// AutoAddCSS makes Stylesheet emit the glyph sizing rules. Leave it off
	// when the site stylesheet already styles .icon.
	AutoAddCSS bool
}

var state struct {
	mu         sync.RWMutex
	configured bool
	opts       Options
}

// Setup records opts for the lifetime of the process.
func Setup(opts Options) error {
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.configured {
		return ErrAlreadyConfigured
	}
	state.opts = opts
	state.configured = true
	return nil
}

// Configured reports whether Setup has run.
func Configured() bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.configured
}

func currentOptions() Options {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.opts
}

// reset is for tests.
func reset() {
	state.mu.Lock()
	state.configured = false
	state.opts = Options{}
	state.mu.Unlock()
}

const css = `.icon{display:inline-block;width:2em;height:2em;fill:currentColor;vertical-align:middle}`

// Stylesheet returns the icon <style> element, or an empty group when
// AutoAddCSS is off.
func Stylesheet() g.Node {
	if !currentOptions().AutoAddCSS {
		return g.Group{}
	}
	return h.StyleEl(g.Raw(css))
}

type glyph struct {
	viewBox string
	body    string
}

var glyphs = map[string]glyph{
	"github": {
		viewBox: "0 0 16 16",
		body:    `<path d="M8 0C3.58 0 0 3.58 0 8c0 3.54 2.29 6.53 5.47 7.59.4.07.55-.17.55-.38 0-.19-.01-.82-.01-1.49-2.01.37-2.53-.49-2.69-.94-.09-.23-.48-.94-.82-1.13-.28-.15-.68-.52-.01-.53.63-.01 1.08.58 1.23.82.72 1.21 1.87.87 2.33.66.07-.52.28-.87.51-1.07-1.78-.2-3.64-.89-3.64-3.95 0-.87.31-1.59.82-2.15-.08-.2-.36-1.02.08-2.12 0 0 .67-.21 2.2.82.64-.18 1.32-.27 2-.27.68 0 1.36.09 2 .27 1.53-1.04 2.2-.82 2.2-.82.44 1.1.16 1.92.08 2.12.51.56.82 1.27.82 2.15 0 3.07-1.87 3.75-3.65 3.95.29.25.54.73.54 1.48 0 1.07-.01 1.93-.01 2.2 0 .21.15.46.55.38A8.013 8.013 0 0016 8c0-4.42-3.58-8-8-8z"/>`,
	},
	"globe": {
		viewBox: "0 0 16 16",
		body:    `<circle cx="8" cy="8" r="7" fill="none" stroke="currentColor" stroke-width="1.2"/><path d="M1 8h14M8 1c2 2 3 4.5 3 7s-1 5-3 7c-2-2-3-4.5-3-7s1-5 3-7z" fill="none" stroke="currentColor" stroke-width="1.2"/>`,
	},
	"twitter": {
		viewBox: "0 0 24 24",
		body:    `<path d="M23.953 4.57a10 10 0 01-2.825.775 4.958 4.958 0 002.163-2.723c-.951.555-2.005.959-3.127 1.184a4.92 4.92 0 00-8.384 4.482C7.69 8.095 4.067 6.13 1.64 3.162a4.822 4.822 0 00-.666 2.475c0 1.71.87 3.213 2.188 4.096a4.904 4.904 0 01-2.228-.616v.06a4.923 4.923 0 003.946 4.827 4.996 4.996 0 01-2.212.085 4.936 4.936 0 004.604 3.417 9.867 9.867 0 01-6.102 2.105c-.39 0-.779-.023-1.17-.067a13.995 13.995 0 007.557 2.209c9.053 0 13.998-7.496 13.998-13.985 0-.21 0-.42-.015-.63A9.935 9.935 0 0024 4.59z"/>`,
	},
}

// Names lists the available glyphs.
func Names() []string {
	return []string{"github", "globe", "twitter"}
}

// Glyph renders the named icon as inline SVG. Unknown names render nothing.
func Glyph(name string) g.Node {
	gl, ok := glyphs[name]
	if !ok {
		return g.Group{}
	}
	return g.El("svg",
		g.Attr("xmlns", "http://www.w3.org/2000/svg"),
		g.Attr("viewBox", gl.viewBox),
		g.Attr("aria-hidden", "true"),
		g.Attr("focusable", "false"),
		h.Class("icon icon-"+name),
		g.Raw(gl.body),
	)
}
