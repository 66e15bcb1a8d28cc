package errorsignal

import (
	"embed"
	"io/fs"
)

// EmbeddedAssets contains the site's own static files: style.css, icon.svg,
// avatar.svg (the placeholder) and livereload.js.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

// staticFS is EmbeddedAssets rooted at embedded/, served under /static.
func staticFS() fs.FS {
	sub, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		panic(err)
	}
	return sub
}
