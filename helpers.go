package errorsignal

import "strings"

// defaultSiteURL is used for absolute links when the metadata has no siteUrl.
const defaultSiteURL = "http://localhost:3000"

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// siteBase is the absolute URL of the site root, path prefix included,
// without a trailing slash.
func (a *App) siteBase() string {
	base, ok := a.Metadata.URL()
	if !ok {
		base = defaultSiteURL
	}
	return base + a.Config.PathPrefix
}

// sitePath strips the path prefix from a request path. Paths outside the
// prefix, including ones that only share its leading characters, are
// returned unchanged.
func (a *App) sitePath(p string) string {
	prefix := a.Config.PathPrefix
	if prefix == "" {
		return p
	}
	rest, ok := strings.CutPrefix(p, prefix)
	switch {
	case !ok:
		return p
	case rest == "":
		return "/"
	case strings.HasPrefix(rest, "/"):
		return rest
	default:
		return p
	}
}
