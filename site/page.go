package site

import (
	"strings"
	"unicode"
)

// PageContext is supplied by the caller for every render.
type PageContext struct {
	LocationPath string
	Title        string
}

// IsRoot reports whether the page is the site root under pathPrefix.
// Anything that is not exactly prefix + "/" is treated as a non-root page.
func (p PageContext) IsRoot(pathPrefix string) bool {
	return p.LocationPath == pathPrefix+"/"
}

// HeadProps carries per-page document head inputs. An empty Description
// falls back to the site default.
type HeadProps struct {
	Title       string
	Description string
}

// Post is a blog post as stored, cached, and rendered.
type Post struct {
	Title     string
	Date      string // YYYY-MM-DD
	Tags      []string
	Summary   string
	Link      string
	Slug      string
	Content   string // markdown source
	Published bool
}

// Slugify converts a title to a lowercase, hyphen-separated slug. Letters
// and digits from any script are kept; URLs escape them on the way out.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
