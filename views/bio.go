package views

import (
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/emersonmde/errorsignal/icons"
	"github.com/emersonmde/errorsignal/site"
)

const (
	DefaultGitHubURL  = "https://github.com/emersonmde"
	DefaultWebsiteURL = "https://memerson.dev"
	twitterBaseURL    = "https://twitter.com/"
)

// ProfileLink is one outbound link in the bio.
type ProfileLink struct {
	URL   string
	Label string
	Icon  string
}

// ProfileLinks returns the bio's outbound links: code hosting, personal
// site, and Twitter when a handle is configured.
func ProfileLinks(meta site.Metadata) []ProfileLink {
	github, ok := meta.GitHubURL()
	if !ok {
		github = DefaultGitHubURL
	}
	website, ok := meta.WebsiteURL()
	if !ok {
		website = DefaultWebsiteURL
	}
	links := []ProfileLink{
		{URL: github, Label: "GitHub", Icon: "github"},
		{URL: website, Label: "Website", Icon: "globe"},
	}
	if handle, ok := meta.TwitterHandle(); ok {
		links = append(links, ProfileLink{
			URL:   twitterBaseURL + strings.TrimPrefix(handle, "@"),
			Label: "Twitter",
			Icon:  "twitter",
		})
	}
	return links
}

// Bio renders the author card. Without an author name only the avatar renders.
func Bio(env Env) g.Node {
	name, hasName := env.Metadata.AuthorName()
	return h.Div(h.Class("bio"),
		avatar(env),
		g.Iff(hasName, func() g.Node {
			summary, _ := env.Metadata.AuthorSummary()
			return h.Div(h.Class("bio-content"),
				h.H3(g.Text(name)),
				h.P(h.Class("bio-tagline"), g.Text(summary)),
				h.Div(h.Class("bio-links"),
					g.Map(ProfileLinks(env.Metadata), profileLink),
				),
			)
		}),
	)
}

func avatar(env Env) g.Node {
	src := env.AvatarURL
	if src == "" {
		src = env.URL(AvatarPlaceholder)
	}
	return h.Img(
		h.Class("bio-avatar"),
		h.Src(src),
		g.If(env.AvatarURL2x != "", g.Attr("srcset", env.AvatarURL2x+" 2x")),
		h.Width("70"),
		h.Height("70"),
		h.Alt("Profile picture of "+env.owner()),
	)
}

func profileLink(l ProfileLink) g.Node {
	return h.A(
		h.Href(l.URL),
		h.Target("_blank"),
		h.Rel("noopener noreferrer"),
		h.Aria("label", l.Label),
		icons.Glyph(l.Icon),
	)
}
