package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/emersonmde/errorsignal/site"
)

// Head renders the per-page document head tags. Children are emitted after
// the standard tags so they can extend or override them.
func Head(env Env, props site.HeadProps, children ...g.Node) g.Node {
	description := props.Description
	if description == "" {
		description, _ = env.Metadata.SiteDescription()
	}
	title := props.Title
	if siteTitle, ok := env.Metadata.SiteTitle(); ok {
		title = props.Title + " | " + siteTitle
	}
	creator, _ := env.Metadata.TwitterHandle()

	return fragment(
		h.TitleEl(g.Text(title)),
		h.Meta(h.Name("description"), h.Content(description)),
		h.Meta(property("og:title"), h.Content(props.Title)),
		h.Meta(property("og:description"), h.Content(description)),
		h.Meta(property("og:type"), h.Content("website")),
		h.Meta(h.Name("twitter:card"), h.Content("summary")),
		h.Meta(h.Name("twitter:creator"), h.Content(creator)),
		h.Meta(h.Name("twitter:title"), h.Content(props.Title)),
		h.Meta(h.Name("twitter:description"), h.Content(description)),
		h.Meta(h.Name("og:image"), h.Content(env.URL(IconPath))),
		h.Link(h.Rel("icon"), h.Type("image/svg+xml"), h.Href(env.URL(IconPath))),
		h.Script(h.Defer(), h.Data("domain", env.analyticsDomain()), h.Src(AnalyticsScriptURL)),
		fragment(children...),
	)
}

func property(name string) g.Node {
	return g.Attr("property", name)
}
