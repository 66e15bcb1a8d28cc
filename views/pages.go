package views

import (
	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/emersonmde/errorsignal/icons"
	"github.com/emersonmde/errorsignal/site"
)

// document renders a complete HTML page: the shared head tags followed by
// head extras, then body.
func document(env Env, head site.HeadProps, extras []g.Node, body ...g.Node) g.Node {
	children := []g.Node{
		h.Link(h.Rel("stylesheet"), h.Href(env.URL(StylesheetPath))),
		icons.Stylesheet(),
	}
	children = append(children, extras...)
	if env.LiveReload {
		children = append(children, h.Script(
			h.Defer(),
			h.Src(env.URL(LiveReloadScriptPath)),
			h.Data("path", env.URL(LiveReloadSocketPath)),
		))
	}
	return h.Doctype(h.HTML(h.Lang("en"),
		h.Head(
			h.Meta(h.Charset("utf-8")),
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			Head(env, head, children...),
		),
		h.Body(body...),
	))
}

func jsonLD(data string) g.Node {
	return h.Script(h.Type("application/ld+json"), g.Raw(data))
}

// SiteTitle is the layout heading: the site title or the literal "Title".
func SiteTitle(meta site.Metadata) string {
	if t, ok := meta.SiteTitle(); ok {
		return t
	}
	return "Title"
}

// HomePage lists published posts below the bio, optionally filtered by tag.
func HomePage(env Env, page site.PageContext, posts []site.Post, activeTag string, tags []string) templ.Component {
	return Component(document(env,
		site.HeadProps{Title: "All posts"},
		[]g.Node{jsonLD(WebsiteJSONLD(env))},
		Layout(env, page,
			Bio(env),
			tagNav(env, activeTag, tags),
			postList(env, posts),
		),
	))
}

func tagNav(env Env, activeTag string, tags []string) g.Node {
	if len(tags) == 0 {
		return nil
	}
	return h.Nav(h.Class("tag-list"), h.Aria("label", "Tags"),
		h.A(h.Class(tagClass(activeTag == "")), h.Href(env.URL("/")), g.Text("all")),
		g.Map(tags, func(tag string) g.Node {
			return h.A(
				h.Class(tagClass(tag == activeTag)),
				h.Href(TagURL(env, tag)),
				g.Text(tag),
			)
		}),
	)
}

func postList(env Env, posts []site.Post) g.Node {
	if len(posts) == 0 {
		return h.P(h.Class("empty"),
			g.Text("No blog posts found. Add markdown posts to the content directory and run the import command."),
		)
	}
	return h.Ol(h.Class("post-list"),
		g.Map(posts, func(p site.Post) g.Node {
			return h.Li(
				h.Article(h.Class("post-list-item"), g.Attr("itemscope"), g.Attr("itemtype", "http://schema.org/Article"),
					h.Header(
						h.H2(h.A(h.Href(PostURL(env, p.Slug)), g.Attr("itemprop", "url"),
							h.Span(g.Attr("itemprop", "headline"), g.Text(p.Title)),
						)),
						h.Small(g.Text(FormatDate(p.Date))),
					),
					h.Section(h.P(g.Attr("itemprop", "description"), g.Text(p.Summary))),
				),
			)
		}),
	)
}

// Article is everything the post page needs beyond the Env.
type Article struct {
	Post     site.Post
	BodyHTML string // sanitised HTML
	Older    *site.Post
	Newer    *site.Post
	Related  []site.Post
}

// PostPage renders a single post with bio, neighbour navigation and related posts.
func PostPage(env Env, page site.PageContext, a Article) templ.Component {
	return Component(document(env,
		site.HeadProps{Title: a.Post.Title, Description: a.Post.Summary},
		[]g.Node{jsonLD(BlogPostingJSONLD(env, a.Post))},
		Layout(env, page,
			h.Article(h.Class("blog-post"), g.Attr("itemscope"), g.Attr("itemtype", "http://schema.org/Article"),
				h.Header(
					h.H1(g.Attr("itemprop", "headline"), g.Text(a.Post.Title)),
					h.P(g.Text(FormatDate(a.Post.Date))),
				),
				h.Section(g.Attr("itemprop", "articleBody"), g.Raw(a.BodyHTML)),
				h.Hr(),
				h.Footer(Bio(env)),
			),
			postNav(env, a.Older, a.Newer),
			relatedList(env, a.Related),
		),
	))
}

func postNav(env Env, older, newer *site.Post) g.Node {
	if older == nil && newer == nil {
		return nil
	}
	return h.Nav(h.Class("blog-post-nav"),
		h.Ul(
			h.Li(g.Iff(older != nil, func() g.Node {
				return h.A(h.Href(PostURL(env, older.Slug)), h.Rel("prev"), g.Text("← "+older.Title))
			})),
			h.Li(g.Iff(newer != nil, func() g.Node {
				return h.A(h.Href(PostURL(env, newer.Slug)), h.Rel("next"), g.Text(newer.Title+" →"))
			})),
		),
	)
}

func relatedList(env Env, related []site.Post) g.Node {
	if len(related) == 0 {
		return nil
	}
	return h.Section(h.Class("related-posts"),
		h.H2(g.Text("Related posts")),
		h.Ul(g.Map(related, func(p site.Post) g.Node {
			return h.Li(h.A(h.Href(PostURL(env, p.Slug)), g.Text(p.Title)))
		})),
	)
}

// TypeScriptPage is the info page about typed pages, showing the current
// path and when the site was built.
func TypeScriptPage(env Env, page site.PageContext) templ.Component {
	return Component(document(env,
		site.HeadProps{Title: "Using TypeScript"},
		nil,
		Layout(env, page,
			h.H1(g.Text("Gatsby supports TypeScript by default!")),
			h.P(
				g.Text("This means that you can create and write "), h.Code(g.Text(".ts/.tsx")),
				g.Text(" files for your pages, components, and "), h.Code(g.Text("gatsby-*")),
				g.Text(" configuration files (for example "), h.Code(g.Text("gatsby-config.ts")), g.Text(")."),
			),
			h.P(
				g.Text("For type checking you'll want to install "), h.Em(g.Text("typescript")),
				g.Text(" via npm and run "), h.Em(g.Text("tsc --init")),
				g.Text(" to create a "), h.Em(g.Text("tsconfig")), g.Text(" file."),
			),
			h.P(g.Textf("You're currently on the page %q which was built on %s.",
				page.LocationPath, env.BuildTime.UTC().Format("January 02, 2006 15:04 MST"))),
			h.P(
				g.Text("To learn more, head over to our "),
				h.A(h.Href("https://www.gatsbyjs.com/docs/how-to/custom-configuration/typescript/"), g.Text("documentation about TypeScript")),
				g.Text("."),
			),
			h.A(h.Href(env.URL("/")), g.Text("Go back to the homepage")),
		),
	))
}

// NotFoundPage is rendered for unknown routes and missing posts.
func NotFoundPage(env Env, page site.PageContext) templ.Component {
	return Component(document(env,
		site.HeadProps{Title: "404: Not Found"},
		nil,
		Layout(env, page,
			h.H1(g.Text("404: Not Found")),
			h.P(g.Text("You just hit a route that doesn't exist... the sadness.")),
		),
	))
}

// ServerErrorPage is rendered when a handler fails.
func ServerErrorPage(env Env, page site.PageContext) templ.Component {
	return Component(document(env,
		site.HeadProps{Title: "Something went wrong"},
		nil,
		Layout(env, page,
			h.H1(g.Text("500: Internal Server Error")),
			h.P(g.Text("Something broke on our side. Please try again in a moment.")),
		),
	))
}
