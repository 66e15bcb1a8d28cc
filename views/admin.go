package views

import (
	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/emersonmde/errorsignal/site"
)

func adminDocument(env Env, title string, body ...g.Node) templ.Component {
	page := site.PageContext{LocationPath: env.URL("/admin/"), Title: SiteTitle(env.Metadata)}
	return Component(document(env,
		site.HeadProps{Title: title},
		[]g.Node{h.Meta(h.Name("robots"), h.Content("noindex"))},
		Layout(env, page, h.Section(h.Class("admin"), g.Group(body))),
	))
}

func csrfField(env Env) g.Node {
	return h.Input(h.Type("hidden"), h.Name("_csrf"), h.Value(env.CSRFToken))
}

// AdminLogin is the password form. failed adds an error message.
func AdminLogin(env Env, failed bool) templ.Component {
	return adminDocument(env, "Admin login",
		h.H1(g.Text("Admin")),
		g.If(failed, h.P(h.Class("admin-error"), h.Role("alert"), g.Text("Invalid password."))),
		h.Form(h.Method("post"), h.Action(env.URL("/admin/login/")),
			csrfField(env),
			h.Label(h.For("password"), g.Text("Password")),
			h.Input(h.Type("password"), h.ID("password"), h.Name("password"), h.Required(), h.AutoComplete("current-password")),
			h.Button(h.Type("submit"), g.Text("Log in")),
		),
	)
}

// AdminDashboard lists every post, drafts included, with edit and delete actions.
func AdminDashboard(env Env, posts []site.Post, msg string) templ.Component {
	return adminDocument(env, "Admin",
		h.H1(g.Text("Posts")),
		g.If(msg != "", h.P(h.Class("admin-message"), h.Role("status"), g.Text(msg))),
		h.P(
			h.A(h.Href(env.URL("/admin/post/new/")), g.Text("New post")),
		),
		h.Form(h.Method("post"), h.Action(env.URL("/admin/logout/")),
			csrfField(env),
			h.Button(h.Type("submit"), g.Text("Log out")),
		),
		g.If(len(posts) == 0, h.P(g.Text("No posts yet."))),
		g.If(len(posts) > 0, h.Table(h.Class("admin-posts"),
			h.THead(h.Tr(
				h.Th(g.Text("Title")), h.Th(g.Text("Date")), h.Th(g.Text("Status")), h.Th(),
			)),
			h.TBody(g.Map(posts, func(p site.Post) g.Node {
				return adminRow(env, p)
			})),
		)),
	)
}

func adminRow(env Env, p site.Post) g.Node {
	status := "draft"
	if p.Published {
		status = "published"
	}
	return h.Tr(
		h.Td(h.A(h.Href(env.URL("/admin/post/"+p.Slug+"/")), g.Text(p.Title))),
		h.Td(g.Text(p.Date)),
		h.Td(g.Text(status)),
		h.Td(
			h.Form(h.Method("post"), h.Action(env.URL("/admin/delete/"+p.Slug+"/")),
				csrfField(env),
				h.Button(h.Type("submit"), g.Attr("onclick", "return confirm('Delete this post?')"), g.Text("Delete")),
			),
		),
	)
}

// AdminEditor is the create/update form. A zero Post renders an empty form.
func AdminEditor(env Env, post site.Post) templ.Component {
	heading := "New post"
	if post.Slug != "" {
		heading = "Edit " + post.Title
	}
	return adminDocument(env, heading,
		h.H1(g.Text(heading)),
		h.Form(h.Class("admin-editor"), h.Method("post"), h.Action(env.URL("/admin/save/")),
			csrfField(env),
			field("title", "Title", h.Input(h.Type("text"), h.ID("title"), h.Name("title"), h.Value(post.Title), h.Required())),
			field("slug", "Slug", h.Input(h.Type("text"), h.ID("slug"), h.Name("slug"), h.Value(post.Slug), h.Placeholder("derived from title"))),
			field("date", "Date", h.Input(h.Type("date"), h.ID("date"), h.Name("date"), h.Value(post.Date))),
			field("tags", "Tags", h.Input(h.Type("text"), h.ID("tags"), h.Name("tags"), h.Value(JoinTags(post.Tags)))),
			field("summary", "Summary", h.Textarea(h.ID("summary"), h.Name("summary"), h.Rows("3"), g.Text(post.Summary))),
			field("content", "Content", h.Textarea(h.ID("content"), h.Name("content"), h.Rows("20"), g.Text(post.Content))),
			h.Label(
				h.Input(h.Type("checkbox"), h.Name("published"), h.Value("1"), g.If(post.Published, h.Checked())),
				g.Text(" Published"),
			),
			h.Button(h.Type("submit"), g.Text("Save")),
		),
		h.P(h.A(h.Href(env.URL("/admin/")), g.Text("Back to posts"))),
	)
}

func field(id, label string, input g.Node) g.Node {
	return h.Div(h.Class("field"),
		h.Label(h.For(id), g.Text(label)),
		input,
	)
}
