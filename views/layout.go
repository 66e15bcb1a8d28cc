package views

import (
	"strconv"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/emersonmde/errorsignal/site"
)

// Layout wraps page content in the global header, main region and footer.
// The root page gets a large heading; every other page a small home link.
func Layout(env Env, page site.PageContext, children ...g.Node) g.Node {
	isRoot := page.IsRoot(env.PathPrefix)
	home := env.URL("/")

	var header g.Node
	if isRoot {
		header = h.H1(h.Class("main-heading"), h.A(h.Href(home), g.Text(page.Title)))
	} else {
		header = h.A(h.Class("header-link-home"), h.Href(home), g.Text(page.Title))
	}

	return h.Div(h.Class("global-wrapper"), h.Data("is-root-path", strconv.FormatBool(isRoot)),
		h.Header(h.Class("global-header"), header),
		h.Main(children...),
		footer(env),
	)
}

func footer(env Env) g.Node {
	return h.Footer(h.Class("layout-footer"),
		g.Textf("© %d, %s. All rights reserved", env.Now().Year(), env.owner()),
		h.Div(ReturnToTop()),
	)
}

// ReturnToTop is the footer control that scrolls the viewport back to the top.
func ReturnToTop() g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("return-to-top"),
		h.Aria("label", "Return to the top of the page"),
		g.Attr("onclick", ScrollToTopScript),
		g.Text("Return to top"),
	)
}
