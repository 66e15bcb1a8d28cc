package errorsignal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal/site"
	"github.com/emersonmde/errorsignal/views"
)

// page builds the per-render context for a site-relative path.
func (a *App) page(path string) site.PageContext {
	return site.PageContext{
		LocationPath: a.Config.PathPrefix + path,
		Title:        views.SiteTitle(a.Metadata),
	}
}

func (a *App) requestPage(c echo.Context) site.PageContext {
	return site.PageContext{
		LocationPath: c.Request().URL.Path,
		Title:        views.SiteTitle(a.Metadata),
	}
}

// homeView renders the post list. An unknown tag yields an empty list.
func (a *App) homeView(env views.Env, page site.PageContext, tag string) (templ.Component, error) {
	posts, err := a.Cache.ListPosts(tag)
	if err != nil {
		return nil, err
	}
	tags, err := a.Cache.ListTags()
	if err != nil {
		return nil, err
	}
	return views.HomePage(env, page, posts, tag, tags), nil
}

// postView renders one published post, or returns ErrNotFound.
func (a *App) postView(env views.Env, page site.PageContext, slug string) (templ.Component, error) {
	post, err := a.Cache.GetPost(slug)
	if err != nil {
		return nil, err
	}
	older, newer, err := a.Cache.Neighbours(slug)
	if err != nil {
		return nil, err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return nil, err
	}
	body, err := a.Renderer.Render(post.Content)
	if err != nil {
		return nil, fmt.Errorf("errorsignal: post %q: %w", slug, err)
	}
	return views.PostPage(env, page, views.Article{
		Post:     post,
		BodyHTML: body,
		Older:    older,
		Newer:    newer,
		Related:  views.RelatedPosts(post, posts),
	}), nil
}

func (a *App) handleHome(c echo.Context) error {
	cmp, err := a.homeView(a.env(c), a.requestPage(c), c.QueryParam("tag"))
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handlePost(c echo.Context) error {
	cmp, err := a.postView(a.env(c), a.requestPage(c), c.Param("slug"))
	if errors.Is(err, ErrNotFound) {
		return RenderStatus(c, http.StatusNotFound, views.NotFoundPage(a.env(c), a.requestPage(c)))
	}
	if err != nil {
		return err
	}
	return Render(c, cmp)
}

func (a *App) handleTypeScript(c echo.Context) error {
	return Render(c, views.TypeScriptPage(a.env(c), a.requestPage(c)))
}

func (a *App) handleBlogRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, a.Config.PathPrefix+"/")
}

func (a *App) handleAvatar(large bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.avatar == nil {
			return echo.ErrNotFound
		}
		data := a.avatar.Small
		if large {
			data = a.avatar.Large
		}
		return c.Blob(http.StatusOK, "image/jpeg", data)
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	if errors.As(err, &he) {
		code = he.Code
	}
	switch {
	case code == http.StatusNotFound:
		if rerr := RenderStatus(c, code, views.NotFoundPage(a.env(c), a.requestPage(c))); rerr != nil {
			a.Log.Error("render not found page", zap.Error(rerr))
		}
	case code >= 500:
		a.Log.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		if rerr := RenderStatus(c, code, views.ServerErrorPage(a.env(c), a.requestPage(c))); rerr != nil {
			a.Log.Error("render error page", zap.Error(rerr))
		}
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
