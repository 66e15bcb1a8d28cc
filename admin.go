package errorsignal

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal/site"
	"github.com/emersonmde/errorsignal/views"
)

func (a *App) adminURL(msg string) string {
	u := a.Config.PathPrefix + "/admin/"
	if msg != "" {
		u += "?msg=" + url.QueryEscape(msg)
	}
	return u
}

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, views.AdminLogin(a.env(c), false))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPost(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, a.adminURL(""))
	}
	slug := c.Param("slug")
	if slug == "new" {
		return Render(c, views.AdminEditor(a.env(c), site.Post{Date: a.now().Format("2006-01-02")}))
	}
	post, err := a.Store.GetPostAny(slug)
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return Render(c, views.AdminEditor(a.env(c), post))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, a.adminURL(""))
	}
	a.loginLimiter.Record(ip)
	a.Log.Warn("failed admin login", zap.String("ip", ip))
	return RenderStatus(c, http.StatusUnauthorized, views.AdminLogin(a.env(c), true))
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, a.adminURL(""))
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, a.adminURL(""))
	}
	if err := c.Request().ParseForm(); err != nil {
		return err
	}
	title := strings.TrimSpace(c.FormValue("title"))
	slug := site.Slugify(c.FormValue("slug"))
	if slug == "" {
		slug = site.Slugify(title)
	}
	if slug == "" {
		return c.Redirect(http.StatusSeeOther, a.adminURL("Slug is required. Add a title or slug."))
	}
	date := strings.TrimSpace(c.FormValue("date"))
	if date == "" {
		date = a.now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.Redirect(http.StatusSeeOther, a.adminURL("Invalid date format. Use YYYY-MM-DD."))
	}
	if err := a.Store.SavePost(site.Post{
		Slug:      slug,
		Title:     title,
		Date:      date,
		Tags:      FilterEmpty(strings.Split(c.FormValue("tags"), ",")),
		Summary:   strings.TrimSpace(c.FormValue("summary")),
		Content:   c.FormValue("content"),
		Published: c.FormValue("published") != "",
	}); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Log.Info("post saved", zap.String("slug", slug))
	return c.Redirect(http.StatusSeeOther, a.adminURL("saved"))
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, a.adminURL(""))
	}
	slug := c.Param("slug")
	if err := a.Store.DeletePost(slug); err != nil {
		return err
	}
	a.Cache.Invalidate()
	a.Log.Info("post deleted", zap.String("slug", slug))
	return c.Redirect(http.StatusSeeOther, a.adminURL("deleted"))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts()
	if err != nil {
		return err
	}
	return Render(c, views.AdminDashboard(a.env(c), posts, msg))
}
