package errorsignal

import (
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/emersonmde/errorsignal/site"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) sitemap(posts []site.Post) ([]byte, error) {
	base := a.siteBase()
	urls := []sitemapURL{
		{Loc: site.BuildURL(base, "/")},
		{Loc: site.BuildURL(base, "using-typescript")},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     site.BuildURL(base, "blog", p.Slug),
			LastMod: p.Date,
		})
	}
	return encodeXML(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func (a *App) robots() []byte {
	return []byte(fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: %s/admin/\n\nSitemap: %s/sitemap.xml\n",
		a.Config.PathPrefix, a.siteBase()))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	body, err := a.sitemap(posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (a *App) handleRobots(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, a.robots())
}
