package errorsignal

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/emersonmde/errorsignal/site"
)

const testMetadataYAML = `
site:
  siteMetadata:
    title: Error Signal
    description: Notes on systems.
    siteUrl: https://errorsignal.dev
    social:
      twitter: memerson
    author:
      name: Matthew Emerson
      summary: Writes about Go and Rust.
`

var fixedNow = time.Date(2031, time.March, 4, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, mod func(*Config)) *App {
	t.Helper()
	dir := t.TempDir()
	metaPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(metaPath, []byte(testMetadataYAML), 0o644))

	cfg := Config{
		MetadataPath:  metaPath,
		DatabasePath:  filepath.Join(dir, "data", "blog.db"),
		ContentDir:    filepath.Join(dir, "content"),
		StaticDir:     filepath.Join(dir, "public"),
		AvatarPath:    filepath.Join(dir, "missing.jpg"),
		AdminPassword: "hunter2",
		SessionSecret: "0123456789abcdef0123456789abcdef",
	}
	if mod != nil {
		mod(&cfg)
	}
	a := New(cfg, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, a.Open())
	t.Cleanup(func() { a.Close() })
	return a
}

func servingApp(t *testing.T, mod func(*Config)) *App {
	t.Helper()
	a := newTestApp(t, mod)
	require.NoError(t, a.Routes())
	return a
}

// client carries cookies between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, h: h, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	return doc
}

func TestOpenRequiresMetadata(t *testing.T) {
	dir := t.TempDir()
	a := New(Config{MetadataPath: filepath.Join(dir, "nope.yaml"), DatabasePath: filepath.Join(dir, "db")})
	require.Error(t, a.Open())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("other: 1\n"), 0o644))
	a = New(Config{MetadataPath: filepath.Join(dir, "empty.yaml"), DatabasePath: filepath.Join(dir, "db")})
	err := a.Open()
	require.ErrorIs(t, err, site.ErrNoMetadata)
}

func TestRoutesRequireSecrets(t *testing.T) {
	a := newTestApp(t, func(c *Config) { c.AdminPassword = "" })
	require.Error(t, a.Routes())
}

func TestHomePageIsRootVariant(t *testing.T) {
	a := servingApp(t, nil)
	require.NoError(t, a.Store.SavePost(testPost("hello", "2024-01-01", "go")))

	rec := newClient(t, a.Echo).get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://plausible.io")

	doc := parseHTML(t, rec)
	require.Equal(t, "All posts | Error Signal", doc.Find("head title").Text())
	require.Equal(t, "Error Signal", doc.Find("h1.main-heading a").Text())
	require.Equal(t, 0, doc.Find("a.header-link-home").Length())
	require.Equal(t, "Writes about Go and Rust.", doc.Find("p.bio-tagline").Text())
	require.Contains(t, doc.Find("footer.layout-footer").Text(), "© 2031, Matthew Emerson. All rights reserved")
	require.Equal(t, "/blog/hello/", doc.Find("article.post-list-item h2 a").AttrOr("href", ""))
	require.Equal(t, "/static/avatar.svg", doc.Find("img.bio-avatar").AttrOr("src", ""))
}

func TestHomeTagFilter(t *testing.T) {
	a := servingApp(t, nil)
	require.NoError(t, a.Store.SavePost(testPost("go-post", "2024-01-01", "go")))
	require.NoError(t, a.Store.SavePost(testPost("rust-post", "2024-01-02", "rust")))

	doc := parseHTML(t, newClient(t, a.Echo).get("/?tag=rust"))
	items := doc.Find("article.post-list-item")
	require.Equal(t, 1, items.Length())
	require.Equal(t, "Title rust-post", items.Find("h2 span").Text())
}

func TestPostPageIsNonRootVariant(t *testing.T) {
	a := servingApp(t, nil)
	post := testPost("hello", "2024-01-01", "go")
	post.Content = "## Section\n\nBody text.\n\n<script>alert(1)</script>\n"
	require.NoError(t, a.Store.SavePost(post))
	require.NoError(t, a.Store.SavePost(testPost("older", "2023-01-01", "go")))

	rec := newClient(t, a.Echo).get("/blog/hello/")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parseHTML(t, rec)

	require.Equal(t, "Title hello | Error Signal", doc.Find("head title").Text())
	require.Equal(t, "Summary hello", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	require.Equal(t, 1, doc.Find("a.header-link-home").Length())
	require.Equal(t, 0, doc.Find("h1.main-heading").Length())
	require.Equal(t, "Section", doc.Find(`article.blog-post h2#section`).Text())
	require.Equal(t, 0, doc.Find("article.blog-post script").Length())
	require.Equal(t, "/blog/older/", doc.Find(`nav.blog-post-nav a[rel="prev"]`).AttrOr("href", ""))
	require.Equal(t, 1, doc.Find("section.related-posts li").Length())
}

func TestUnknownPostAndRouteAre404(t *testing.T) {
	a := servingApp(t, nil)
	c := newClient(t, a.Echo)

	for _, path := range []string{"/blog/missing/", "/no/such/page/"} {
		rec := c.get(path)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		doc := parseHTML(t, rec)
		require.Equal(t, "404: Not Found", doc.Find("main h1").Text(), path)
	}
}

func TestNonASCIISlugIsServed(t *testing.T) {
	a := servingApp(t, nil)
	writeMarkdown(t, filepath.Join(a.Config.ContentDir, "café"), "index.md", "---\ndate: 2024-01-01\n---\nCoffee.\n")
	_, err := a.ImportContent(a.Config.ContentDir)
	require.NoError(t, err)
	c := newClient(t, a.Echo)

	href := parseHTML(t, c.get("/")).Find("article.post-list-item h2 a").AttrOr("href", "")
	require.Equal(t, "/blog/caf%C3%A9/", href)

	rec := c.get(href)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Café", parseHTML(t, rec).Find("article.blog-post h1").Text())
}

func TestDraftIsNotPublic(t *testing.T) {
	a := servingApp(t, nil)
	draft := testPost("draft", "2024-01-01")
	draft.Published = false
	require.NoError(t, a.Store.SavePost(draft))

	require.Equal(t, http.StatusNotFound, newClient(t, a.Echo).get("/blog/draft/").Code)
}

func TestTrailingSlashAndBlogRedirects(t *testing.T) {
	a := servingApp(t, nil)
	c := newClient(t, a.Echo)

	rec := c.get("/using-typescript")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/using-typescript/", rec.Header().Get("Location"))

	rec = c.get("/blog")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestTypeScriptPage(t *testing.T) {
	a := servingApp(t, nil)
	rec := newClient(t, a.Echo).get("/using-typescript/")
	require.Equal(t, http.StatusOK, rec.Code)
	text := parseHTML(t, rec).Find("main").Text()
	require.Contains(t, text, `"/using-typescript/"`)
	require.Contains(t, text, "March 04, 2031")
}

func TestFeedsAreWellFormed(t *testing.T) {
	a := servingApp(t, nil)
	require.NoError(t, a.Store.SavePost(testPost("a", "2024-01-01", "go")))
	require.NoError(t, a.Store.SavePost(testPost("b", "2024-02-01")))
	c := newClient(t, a.Echo)

	rec := c.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	var feed rssXML
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &feed))
	require.Equal(t, "Error Signal", feed.Channel.Title)
	require.Len(t, feed.Channel.Items, 2)
	require.Equal(t, "https://errorsignal.dev/blog/b/", feed.Channel.Items[0].Link)
	require.Equal(t, []string{"go"}, feed.Channel.Items[1].Categories)

	rec = c.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	var sm sitemapURLSet
	require.NoError(t, xml.Unmarshal(rec.Body.Bytes(), &sm))
	require.Len(t, sm.URLs, 4)
	require.Equal(t, "https://errorsignal.dev/", sm.URLs[0].Loc)

	rec = c.get("/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Sitemap: https://errorsignal.dev/sitemap.xml")
	require.Contains(t, rec.Body.String(), "Disallow: /admin/")
}

func TestStaticAssets(t *testing.T) {
	a := servingApp(t, nil)
	c := newClient(t, a.Echo)

	rec := c.get("/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), ".global-wrapper")

	rec = c.get("/favicon.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<svg")

	require.Equal(t, http.StatusNotFound, c.get("/static/avatar-70.jpg").Code, "no avatar configured")
}

func TestAvatarServedWhenConfigured(t *testing.T) {
	src := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(src, testPNG(t, 300, 200), 0o644))

	a := servingApp(t, func(c *Config) { c.AvatarPath = src })
	c := newClient(t, a.Echo)

	doc := parseHTML(t, c.get("/"))
	img := doc.Find("img.bio-avatar")
	require.Equal(t, "/static/avatar-70.jpg", img.AttrOr("src", ""))
	require.Equal(t, "/static/avatar-140.jpg 2x", img.AttrOr("srcset", ""))

	rec := c.get("/static/avatar-140.jpg")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	requireJPEGSize(t, rec.Body.Bytes(), 140)
}

func TestPathPrefix(t *testing.T) {
	a := servingApp(t, func(c *Config) { c.PathPrefix = "site/" })
	require.NoError(t, a.Store.SavePost(testPost("hello", "2024-01-01")))
	c := newClient(t, a.Echo)

	doc := parseHTML(t, c.get("/site/"))
	require.Equal(t, "/site/", doc.Find("h1.main-heading a").AttrOr("href", ""))
	require.Equal(t, "/site/blog/hello/", doc.Find("article.post-list-item h2 a").AttrOr("href", ""))
	require.Equal(t, "/site/static/style.css", doc.Find(`link[rel="stylesheet"]`).AttrOr("href", ""))

	doc = parseHTML(t, c.get("/site/blog/hello/"))
	require.Equal(t, "/site/", doc.Find("a.header-link-home").AttrOr("href", ""))

	require.Equal(t, http.StatusNotFound, c.get("/").Code)
}

func TestAdminFlow(t *testing.T) {
	a := servingApp(t, nil)
	c := newClient(t, a.Echo)

	rec := c.get("/admin/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	token := parseHTML(t, rec).Find(`input[name="_csrf"]`).AttrOr("value", "")
	require.NotEmpty(t, token)

	rec = c.post("/admin/login/", url.Values{"password": {"hunter2"}})
	require.Equal(t, http.StatusForbidden, rec.Code, "missing CSRF token")

	rec = c.post("/admin/login/", url.Values{"password": {"wrong"}, "_csrf": {token}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Invalid password")

	rec = c.post("/admin/login/", url.Values{"password": {"hunter2"}, "_csrf": {token}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, c.cookies, sessionName)

	rec = c.post("/admin/save/", url.Values{
		"_csrf":     {token},
		"title":     {"From The Editor"},
		"date":      {"2024-05-01"},
		"tags":      {"Go, , Web"},
		"summary":   {"Written in the browser."},
		"content":   {"Hello **editor**."},
		"published": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/?msg=saved", rec.Header().Get("Location"))

	rec = c.get("/blog/from-the-editor/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "<strong>editor</strong>")

	got, err := a.Store.GetPost("from-the-editor")
	require.NoError(t, err)
	require.Equal(t, []string{"go", "web"}, got.Tags)

	rec = c.post("/admin/save/", url.Values{"_csrf": {token}, "title": {"Bad"}, "date": {"May 1st"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "Invalid+date")

	rec = c.get("/admin/post/from-the-editor/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "From The Editor", parseHTML(t, rec).Find(`input[name="title"]`).AttrOr("value", ""))

	rec = c.post("/admin/delete/from-the-editor/", url.Values{"_csrf": {token}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, http.StatusNotFound, c.get("/blog/from-the-editor/").Code)

	rec = c.post("/admin/logout/", url.Values{"_csrf": {token}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	rec = c.get("/admin/")
	require.Equal(t, 1, parseHTML(t, rec).Find(`input[name="password"]`).Length())
}

func TestAdminRequiresSession(t *testing.T) {
	a := servingApp(t, nil)
	c := newClient(t, a.Echo)
	token := parseHTML(t, c.get("/admin/")).Find(`input[name="_csrf"]`).AttrOr("value", "")

	rec := c.post("/admin/save/", url.Values{"_csrf": {token}, "title": {"Sneaky"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/", rec.Header().Get("Location"))
	_, err := a.Store.GetPostAny("sneaky")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdminLoginRateLimited(t *testing.T) {
	a := servingApp(t, nil)
	c := newClient(t, a.Echo)
	token := parseHTML(t, c.get("/admin/")).Find(`input[name="_csrf"]`).AttrOr("value", "")

	for i := 0; i < 5; i++ {
		rec := c.post("/admin/login/", url.Values{"password": {"wrong"}, "_csrf": {token}})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := c.post("/admin/login/", url.Values{"password": {"hunter2"}, "_csrf": {token}})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func writeMarkdown(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestImportContent(t *testing.T) {
	a := newTestApp(t, nil)
	writeMarkdown(t, a.Config.ContentDir, "first.md", "---\ntitle: First\ndate: 2024-01-01\ntags: [go]\n---\nHello.\n")
	writeMarkdown(t, filepath.Join(a.Config.ContentDir, "second"), "index.md", "---\ndate: 2024-02-01\ndraft: true\n---\nDraft.\n")

	n, err := a.ImportContent(a.Config.ContentDir)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	posts, err := a.Cache.ListPosts("")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "first", posts[0].Slug)

	draft, err := a.Store.GetPostAny("second")
	require.NoError(t, err)
	require.Equal(t, "Second", draft.Title)
	require.False(t, draft.Published)
}

func TestImportContentDropsRemovedFiles(t *testing.T) {
	a := newTestApp(t, nil)
	dir := a.Config.ContentDir
	writeMarkdown(t, filepath.Join(dir, "old-name"), "index.md", "---\ndate: 2024-01-01\n---\nBody.\n")
	require.NoError(t, a.Store.SavePost(testPost("from-editor", "2024-03-01")))

	_, err := a.ImportContent(dir)
	require.NoError(t, err)
	require.NoError(t, os.Rename(filepath.Join(dir, "old-name"), filepath.Join(dir, "new-name")))
	_, err = a.ImportContent(dir)
	require.NoError(t, err)

	posts, err := a.Cache.ListPosts("")
	require.NoError(t, err)
	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	require.Equal(t, []string{"from-editor", "new-name"}, slugs)

	out := t.TempDir()
	require.NoError(t, a.Export(context.Background(), out))
	_, err = os.Stat(filepath.Join(out, "blog", "old-name", "index.html"))
	require.ErrorIs(t, err, os.ErrNotExist)
	feed, err := os.ReadFile(filepath.Join(out, "feed.xml"))
	require.NoError(t, err)
	require.NotContains(t, string(feed), "old-name")
}

func TestExport(t *testing.T) {
	a := newTestApp(t, func(c *Config) { c.AdminPassword = "" })
	require.NoError(t, a.Store.SavePost(testPost("hello", "2024-01-01")))
	require.NoError(t, os.MkdirAll(a.Config.StaticDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(a.Config.StaticDir, "cv.pdf"), []byte("%PDF"), 0o644))

	out := t.TempDir()
	require.NoError(t, a.Export(context.Background(), out))

	for _, rel := range []string{
		"index.html",
		"blog/hello/index.html",
		"using-typescript/index.html",
		"404.html",
		"feed.xml",
		"sitemap.xml",
		"robots.txt",
		"favicon.svg",
		"static/style.css",
		"static/livereload.js",
		"public/cv.pdf",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
	}

	raw, err := os.ReadFile(filepath.Join(out, "blog", "hello", "index.html"))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("a.header-link-home").Length())
	require.Equal(t, 0, doc.Find(`input[name="_csrf"]`).Length())

	raw, err = os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	doc, err = goquery.NewDocumentFromReader(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("h1.main-heading").Length())
	require.Equal(t, 0, doc.Find(`script[src$="livereload.js"]`).Length())
}

func TestDevModeLiveReload(t *testing.T) {
	a := servingApp(t, func(c *Config) { c.Dev = true })
	writeMarkdown(t, a.Config.ContentDir, "post.md", "---\ntitle: Live\ndate: 2024-01-01\n---\nBody.\n")

	srv := httptest.NewServer(a.Echo)
	defer srv.Close()

	page := newClient(t, a.Echo).get("/")
	require.Equal(t, "/__livereload", parseHTML(t, page).Find(`script[src="/static/livereload.js"]`).AttrOr("data-path", ""))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/__livereload", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return a.hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, a.reloadContent(context.Background()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"reload"}`, string(msg))

	_, err = a.Cache.GetPost("post")
	require.NoError(t, err)
}
