package errorsignal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emersonmde/errorsignal/views"
)

// Export renders every public page, feed and asset into dir so the site can
// be hosted without the server. Existing files are overwritten; nothing is
// deleted.
func (a *App) Export(ctx context.Context, dir string) error {
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}
	env := a.baseEnv()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	page := func(rel, path string, build func() (templ.Component, error)) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cmp, err := build()
			if err != nil {
				return fmt.Errorf("errorsignal: export %s: %w", path, err)
			}
			return renderFile(ctx, filepath.Join(dir, rel), cmp)
		})
	}

	page("index.html", "/", func() (templ.Component, error) {
		return a.homeView(env, a.page("/"), "")
	})
	for _, p := range posts {
		slug := p.Slug
		path := "/blog/" + slug + "/"
		page(filepath.Join("blog", slug, "index.html"), path, func() (templ.Component, error) {
			return a.postView(env, a.page(path), slug)
		})
	}
	page(filepath.Join("using-typescript", "index.html"), "/using-typescript/", func() (templ.Component, error) {
		return views.TypeScriptPage(env, a.page("/using-typescript/")), nil
	})
	page("404.html", "/404.html", func() (templ.Component, error) {
		return views.NotFoundPage(env, a.page("/404.html")), nil
	})

	g.Go(func() error {
		body, err := a.feed(posts)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dir, "feed.xml"), body)
	})
	g.Go(func() error {
		body, err := a.sitemap(posts)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dir, "sitemap.xml"), body)
	})
	g.Go(func() error {
		return writeFile(filepath.Join(dir, "robots.txt"), a.robots())
	})
	g.Go(func() error {
		if err := copyTree(filepath.Join(dir, "static"), staticFS()); err != nil {
			return err
		}
		icon, err := fs.ReadFile(staticFS(), "icon.svg")
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dir, "favicon.svg"), icon)
	})
	if a.avatar != nil {
		g.Go(func() error {
			if err := writeFile(filepath.Join(dir, filepath.FromSlash(avatarPath1x)), a.avatar.Small); err != nil {
				return err
			}
			return writeFile(filepath.Join(dir, filepath.FromSlash(avatarPath2x)), a.avatar.Large)
		})
	}
	g.Go(func() error {
		_, err := os.Stat(a.Config.StaticDir)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		return copyTree(filepath.Join(dir, "public"), os.DirFS(a.Config.StaticDir))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.Log.Info("site exported", zap.String("dir", dir), zap.Int("posts", len(posts)))
	return nil
}

// copyTree writes every regular file in fsys under dst.
func copyTree(dst string, fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(dst, filepath.FromSlash(path)), data)
	})
}
