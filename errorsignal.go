// Package errorsignal serves and exports a personal blog. Posts live in
// SQLite, imported from markdown or written in the admin editor. Pages are
// composed from the views package and rendered either per request by Echo
// or ahead of time into a static directory.
package errorsignal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emersonmde/errorsignal/content"
	"github.com/emersonmde/errorsignal/site"
	"github.com/emersonmde/errorsignal/views"
	"github.com/emersonmde/errorsignal/watch"
)

const shutdownTimeout = 5 * time.Second

// App wires together the store, cache, renderer, handlers and middleware.
type App struct {
	Config   Config
	Echo     *echo.Echo
	Log      *zap.Logger
	Metadata site.Metadata
	Store    *Store
	Cache    *PostCache
	Renderer *content.Renderer

	avatar       *Avatar
	loginLimiter *LoginLimiter
	hub          *watch.Hub
	clock        func() time.Time
	startedAt    time.Time
	routed       bool
}

// New creates an App. Call Open before serving or exporting.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config: cfg,
		Echo:   e,
		Log:    zap.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) now() time.Time { return a.clock() }

// Open loads the site metadata, opens the store and prepares the renderer
// and avatar. Missing metadata is fatal; a missing avatar falls back to the
// placeholder image.
func (a *App) Open() error {
	meta, err := site.Load(a.Config.MetadataPath)
	if err != nil {
		return fmt.Errorf("errorsignal: load metadata: %w", err)
	}
	a.Metadata = meta

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return err
	}
	a.Store = store
	a.Cache = NewPostCache(store, a.Config.PostCacheTTL)
	a.Renderer = content.NewRenderer()

	if avatar, err := LoadAvatar(a.Config.AvatarPath); err == nil {
		a.avatar = avatar
	} else {
		a.Log.Warn("avatar unavailable, using placeholder", zap.String("path", a.Config.AvatarPath), zap.Error(err))
	}

	a.startedAt = a.now()
	return nil
}

// Routes validates server settings and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Routes() error {
	if a.routed {
		return nil
	}
	if err := a.Config.validateServe(); err != nil {
		return err
	}
	if a.Store == nil {
		return errors.New("errorsignal: Routes called before Open")
	}
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	if a.Config.Dev {
		a.hub = watch.NewHub(a.Log.Named("livereload"))
	}
	a.setupMiddleware()
	a.setupRoutes()
	a.routed = true
	return nil
}

func (a *App) setupRoutes() {
	g := a.Echo.Group(a.Config.PathPrefix)

	g.GET("/static/avatar-70.jpg", a.handleAvatar(false))
	g.GET("/static/avatar-140.jpg", a.handleAvatar(true))
	g.StaticFS("/static", staticFS())
	g.FileFS("/favicon.svg", "icon.svg", staticFS())
	g.Static("/public", a.Config.StaticDir)

	g.GET("/robots.txt", a.handleRobots)
	g.GET("/sitemap.xml", a.handleSitemap)
	g.GET("/feed.xml", a.handleFeed)

	g.GET("/", a.handleHome)
	g.GET("/blog", a.handleBlogRedirect)
	g.GET("/blog/:slug/", a.handlePost)
	g.GET("/using-typescript/", a.handleTypeScript)

	g.GET("/admin/", a.handleAdmin)
	g.POST("/admin/login/", a.handleAdminLogin)
	g.POST("/admin/logout/", a.handleAdminLogout)
	g.GET("/admin/post/:slug/", a.handleAdminPost)
	g.POST("/admin/save/", a.handleAdminSave)
	g.POST("/admin/delete/:slug/", a.handleAdminDelete)

	if a.hub != nil {
		g.GET(views.LiveReloadSocketPath, echo.WrapHandler(a.hub))
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully. In dev
// mode it also watches the content directory, re-importing and reloading
// open pages on every change.
func (a *App) Start(ctx context.Context) error {
	if err := a.Routes(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("listening", zap.String("addr", a.Config.Addr), zap.String("prefix", a.Config.PathPrefix))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("errorsignal: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		if a.hub != nil {
			a.hub.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.Echo.Shutdown(shutdownCtx)
	})
	if a.Config.Dev {
		if _, err := os.Stat(a.Config.ContentDir); err == nil {
			w := a.newContentWatcher()
			g.Go(func() error { return w.Run(ctx) })
		} else {
			a.Log.Warn("content dir missing, not watching", zap.String("dir", a.Config.ContentDir))
		}
	}
	return g.Wait()
}

// Close releases the store and stops background work.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.hub != nil {
		a.hub.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// baseEnv is the render environment shared by served and exported pages.
func (a *App) baseEnv() views.Env {
	env := views.Env{
		Metadata:        a.Metadata,
		PathPrefix:      a.Config.PathPrefix,
		Owner:           a.Config.Owner,
		AnalyticsDomain: a.Config.AnalyticsDomain,
		BuildTime:       a.startedAt,
		Clock:           a.clock,
	}
	if a.avatar != nil {
		env.AvatarURL = env.URL(avatarPath1x)
		env.AvatarURL2x = env.URL(avatarPath2x)
	}
	return env
}

// env is baseEnv plus the per-request CSRF token and dev live reload.
func (a *App) env(c echo.Context) views.Env {
	env := a.baseEnv()
	env.LiveReload = a.hub != nil
	env.CSRFToken = CSRFToken(c)
	return env
}
