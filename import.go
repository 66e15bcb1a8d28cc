package errorsignal

import (
	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal/content"
)

// ImportContent upserts every markdown post under dir and invalidates the
// cache. Posts created in the admin editor are left alone.
func (a *App) ImportContent(dir string) (int, error) {
	posts, err := content.LoadDir(dir)
	if err != nil {
		return 0, err
	}
	if err := a.Store.SavePosts(posts); err != nil {
		return 0, err
	}
	a.Cache.Invalidate()
	a.Log.Info("content imported", zap.String("dir", dir), zap.Int("posts", len(posts)))
	return len(posts), nil
}
