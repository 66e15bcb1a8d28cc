package errorsignal

import (
	"context"

	"go.uber.org/zap"

	"github.com/emersonmde/errorsignal/watch"
)

// newContentWatcher re-imports the content dir after each burst of changes
// and tells open pages to reload.
func (a *App) newContentWatcher() *watch.Watcher {
	return watch.New(a.Config.ContentDir, a.reloadContent, watch.WithLogger(a.Log.Named("watch")))
}

func (a *App) reloadContent(context.Context) error {
	if _, err := a.ImportContent(a.Config.ContentDir); err != nil {
		return err
	}
	if a.hub != nil {
		n := a.hub.Broadcast(watch.MessageReload)
		a.Log.Debug("live reload", zap.Int("clients", n))
	}
	return nil
}
