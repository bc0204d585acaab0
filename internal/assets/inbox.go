package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/uvstudio/internal/logger"
)

// ImageExtensions are the file suffixes the inbox reports.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff"}

// settleTime is how long a file must stay quiet before it is reported, so a
// copy in progress is not read half-written.
const settleTime = 150 * time.Millisecond

// Inbox watches a directory and reports image files dropped into it. Paths
// are delivered on a channel so the frame loop can drain them on its own
// thread.
type Inbox struct {
	watcher *fsnotify.Watcher
	paths   chan string
	done    chan struct{}
	log     *zap.Logger
}

// WatchInbox starts watching dir. The watcher stops when ctx is cancelled or
// Close is called.
func WatchInbox(ctx context.Context, dir string) (*Inbox, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("inbox watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("inbox %s: %w", dir, err)
	}

	in := &Inbox{
		watcher: w,
		paths:   make(chan string, 16),
		done:    make(chan struct{}),
		log:     logger.Named("inbox").With(zap.String("dir", dir)),
	}
	go in.run(ctx)
	in.log.Info("watching artwork inbox")
	return in, nil
}

// Paths returns the channel of new image files. It closes when the inbox
// stops.
func (in *Inbox) Paths() <-chan string { return in.paths }

// Close stops the watcher and waits for the delivery goroutine to exit.
func (in *Inbox) Close() error {
	err := in.watcher.Close()
	<-in.done
	return err
}

func (in *Inbox) run(ctx context.Context) {
	defer close(in.done)
	defer close(in.paths)

	pending := make(map[string]time.Time)
	tick := time.NewTicker(settleTime / 2)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			in.watcher.Close()
			return
		case ev, ok := <-in.watcher.Events:
			if !ok {
				return
			}
			if (ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write)) && IsImagePath(ev.Name) {
				pending[ev.Name] = time.Now()
			}
		case now := <-tick.C:
			for p, last := range pending {
				if now.Sub(last) < settleTime {
					continue
				}
				delete(pending, p)
				select {
				case in.paths <- p:
				default:
					in.log.Warn("inbox full, dropping", zap.String("path", p))
				}
			}
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			in.log.Warn("inbox watcher error", zap.Error(err))
		}
	}
}

// IsImagePath reports whether name has a supported image extension.
func IsImagePath(name string) bool {
	return slices.Contains(ImageExtensions, strings.ToLower(filepath.Ext(name)))
}
