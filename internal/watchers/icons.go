package watchers

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hoppxi/nightsvg/internal/logx"
	"github.com/hoppxi/nightsvg/internal/recolor"
	"github.com/spf13/afero"
)

const batchDelay = 80 * time.Millisecond

// IconWatcher keeps the night directory in sync with the source directory.
type IconWatcher struct {
	fs  afero.Fs
	cfg func() recolor.Config
	obs recolor.Observer

	ready     chan struct{}
	readyOnce sync.Once

	mu       sync.Mutex
	src      string
	pending  map[string]struct{}
	timer    *time.Timer
	stopped  bool
	inflight sync.WaitGroup
}

// NewIconWatcher builds a watcher. cfg is called again on every flush so a
// reloaded config file takes effect without a restart.
func NewIconWatcher(fs afero.Fs, cfg func() recolor.Config, obs recolor.Observer) *IconWatcher {
	return &IconWatcher{
		fs:      fs,
		cfg:     cfg,
		obs:     obs,
		ready:   make(chan struct{}),
		pending: map[string]struct{}{},
	}
}

// Ready is closed once the initial batch is done and the directory is watched.
func (w *IconWatcher) Ready() <-chan struct{} {
	return w.ready
}

// Run converts everything once, then reconverts icons as they are created or
// written until ctx is done.
func (w *IconWatcher) Run(ctx context.Context) error {
	log := logx.L()
	c := w.cfg().WithDefaults()

	rr, err := recolor.Run(ctx, w.fs, c, w.obs)
	if err != nil {
		if !c.KeepGoing || rr.Summary.Total == 0 {
			return err
		}
		log.Warn("initial batch had failures", "failed", rr.Summary.Failed, "err", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(c.Src); err != nil {
		return &recolor.PathError{Op: "watch", Path: c.Src, Err: err}
	}
	w.mu.Lock()
	w.src = c.Src
	w.mu.Unlock()
	log.Info("watching for icon changes", "src", c.Src, "dst", c.Dst)
	w.readyOnce.Do(func() { close(w.ready) })

	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if !isIcon(name) {
				continue
			}
			log.Debug("icon changed", "name", name, "op", event.Op.String())
			w.schedule(name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher error", "err", err)
		}
	}
}

func isIcon(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ok, _ := filepath.Match(recolor.Pattern, name)
	return ok
}

func (w *IconWatcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}

	w.pending[name] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(batchDelay, w.flush)
	} else {
		w.timer.Reset(batchDelay)
	}
}

// stop cancels a pending flush and waits for a running one, so no write
// lands in the destination after Run has returned.
func (w *IconWatcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.inflight.Wait()
}

// flush runs with no lock held while converting.
func (w *IconWatcher) flush() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.inflight.Add(1)
	defer w.inflight.Done()
	names := make([]string, 0, len(w.pending))
	for n := range w.pending {
		names = append(names, n)
	}
	w.pending = map[string]struct{}{}
	w.timer = nil
	src := w.src
	w.mu.Unlock()

	sort.Strings(names)
	// the watched directory wins over a reloaded src
	c := w.cfg()
	c.Src = src
	c = c.WithDefaults()
	opts := c.Options()

	for i, name := range names {
		res, err := recolor.Convert(w.fs, c.Src, c.Dst, name, opts, false)
		if err != nil {
			logx.L().Error("reconvert failed", "name", name, "err", err)
		}
		if w.obs != nil {
			w.obs.OnFileDone(i+1, len(names), res)
		}
	}
}
