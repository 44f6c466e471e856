package atm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mcncl/jsonlite/internal/errors"
)

const (
	defaultRetryInterval = time.Second
	maxReloadRetries     = 2
)

// Watch reloads the store whenever the data file changes on disk, calling
// onReload with the new account count after each successful reload. A reload
// that fails is retried a few times, since another process may still be
// writing the file; until one succeeds the previous accounts are kept.
// Watch blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, onReload func(accounts int)) error {
	return s.watch(ctx, defaultRetryInterval, onReload)
}

func (s *Store) watch(ctx context.Context, retryInterval time.Duration, onReload func(int)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewStoreError("failed to create file watcher", err)
	}
	defer func() { _ = watcher.Close() }()

	// Save replaces the file by rename, so the directory is watched rather
	// than the file itself.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return errors.NewStoreError(fmt.Sprintf("failed to watch '%s'", dir), err)
	}
	name := filepath.Clean(s.path)
	s.logger.Info("watching data file", "path", s.path)

	r := newReloader(s, onReload)
	retryCh := make(chan struct{}, 1)
	scheduleRetry := func() {
		time.AfterFunc(retryInterval, func() {
			// Never more than one pending retry signal
			select {
			case retryCh <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			s.logger.Debug("file watcher event", "op", ev.Op.String())
			drain(watcher.Events)
			if r.fileChanged() && r.reload(false) {
				scheduleRetry()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("file watcher error", "error", err)

		case <-retryCh:
			if r.needRetry && r.reload(true) {
				scheduleRetry()
			}
		}
	}
}

// reloader tracks the state of reloads between file events and retries
type reloader struct {
	s         *Store
	onReload  func(int)
	lastInfo  os.FileInfo
	retries   int
	needRetry bool
}

func newReloader(s *Store, onReload func(int)) *reloader {
	info, _ := os.Stat(s.path)
	return &reloader{s: s, onReload: onReload, lastInfo: info}
}

// fileChanged reports whether the file differs from the last one seen. A
// change resets the retry budget.
func (r *reloader) fileChanged() bool {
	info, err := os.Stat(r.s.path)
	if err != nil {
		return true
	}
	if r.lastInfo != nil && info.Size() == r.lastInfo.Size() && info.ModTime().Equal(r.lastInfo.ModTime()) {
		r.s.logger.Debug("data file has not changed")
		return false
	}
	r.lastInfo = info
	r.retries = 0
	return true
}

// reload loads the file and reports whether another attempt should be
// scheduled. A retry passes force to skip the change check.
func (r *reloader) reload(force bool) bool {
	if force {
		if info, err := os.Stat(r.s.path); err == nil {
			r.lastInfo = info
		}
	}

	if err := r.s.Load(); err != nil {
		if r.retries < maxReloadRetries {
			r.retries++
			r.needRetry = true
			r.s.logger.Warn("reload failed, will retry", "error", err, "attempt", r.retries)
			return true
		}
		r.needRetry = false
		r.s.logger.Error("reload failed, giving up until the file changes again", "error", err)
		return false
	}

	r.retries = 0
	r.needRetry = false
	n := r.s.Len()
	r.s.logger.Info("data file reloaded", "path", r.s.path, "accounts", n)
	if r.onReload != nil {
		r.onReload(n)
	}
	return false
}

// drain discards events that piled up behind the one being handled
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}
