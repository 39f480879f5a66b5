package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/unfurl/cmd/watch/protocol"
	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/LegacyCodeHQ/unfurl/internal/devlog"
	"github.com/LegacyCodeHQ/unfurl/session"
)

// viewWatcher keeps a served view current: it follows the directories
// holding the files a session depends on and re-unfurls the root after
// every relevant change. All fields are owned by the run loop; only the
// broker is shared.
type viewWatcher struct {
	root     string
	cache    fragment.Cache
	debounce time.Duration
	broker   *broker

	nextID int64
	// files holds every path whose change invalidates the view: the
	// resolved include tree plus targets that failed to resolve, so
	// creating a missing include triggers a rebuild.
	files   map[string]bool
	watched map[string]bool
}

func newViewWatcher(root string, cache fragment.Cache, debounce time.Duration, b *broker) *viewWatcher {
	return &viewWatcher{
		root:     root,
		cache:    cache,
		debounce: debounce,
		broker:   b,
		files:    make(map[string]bool),
		watched:  make(map[string]bool),
	}
}

// run watches the session's directories until the context is cancelled.
// Rebuilds happen on the loop goroutine; the debounce timer only posts
// a token.
func (vw *viewWatcher) run(ctx context.Context, s *session.Session) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	vw.sync(watcher, s)

	rebuilds := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !vw.isRelevantChange(event) {
				continue
			}
			devlog.Debug("file event", map[string]any{"op": event.Op.String(), "path": event.Name})

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(vw.debounce, func() {
				select {
				case rebuilds <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watcher error: %v\n", err)

		case <-rebuilds:
			vw.rebuild(ctx, watcher)
		}
	}
}

// rebuild re-unfurls the root and publishes the new view. A root that
// became unreadable keeps the last published view; the next event will
// try again.
func (vw *viewWatcher) rebuild(ctx context.Context, watcher *fsnotify.Watcher) {
	s, err := session.New(ctx, vw.root, session.WithCache(vw.cache))
	if err != nil {
		fmt.Fprintf(os.Stderr, "rebuild error: %v\n", err)
		return
	}
	vw.publish(s)
	vw.sync(watcher, s)
}

// publish encodes the session as the next snapshot and hands it to the
// broker.
func (vw *viewWatcher) publish(s *session.Session) {
	vw.nextID++
	snapshot := protocol.SnapshotFrom(s, vw.nextID, time.Now())

	payload, err := json.Marshal(snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot encode error: %v\n", err)
		return
	}
	vw.broker.publish(string(payload))
	devlog.Debug("published view", map[string]any{"id": vw.nextID, "lines": len(snapshot.Lines)})
}

// sync points the fsnotify watcher at the directory of every file the
// session depends on, and drops directories no longer referenced.
func (vw *viewWatcher) sync(watcher *fsnotify.Watcher, s *session.Session) {
	files := make(map[string]bool)
	for _, path := range s.Files() {
		files[path] = true
	}
	for _, d := range s.Diagnostics {
		files[d.Path] = true
	}
	vw.files = files

	desired := make(map[string]bool, len(files))
	for path := range files {
		desired[filepath.Dir(path)] = true
	}

	for dir := range desired {
		if vw.watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			fmt.Fprintf(os.Stderr, "failed to watch %s: %v\n", dir, err)
			continue
		}
		vw.watched[dir] = true
	}
	for dir := range vw.watched {
		if desired[dir] {
			continue
		}
		_ = watcher.Remove(dir)
		delete(vw.watched, dir)
	}
}

// isRelevantChange filters directory noise down to the files the view
// actually depends on. Chmod-only events never change content.
func (vw *viewWatcher) isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return vw.files[event.Name]
}
