package watch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/unfurl/cmd/watch/protocol"
	"github.com/LegacyCodeHQ/unfurl/fragcache"
	"github.com/LegacyCodeHQ/unfurl/session"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func receiveSnapshot(t *testing.T, ch chan string) protocol.ViewSnapshot {
	t.Helper()
	select {
	case payload := <-ch:
		var snapshot protocol.ViewSnapshot
		require.NoError(t, json.Unmarshal([]byte(payload), &snapshot))
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return protocol.ViewSnapshot{}
	}
}

func TestViewWatcher_Publish_SendsSnapshots(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	writeFile(t, mainPath, "int a;\n#include \"util.c\"\n")
	writeFile(t, filepath.Join(dir, "util.c"), "int u;\n")

	s, err := session.New(context.Background(), mainPath)
	require.NoError(t, err)

	b := newBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	vw := newViewWatcher(s.Root, nil, time.Millisecond, b)
	vw.publish(s)

	snapshot := receiveSnapshot(t, ch)
	assert.Equal(t, int64(1), snapshot.ID)
	assert.Equal(t, s.Root, snapshot.Root)
	require.Len(t, snapshot.Lines, 4)
	assert.Equal(t, "int a;", snapshot.Lines[0].Text)

	vw.publish(s)
	assert.Equal(t, int64(2), receiveSnapshot(t, ch).ID)
}

func TestViewWatcher_Rebuild_PublishesFreshView(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	writeFile(t, mainPath, "int a;\n")

	s, err := session.New(context.Background(), mainPath)
	require.NoError(t, err)

	cache, err := fragcache.New(8)
	require.NoError(t, err)

	b := newBroker()
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	vw := newViewWatcher(s.Root, cache, time.Millisecond, b)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	writeFile(t, mainPath, "int changed;\n")
	vw.rebuild(context.Background(), watcher)

	snapshot := receiveSnapshot(t, ch)
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, "int changed;", snapshot.Lines[0].Text)
}

func TestViewWatcher_Sync_TracksSessionDirectories(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	utilPath := filepath.Join(dir, "lib", "util.c")
	writeFile(t, mainPath, "#include \"lib/util.c\"\n")
	writeFile(t, utilPath, "int u;\n")

	s, err := session.New(context.Background(), mainPath)
	require.NoError(t, err)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	vw := newViewWatcher(s.Root, nil, time.Millisecond, newBroker())
	vw.sync(watcher, s)

	assert.True(t, vw.watched[filepath.Dir(s.Root)])
	assert.True(t, vw.watched[filepath.Dir(utilPath)])
	assert.True(t, vw.files[utilPath])

	// Dropping the include drops its directory from the watch list.
	writeFile(t, mainPath, "int a;\n")
	s2, err := session.New(context.Background(), mainPath)
	require.NoError(t, err)
	vw.sync(watcher, s2)

	assert.True(t, vw.watched[filepath.Dir(s.Root)])
	assert.False(t, vw.watched[filepath.Dir(utilPath)])
	assert.False(t, vw.files[utilPath])
}

func TestViewWatcher_Sync_WatchesUnresolvedTargets(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.c")
	writeFile(t, mainPath, "#include \"lib/missing.h\"\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0o755))

	s, err := session.New(context.Background(), mainPath)
	require.NoError(t, err)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	vw := newViewWatcher(s.Root, nil, time.Millisecond, newBroker())
	vw.sync(watcher, s)

	missingPath := filepath.Join(dir, "lib", "missing.h")
	assert.True(t, vw.files[missingPath])
	assert.True(t, vw.watched[filepath.Join(dir, "lib")])
}

func TestViewWatcher_IsRelevantChange(t *testing.T) {
	vw := newViewWatcher("/project/main.c", nil, time.Millisecond, newBroker())
	vw.files = map[string]bool{
		"/project/main.c":    true,
		"/project/missing.h": true,
	}

	assert.True(t, vw.isRelevantChange(fsnotify.Event{Name: "/project/main.c", Op: fsnotify.Write}))
	assert.True(t, vw.isRelevantChange(fsnotify.Event{Name: "/project/missing.h", Op: fsnotify.Create}))
	assert.False(t, vw.isRelevantChange(fsnotify.Event{Name: "/project/other.c", Op: fsnotify.Write}))
	assert.False(t, vw.isRelevantChange(fsnotify.Event{Name: "/project/main.c", Op: fsnotify.Chmod}))
}
