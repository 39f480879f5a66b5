package fragcache_test

import (
	"testing"
	"time"

	"github.com/LegacyCodeHQ/unfurl/filestore"
	"github.com/LegacyCodeHQ/unfurl/fragcache"
	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fragment.Cache = (*fragcache.Cache)(nil)

func TestCache_RoundTrip(t *testing.T) {
	cache, err := fragcache.New(8)
	require.NoError(t, err)

	info := filestore.FileInfo{Size: 7, ModTime: time.Unix(100, 0)}
	frag := fragment.Parse("/proj/a.h", []byte("int a;\n"))
	cache.Put("/proj/a.h", info, frag)

	got, ok := cache.Get("/proj/a.h", info)
	assert.True(t, ok)
	assert.Same(t, frag, got)
}

func TestCache_MissOnUnknownPath(t *testing.T) {
	cache, err := fragcache.New(8)
	require.NoError(t, err)

	_, ok := cache.Get("/proj/a.h", filestore.FileInfo{Size: 1, ModTime: time.Unix(1, 0)})
	assert.False(t, ok)
}

func TestCache_ChangedFileInvalidatesEntry(t *testing.T) {
	cache, err := fragcache.New(8)
	require.NoError(t, err)

	stale := filestore.FileInfo{Size: 7, ModTime: time.Unix(100, 0)}
	cache.Put("/proj/a.h", stale, fragment.Parse("/proj/a.h", []byte("int a;\n")))

	fresh := filestore.FileInfo{Size: 9, ModTime: time.Unix(200, 0)}
	_, ok := cache.Get("/proj/a.h", fresh)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_EvictsBeyondCapacity(t *testing.T) {
	cache, err := fragcache.New(2)
	require.NoError(t, err)

	info := filestore.FileInfo{Size: 1, ModTime: time.Unix(1, 0)}
	cache.Put("/proj/a.h", info, fragment.Parse("/proj/a.h", nil))
	cache.Put("/proj/b.h", info, fragment.Parse("/proj/b.h", nil))
	cache.Put("/proj/c.h", info, fragment.Parse("/proj/c.h", nil))

	assert.Equal(t, 2, cache.Len())
	_, ok := cache.Get("/proj/a.h", info)
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	_, err := fragcache.New(0)
	assert.Error(t, err)
}
