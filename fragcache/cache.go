package fragcache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/LegacyCodeHQ/unfurl/filestore"
	"github.com/LegacyCodeHQ/unfurl/fragment"
)

type entry struct {
	info filestore.FileInfo
	frag *fragment.Fragment
}

// Cache keeps parsed fragments across resolutions, bounded by an LRU
// policy. An entry is served only while the file's size and
// modification time still match what was observed at parse time, so a
// file edited on disk is re-read on the next resolution.
type Cache struct {
	entries *lru.Cache[string, entry]
}

// New creates a cache holding at most size fragments.
func New(size int) (*Cache, error) {
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Get(path string, info filestore.FileInfo) (*fragment.Fragment, bool) {
	cached, ok := c.entries.Get(path)
	if !ok {
		return nil, false
	}
	if cached.info.Size != info.Size || !cached.info.ModTime.Equal(info.ModTime) {
		c.entries.Remove(path)
		return nil, false
	}
	return cached.frag, true
}

func (c *Cache) Put(path string, info filestore.FileInfo, frag *fragment.Fragment) {
	c.entries.Add(path, entry{info: info, frag: frag})
}

// Len reports how many fragments are currently cached.
func (c *Cache) Len() int {
	return c.entries.Len()
}
