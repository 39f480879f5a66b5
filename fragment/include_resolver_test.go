package fragment_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/unfurl/filestore"
	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a Store and counts reads per path.
func countingStore(base filestore.Store, counts map[string]int) filestore.Store {
	reader := base.Read
	base.Read = func(filePath string) ([]byte, error) {
		counts[filePath]++
		return reader(filePath)
	}
	return base
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolve_SingleFileWithoutIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	rootPath := writeFile(t, tmpDir, "main.c", "int x;\nint y;\n")

	resolver := &fragment.Resolver{Files: filestore.OS()}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	assert.Equal(t, rootPath, result.Root)
	assert.Len(t, result.Fragments, 1)
	assert.Empty(t, result.Broken)
	assert.Empty(t, result.Diags)

	frag := result.Fragments[rootPath]
	require.NotNil(t, frag)
	require.Len(t, frag.Entries, 2)
	assert.Equal(t, "int x;", frag.Entries[0].Text)
	assert.Equal(t, "int y;", frag.Entries[1].Text)
}

func TestResolve_NestedIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	innerPath := writeFile(t, tmpDir, "inner.h", "int inner;\n")
	outerPath := writeFile(t, tmpDir, "outer.h", "#include \"inner.h\"\nint outer;\n")
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"outer.h\"\nint main;\n")

	resolver := &fragment.Resolver{Files: filestore.OS()}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	assert.Len(t, result.Fragments, 3)
	assert.Contains(t, result.Fragments, rootPath)
	assert.Contains(t, result.Fragments, outerPath)
	assert.Contains(t, result.Fragments, innerPath)
	assert.Empty(t, result.Broken)
	assert.Empty(t, result.Diags)

	outer := result.Fragments[outerPath]
	require.Len(t, outer.Entries, 2)
	assert.Equal(t, fragment.EntryInclude, outer.Entries[0].Kind)
	assert.Equal(t, innerPath, outer.Entries[0].Target)
}

func TestResolve_IncludesResolveRelativeToIncludingFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "sub"), 0755))

	sharedPath := writeFile(t, tmpDir, "shared.h", "int shared;\n")
	subPath := writeFile(t, filepath.Join(tmpDir, "sub"), "sub.h", "#include \"../shared.h\"\n")
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"sub/sub.h\"\n")

	resolver := &fragment.Resolver{Files: filestore.OS()}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	assert.Contains(t, result.Fragments, subPath)
	assert.Contains(t, result.Fragments, sharedPath)
	assert.Empty(t, result.Diags)
}

func TestResolve_MemoizesRepeatedIncludes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "b.h", "int b;\n")
	writeFile(t, tmpDir, "other.h", "#include \"b.h\"\n")
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"b.h\"\n#include \"other.h\"\n")

	counts := make(map[string]int)
	resolver := &fragment.Resolver{Files: countingStore(filestore.OS(), counts)}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	bPath := filepath.Join(tmpDir, "b.h")
	assert.Equal(t, 1, counts[bPath], "b.h should be read exactly once")
	assert.Contains(t, result.Fragments, bPath)
	assert.Empty(t, result.Broken)
	assert.Empty(t, result.Diags)
}

func TestResolve_DiamondIsNotACycle(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "shared.h", "int shared;\n")
	writeFile(t, tmpDir, "left.h", "#include \"shared.h\"\n")
	writeFile(t, tmpDir, "right.h", "#include \"shared.h\"\n")
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"left.h\"\n#include \"right.h\"\n")

	counts := make(map[string]int)
	resolver := &fragment.Resolver{Files: countingStore(filestore.OS(), counts)}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	assert.Equal(t, 1, counts[filepath.Join(tmpDir, "shared.h")])
	assert.Empty(t, result.Broken)
	assert.Empty(t, result.Diags)
	assert.Len(t, result.Fragments, 4)
}

func TestResolve_CycleBecomesBrokenEdge(t *testing.T) {
	tmpDir := t.TempDir()
	aPath := writeFile(t, tmpDir, "a.h", "int a;\n#include \"b.h\"\n")
	bPath := writeFile(t, tmpDir, "b.h", "#include \"a.h\"\nint b;\n")

	resolver := &fragment.Resolver{Files: filestore.OS()}
	result, err := resolver.Resolve(context.Background(), aPath)
	require.NoError(t, err)

	assert.Contains(t, result.Fragments, aPath)
	assert.Contains(t, result.Fragments, bPath)

	backEdge := fragment.Edge{From: bPath, Line: 1}
	assert.True(t, result.Broken[backEdge], "back edge to a.h should be broken")

	require.Len(t, result.Diags, 1)
	assert.Equal(t, fragment.DiagCycle, result.Diags[0].Kind)
	assert.Equal(t, aPath, result.Diags[0].Path)
	assert.Equal(t, backEdge, result.Diags[0].Site)
}

func TestResolve_SelfIncludeIsACycle(t *testing.T) {
	tmpDir := t.TempDir()
	aPath := writeFile(t, tmpDir, "a.h", "#include \"a.h\"\nint a;\n")

	resolver := &fragment.Resolver{Files: filestore.OS()}
	result, err := resolver.Resolve(context.Background(), aPath)
	require.NoError(t, err)

	assert.True(t, result.Broken[fragment.Edge{From: aPath, Line: 1}])
	require.Len(t, result.Diags, 1)
	assert.Equal(t, fragment.DiagCycle, result.Diags[0].Kind)
}

func TestResolve_MissingIncludeIsRecoverable(t *testing.T) {
	tmpDir := t.TempDir()
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"missing.h\"\nint x;\n")

	resolver := &fragment.Resolver{Files: filestore.OS()}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	missingPath := filepath.Join(tmpDir, "missing.h")
	assert.NotContains(t, result.Fragments, missingPath)
	assert.True(t, result.Broken[fragment.Edge{From: rootPath, Line: 1}])

	require.Len(t, result.Diags, 1)
	assert.Equal(t, fragment.DiagUnreadable, result.Diags[0].Kind)
	assert.Equal(t, missingPath, result.Diags[0].Path)
	assert.Error(t, result.Diags[0].Err)
}

func TestResolve_MissingIncludeReadOnceDiagnosedPerSite(t *testing.T) {
	tmpDir := t.TempDir()
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"missing.h\"\n#include \"missing.h\"\n")

	counts := make(map[string]int)
	resolver := &fragment.Resolver{Files: countingStore(filestore.OS(), counts)}
	result, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	missingPath := filepath.Join(tmpDir, "missing.h")
	assert.Equal(t, 1, counts[missingPath])
	assert.Len(t, result.Diags, 2)
	assert.True(t, result.Broken[fragment.Edge{From: rootPath, Line: 1}])
	assert.True(t, result.Broken[fragment.Edge{From: rootPath, Line: 2}])
}

func TestResolve_EmptyRootIsFatal(t *testing.T) {
	resolver := &fragment.Resolver{Files: filestore.OS()}
	_, err := resolver.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, fragment.ErrEmptyRoot)
}

func TestResolve_UnreadableRootIsFatal(t *testing.T) {
	tmpDir := t.TempDir()

	resolver := &fragment.Resolver{Files: filestore.OS()}
	_, err := resolver.Resolve(context.Background(), filepath.Join(tmpDir, "absent.c"))
	assert.Error(t, err)
}

func TestResolve_CancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	rootPath := writeFile(t, tmpDir, "main.c", "int x;\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &fragment.Resolver{Files: filestore.OS()}
	_, err := resolver.Resolve(ctx, rootPath)
	assert.ErrorIs(t, err, context.Canceled)
}

// stubCache is a Cache that records lookups and always stores.
type stubCache struct {
	entries map[string]struct {
		info filestore.FileInfo
		frag *fragment.Fragment
	}
	hits int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]struct {
		info filestore.FileInfo
		frag *fragment.Fragment
	})}
}

func (c *stubCache) Get(path string, info filestore.FileInfo) (*fragment.Fragment, bool) {
	entry, ok := c.entries[path]
	if !ok || entry.info != info {
		return nil, false
	}
	c.hits++
	return entry.frag, true
}

func (c *stubCache) Put(path string, info filestore.FileInfo, frag *fragment.Fragment) {
	c.entries[path] = struct {
		info filestore.FileInfo
		frag *fragment.Fragment
	}{info, frag}
}

func TestResolve_CacheSkipsRereadOfUnchangedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "b.h", "int b;\n")
	rootPath := writeFile(t, tmpDir, "main.c", "#include \"b.h\"\n")

	cache := newStubCache()
	counts := make(map[string]int)
	resolver := &fragment.Resolver{Files: countingStore(filestore.OS(), counts), Cache: cache}

	_, err := resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), rootPath)
	require.NoError(t, err)

	assert.Equal(t, 1, counts[filepath.Join(tmpDir, "b.h")])
	assert.Equal(t, 1, counts[rootPath])
	assert.Equal(t, 2, cache.hits)
}
