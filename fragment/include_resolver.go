package fragment

import (
	"context"
	"errors"
	"fmt"

	"github.com/LegacyCodeHQ/unfurl/filestore"
)

// ErrEmptyRoot is returned when Resolve is called without a root path.
var ErrEmptyRoot = errors.New("root path is empty")

// Cache saves parsed fragments across resolutions. Implementations
// decide validity from the FileInfo observed when the fragment was
// parsed.
type Cache interface {
	Get(path string, info filestore.FileInfo) (*Fragment, bool)
	Put(path string, info filestore.FileInfo, frag *Fragment)
}

// Resolver reads and parses the files reachable from a root through
// inclusion directives. Cache is optional.
type Resolver struct {
	Files filestore.Store
	Cache Cache
}

type resolveState struct {
	// resolving holds the paths on the active recursion path. A target
	// found here is a cycle; the edge is recorded as broken instead of
	// recursing.
	resolving map[string]bool
	// failed memoizes read errors so a file unreadable from one include
	// site is not re-read from the next.
	failed map[string]error
	result *Result
}

// Resolve walks the include graph depth-first from root. Cycles and
// unreadable includes become broken edges plus diagnostics; only a
// failure to read the root itself, or cancellation, is fatal.
func (r *Resolver) Resolve(ctx context.Context, root string) (*Result, error) {
	if root == "" {
		return nil, ErrEmptyRoot
	}
	rootPath, err := filestore.Canonical(root)
	if err != nil {
		return nil, err
	}

	st := &resolveState{
		resolving: make(map[string]bool),
		failed:    make(map[string]error),
		result: &Result{
			Root:      rootPath,
			Fragments: make(Store),
			Broken:    make(map[Edge]bool),
		},
	}

	if err := r.resolveFile(ctx, st, rootPath); err != nil {
		return nil, fmt.Errorf("failed to unfurl %s: %w", rootPath, err)
	}
	return st.result, nil
}

// resolveFile reads, parses, and recursively resolves one file. An
// error from it is fatal: either the file itself was unreadable or the
// context was cancelled.
func (r *Resolver) resolveFile(ctx context.Context, st *resolveState, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	frag, err := r.loadFragment(path)
	if err != nil {
		return err
	}

	st.resolving[path] = true
	defer delete(st.resolving, path)

	for _, entry := range frag.Entries {
		if entry.Kind != EntryInclude {
			continue
		}
		site := Edge{From: path, Line: entry.Line}
		if err := r.resolveInclude(ctx, st, site, entry.Target); err != nil {
			return err
		}
	}

	st.result.Fragments[path] = frag
	return nil
}

// resolveInclude follows one include site. Recoverable problems mark the
// edge broken and append a diagnostic; only cancellation propagates.
func (r *Resolver) resolveInclude(ctx context.Context, st *resolveState, site Edge, target string) error {
	if _, ok := st.result.Fragments[target]; ok {
		return nil
	}
	if st.resolving[target] {
		st.result.Broken[site] = true
		st.result.Diags = append(st.result.Diags, Diagnostic{Kind: DiagCycle, Path: target, Site: site})
		return nil
	}
	if readErr, ok := st.failed[target]; ok {
		st.result.Broken[site] = true
		st.result.Diags = append(st.result.Diags, Diagnostic{Kind: DiagUnreadable, Path: target, Site: site, Err: readErr})
		return nil
	}

	if err := r.resolveFile(ctx, st, target); err != nil {
		if ctx.Err() != nil {
			return err
		}
		st.failed[target] = err
		st.result.Broken[site] = true
		st.result.Diags = append(st.result.Diags, Diagnostic{Kind: DiagUnreadable, Path: target, Site: site, Err: err})
	}
	return nil
}

// loadFragment parses path's current content, consulting the cache when
// one is configured. Cache hits are validated against a fresh stat so a
// file modified since the last resolution is re-read.
func (r *Resolver) loadFragment(path string) (*Fragment, error) {
	if r.Cache != nil && r.Files.Stat != nil {
		if info, err := r.Files.Stat(path); err == nil {
			if frag, ok := r.Cache.Get(path, info); ok {
				return frag, nil
			}
			data, err := r.Files.Read(path)
			if err != nil {
				return nil, err
			}
			frag := Parse(path, data)
			r.Cache.Put(path, info, frag)
			return frag, nil
		}
	}

	data, err := r.Files.Read(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, data), nil
}
