package session

import (
	"context"
	"sort"
	"strings"

	"github.com/LegacyCodeHQ/unfurl/filestore"
	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/LegacyCodeHQ/unfurl/view"
)

// Session is one unfurled root file: the flattened view, the
// diagnostics resolution produced, and the edits accumulated against
// the view. Sessions share nothing; starting a new session simply
// abandons the old value. A Session is not safe for concurrent use.
type Session struct {
	Root        string
	View        *view.View
	Diagnostics []fragment.Diagnostic

	files   filestore.Store
	paths   []string
	patches PatchSet
}

type options struct {
	files filestore.Store
	cache fragment.Cache
}

// Option adjusts how a session is created.
type Option func(*options)

// WithFiles substitutes the file access capability, for reading and
// writing somewhere other than the local filesystem.
func WithFiles(files filestore.Store) Option {
	return func(o *options) { o.files = files }
}

// WithCache reuses parsed fragments across sessions via the given cache.
func WithCache(cache fragment.Cache) Option {
	return func(o *options) { o.cache = cache }
}

// New unfurls rootPath into a fresh session. Unreadable includes and
// cycles are reported through Session.Diagnostics; only an empty root
// path, an unreadable root file, or cancellation fails outright.
func New(ctx context.Context, rootPath string, opts ...Option) (*Session, error) {
	if strings.TrimSpace(rootPath) == "" {
		return nil, fragment.ErrEmptyRoot
	}

	o := options{files: filestore.OS()}
	for _, opt := range opts {
		opt(&o)
	}

	resolver := &fragment.Resolver{Files: o.files, Cache: o.cache}
	result, err := resolver.Resolve(ctx, rootPath)
	if err != nil {
		return nil, err
	}

	flat, err := view.Flatten(result)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(result.Fragments))
	for path := range result.Fragments {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	return &Session{
		Root:        result.Root,
		View:        flat,
		Diagnostics: result.Diags,
		files:       o.files,
		paths:       paths,
		patches:     make(PatchSet),
	}, nil
}

// Text renders the current flattened view as one string.
func (s *Session) Text() string {
	return strings.Join(s.View.Lines, "\n")
}

// Files returns the canonical paths of every file resolved into the
// session's include tree, sorted.
func (s *Session) Files() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}
