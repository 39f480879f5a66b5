package session

import (
	"context"
	"sort"

	"github.com/LegacyCodeHQ/unfurl/filestore"
)

// SaveResult is the outcome of writing one file's pending edits.
type SaveResult struct {
	Path string
	OK   bool
	Err  error
}

// Save writes every file touched by the accumulated patch set and
// reports a per-file outcome. One file failing does not stop the
// others. The patch set is kept, so calling Save again rewrites the
// same content.
func (s *Session) Save(ctx context.Context) []SaveResult {
	paths := make([]string, 0, len(s.patches))
	for path := range s.patches {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	results := make([]SaveResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, SaveResult{Path: path, Err: err})
			continue
		}
		if err := s.saveFile(path, s.patches[path]); err != nil {
			results = append(results, SaveResult{Path: path, Err: err})
			continue
		}
		results = append(results, SaveResult{Path: path, OK: true})
	}
	return results
}

// saveFile re-reads the file, replaces the patched lines, and writes it
// back preserving the original trailing-newline convention. A patch
// line beyond the end of the file extends it with empty lines; the
// file may have shrunk since it was unfurled.
func (s *Session) saveFile(path string, linePatches map[int]string) error {
	data, err := s.files.Read(path)
	if err != nil {
		return err
	}

	lines := filestore.SplitLines(data)
	trailing := filestore.HasTrailingNewline(data)

	lineNumbers := make([]int, 0, len(linePatches))
	for lineNo := range linePatches {
		lineNumbers = append(lineNumbers, lineNo)
	}
	sort.Ints(lineNumbers)

	for _, lineNo := range lineNumbers {
		for len(lines) < lineNo {
			lines = append(lines, "")
		}
		lines[lineNo-1] = linePatches[lineNo]
	}

	return s.files.Write(path, filestore.JoinLines(lines, trailing))
}
