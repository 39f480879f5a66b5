package fragment

import (
	"path/filepath"
	"regexp"

	"github.com/LegacyCodeHQ/unfurl/filestore"
)

// includePattern matches quoted inclusion directives. Angle-bracket
// includes name system headers this tool never follows, so they stay
// ordinary text lines.
var includePattern = regexp.MustCompile(`^[ \t]*#include[ \t]+"([^"]+)"`)

// IncludeDirective reports whether line is a quoted inclusion directive,
// returning the quoted path when it is.
func IncludeDirective(line string) (string, bool) {
	m := includePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Parse splits raw file content into a Fragment. Include targets are
// resolved relative to the file's own directory and canonicalized;
// every other line becomes a text entry. The path must already be
// canonical.
func Parse(path string, data []byte) *Fragment {
	dir := filepath.Dir(path)
	lines := filestore.SplitLines(data)

	frag := &Fragment{Path: path, Entries: make([]Entry, 0, len(lines))}
	for i, line := range lines {
		lineNo := i + 1

		target, ok := IncludeDirective(line)
		if !ok {
			frag.Entries = append(frag.Entries, Entry{Kind: EntryText, Text: line, Line: lineNo})
			continue
		}

		var resolved string
		if filepath.IsAbs(target) {
			resolved = filepath.Clean(target)
		} else {
			resolved = filepath.Join(dir, target)
		}
		frag.Entries = append(frag.Entries, Entry{Kind: EntryInclude, Target: resolved, Line: lineNo})
	}
	return frag
}
