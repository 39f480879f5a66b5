package session

import (
	"fmt"

	"github.com/LegacyCodeHQ/unfurl/view"
)

// PatchSet accumulates pending edits: for each file, the 1-based line
// numbers to replace and their new text. The last write to a given
// (path, line) wins.
type PatchSet map[string]map[int]string

// EditOutcome reports whether one edit against the flattened view was
// accepted. A rejected edit must be reverted by the presentation layer;
// it never reaches any file.
type EditOutcome struct {
	Accepted bool
	Reason   string
}

// ApplyEdit replaces the text of one flattened line. Edits to boundary
// and failed-include markers are rejected; edits to code lines are
// recorded against the originating file and reflected in the view.
// Edits arriving one at a time and in batches behave identically.
func (s *Session) ApplyEdit(flatIndex int, newText string) EditOutcome {
	if flatIndex < 0 || flatIndex >= len(s.View.Mapping) {
		return EditOutcome{Reason: fmt.Sprintf("line %d is outside the view", flatIndex)}
	}

	m := s.View.Mapping[flatIndex]
	switch m.Kind {
	case view.MappedBoundary:
		return EditOutcome{Reason: fmt.Sprintf("cannot edit the boundary marker for %s", m.Path)}
	case view.MappedUnresolved:
		return EditOutcome{Reason: fmt.Sprintf("cannot edit the failed include marker for %s", m.Path)}
	}

	filePatches, ok := s.patches[m.Path]
	if !ok {
		filePatches = make(map[int]string)
		s.patches[m.Path] = filePatches
	}
	filePatches[m.Line] = newText

	s.View.Lines[flatIndex] = newText
	return EditOutcome{Accepted: true}
}

// LineAt returns the current text of one flattened line, so a caller
// can restore a rejected mutation.
func (s *Session) LineAt(flatIndex int) (string, bool) {
	if flatIndex < 0 || flatIndex >= len(s.View.Lines) {
		return "", false
	}
	return s.View.Lines[flatIndex], true
}

// Pending counts the line edits accumulated and not yet saved.
func (s *Session) Pending() int {
	n := 0
	for _, filePatches := range s.patches {
		n += len(filePatches)
	}
	return n
}
