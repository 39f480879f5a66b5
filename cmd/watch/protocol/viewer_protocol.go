package protocol

import (
	"time"

	"github.com/LegacyCodeHQ/unfurl/session"
	"github.com/LegacyCodeHQ/unfurl/view"
)

const (
	RouteIndex  = "/"
	RouteEvents = "/events"
)

const SSEEventView = "view"

// ViewLine is one flattened line together with its provenance. Line is
// 1-based and only present for code lines; marker lines carry the path
// they stand for.
type ViewLine struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
	Path string `json:"path,omitempty"`
	Line int    `json:"line,omitempty"`
}

// ViewSnapshot is the atom of the watch protocol: one complete unfurled
// view at a point in time.
type ViewSnapshot struct {
	ID        int64      `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Root      string     `json:"root"`
	Lines     []ViewLine `json:"lines"`
	Warnings  []string   `json:"warnings,omitempty"`
	Files     []string   `json:"files"`
}

// SnapshotFrom converts a session into its wire form.
func SnapshotFrom(s *session.Session, id int64, ts time.Time) ViewSnapshot {
	lines := make([]ViewLine, len(s.View.Lines))
	for i, text := range s.View.Lines {
		m := s.View.Mapping[i]
		line := ViewLine{Text: text, Kind: kindName(m.Kind), Path: m.Path}
		if m.Kind == view.MappedCode {
			line.Line = m.Line
		}
		lines[i] = line
	}

	var warnings []string
	for _, d := range s.Diagnostics {
		warnings = append(warnings, d.String())
	}

	return ViewSnapshot{
		ID:        id,
		Timestamp: ts,
		Root:      s.Root,
		Lines:     lines,
		Warnings:  warnings,
		Files:     s.Files(),
	}
}

func kindName(kind view.MappingKind) string {
	switch kind {
	case view.MappedBoundary:
		return "boundary"
	case view.MappedUnresolved:
		return "unresolved"
	default:
		return "code"
	}
}
