package formatters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/unfurl/session"
	"github.com/LegacyCodeHQ/unfurl/view"
)

// AnnotatedFormatter renders the view with a provenance gutter: each
// output line is prefixed with the source file (relative to the root
// file's directory) and, for code lines, the source line number.
type AnnotatedFormatter struct{}

// Format returns the annotated view. Gutters are padded to a common
// width so the view text stays column-aligned.
func (f *AnnotatedFormatter) Format(s *session.Session) (string, error) {
	baseDir := filepath.Dir(s.Root)

	gutters := make([]string, len(s.View.Lines))
	width := 0
	for i, m := range s.View.Mapping {
		gutter := displayPath(baseDir, m.Path)
		if m.Kind == view.MappedCode {
			gutter = fmt.Sprintf("%s:%d", gutter, m.Line)
		}
		gutters[i] = gutter
		if len(gutter) > width {
			width = len(gutter)
		}
	}

	annotated := make([]string, len(s.View.Lines))
	for i, line := range s.View.Lines {
		annotated[i] = fmt.Sprintf("%-*s | %s", width, gutters[i], line)
	}
	return strings.Join(annotated, "\n"), nil
}

func displayPath(baseDir, absolutePath string) string {
	rel, err := filepath.Rel(baseDir, absolutePath)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return absolutePath
	}
	return rel
}
