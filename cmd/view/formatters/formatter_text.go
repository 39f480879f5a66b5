package formatters

import (
	"strings"

	"github.com/LegacyCodeHQ/unfurl/session"
)

// TextFormatter renders the unfurled view as plain text, one view line
// per output line.
type TextFormatter struct{}

// Format returns the view lines joined by newlines, without a trailing
// newline.
func (f *TextFormatter) Format(s *session.Session) (string, error) {
	return strings.Join(s.View.Lines, "\n"), nil
}
