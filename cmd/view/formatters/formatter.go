package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/unfurl/session"
)

// OutputFormat represents an output format type.
type OutputFormat string

const (
	OutputFormatText      OutputFormat = "text"
	OutputFormatAnnotated OutputFormat = "annotated"
	OutputFormatJSON      OutputFormat = "json"
)

// String returns the string representation of the format.
func (f OutputFormat) String() string {
	return string(f)
}

// SupportedFormats lists the accepted format flag values.
func SupportedFormats() string {
	return strings.Join([]string{
		string(OutputFormatText),
		string(OutputFormatAnnotated),
		string(OutputFormatJSON),
	}, ", ")
}

// Formatter is the interface all view formatters implement.
type Formatter interface {
	// Format renders an unfurled session for output.
	Format(s *session.Session) (string, error)
}

// NewFormatter creates a Formatter for the specified format type.
// Supported formats: "text", "annotated", "json"
func NewFormatter(format string) (Formatter, error) {
	switch OutputFormat(format) {
	case OutputFormatText:
		return &TextFormatter{}, nil
	case OutputFormatAnnotated:
		return &AnnotatedFormatter{}, nil
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}
}
