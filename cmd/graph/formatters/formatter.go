package formatters

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/unfurl/incgraph"
)

// RenderOptions contains optional parameters for rendering include graphs.
type RenderOptions struct {
	// Label is an optional title for the graph
	Label string
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts an include graph to a formatted string representation.
	Format(g *incgraph.Graph, opts RenderOptions) (string, error)

	// GenerateURL creates a shareable visualization URL for previously
	// formatted output. The second result is false when the format has no
	// URL scheme.
	GenerateURL(output string) (string, bool)
}

// SupportedFormats lists the accepted format flag values.
func SupportedFormats() string {
	return strings.Join([]string{
		string(OutputFormatDOT),
		string(OutputFormatMermaid),
		string(OutputFormatJSON),
	}, ", ")
}

// NewFormatter creates a Formatter for the specified format type.
// Supported formats: "dot", "mermaid", "json"
func NewFormatter(format string) (Formatter, error) {
	switch OutputFormat(format) {
	case OutputFormatDOT:
		return &DOTFormatter{}, nil
	case OutputFormatMermaid:
		return &MermaidFormatter{}, nil
	case OutputFormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, SupportedFormats())
	}
}
