package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/LegacyCodeHQ/unfurl/session"
	"github.com/LegacyCodeHQ/unfurl/view"
)

// jsonView is the wire shape of an unfurled view.
type jsonView struct {
	Root        string           `json:"root"`
	Lines       []jsonLine       `json:"lines"`
	Diagnostics []jsonDiagnostic `json:"diagnostics,omitempty"`
}

type jsonLine struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
	Path string `json:"path"`
	Line int    `json:"line,omitempty"`
}

type jsonDiagnostic struct {
	Kind   string `json:"kind"`
	Path   string `json:"path"`
	From   string `json:"from"`
	Line   int    `json:"line"`
	Detail string `json:"detail,omitempty"`
}

// JSONFormatter formats the unfurled view as JSON.
type JSONFormatter struct{}

// Format converts the view and its diagnostics to indented JSON.
func (f *JSONFormatter) Format(s *session.Session) (string, error) {
	out := jsonView{
		Root:  s.Root,
		Lines: make([]jsonLine, 0, len(s.View.Lines)),
	}
	for i, text := range s.View.Lines {
		m := s.View.Mapping[i]
		out.Lines = append(out.Lines, jsonLine{
			Text: text,
			Kind: mappingKindName(m.Kind),
			Path: m.Path,
			Line: m.Line,
		})
	}
	for _, d := range s.Diagnostics {
		jd := jsonDiagnostic{
			Kind: diagnosticKindName(d.Kind),
			Path: d.Path,
			From: d.Site.From,
			Line: d.Site.Line,
		}
		if d.Err != nil {
			jd.Detail = d.Err.Error()
		}
		out.Diagnostics = append(out.Diagnostics, jd)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func mappingKindName(k view.MappingKind) string {
	switch k {
	case view.MappedBoundary:
		return "boundary"
	case view.MappedUnresolved:
		return "unresolved"
	default:
		return "code"
	}
}

func diagnosticKindName(k fragment.DiagnosticKind) string {
	if k == fragment.DiagCycle {
		return "cycle"
	}
	return "unreadable"
}
