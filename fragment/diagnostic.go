package fragment

import "fmt"

// DiagnosticKind classifies recoverable resolution problems.
type DiagnosticKind int

const (
	// DiagCycle marks an include that would re-enter a file already being resolved.
	DiagCycle DiagnosticKind = iota
	// DiagUnreadable marks an include whose target could not be read.
	DiagUnreadable
)

// Diagnostic describes one include site that could not be followed.
// Path is the canonical target path; Site is where it was referenced.
type Diagnostic struct {
	Kind DiagnosticKind
	Path string
	Site Edge
	Err  error
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagCycle:
		return fmt.Sprintf("cycle detected: %s is already being included (from %s:%d)", d.Path, d.Site.From, d.Site.Line)
	case DiagUnreadable:
		return fmt.Sprintf("cannot include %s (from %s:%d): %v", d.Path, d.Site.From, d.Site.Line, d.Err)
	default:
		return fmt.Sprintf("cannot include %s", d.Path)
	}
}
