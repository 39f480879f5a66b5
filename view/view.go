package view

// MappingKind says what a flattened line stands for.
type MappingKind int

const (
	// MappedCode is a real line of a source file; edits to it map back.
	MappedCode MappingKind = iota
	// MappedBoundary is a synthetic start/end marker around an included file.
	MappedBoundary
	// MappedUnresolved is a synthetic marker for an include that could not be followed.
	MappedUnresolved
)

// Mapping ties one flattened line back to its origin. Line is the
// 1-based line number in Path and is only meaningful for MappedCode.
type Mapping struct {
	Kind MappingKind
	Path string
	Line int
}

// View is the flattened rendition of an include tree: the synthesized
// lines plus, index-aligned, where each line came from.
type View struct {
	Lines   []string
	Mapping []Mapping
}

// StartMarker is the boundary line opening an included file's content.
func StartMarker(path string) string { return "start of " + path }

// EndMarker is the boundary line closing an included file's content.
func EndMarker(path string) string { return "end of " + path }

// FailedMarker stands in for an include that could not be followed.
func FailedMarker(path string) string { return "failed to include " + path }
