package fragment

// EntryKind discriminates the two kinds of entries a Fragment can hold.
type EntryKind int

const (
	// EntryText is a literal line of file content.
	EntryText EntryKind = iota
	// EntryInclude is a line holding an inclusion directive for another file.
	EntryInclude
)

// Entry is one parsed line of a source file. Line is the 1-based line
// number in the file the entry came from. Text entries carry the line
// content; include entries carry the canonical absolute path of the
// included file.
type Entry struct {
	Kind   EntryKind
	Text   string
	Target string
	Line   int
}

// Fragment is the parsed representation of one file: its canonical
// absolute path plus its entries in file order. A Fragment records what
// the file says, never how resolution went, so the same Fragment is
// reused wherever the file is included from.
type Fragment struct {
	Path    string
	Entries []Entry
}

// Store maps canonical absolute paths to parsed fragments. Each path is
// read and parsed at most once per resolution.
type Store map[string]*Fragment

// Edge identifies one include site: the including file and the 1-based
// line number of the directive within it.
type Edge struct {
	From string
	Line int
}

// Result is the outcome of resolving a root file: the root's canonical
// path, every fragment reached, the include sites that could not be
// followed (cycles and unreadable files), and the diagnostics saying why.
type Result struct {
	Root      string
	Fragments Store
	Broken    map[Edge]bool
	Diags     []Diagnostic
}
