package incgraph

import (
	"errors"
	"fmt"
	"sort"

	graphlib "github.com/dominikbraun/graph"

	"github.com/LegacyCodeHQ/unfurl/fragment"
)

// Edge identifies a directed include relationship between two files.
type Edge struct {
	From string
	To   string
}

// EdgeMetadata annotates one include relationship. Lines lists the
// 1-based directive lines in From, in file order; Unresolved is set
// when the relationship could not be followed (cycle back edge or an
// unreadable target).
type EdgeMetadata struct {
	Lines      []int
	Unresolved bool
}

// Graph is the include graph of one resolved root: vertices are
// canonical file paths, edges follow include directives. Targets that
// never resolved are vertices too, so they show up in renderings.
type Graph struct {
	Root string

	graph    graphlib.Graph[string, string]
	edges    map[Edge]EdgeMetadata
	resolved map[string]bool
}

// Build derives the include graph from a resolution result.
func Build(res *fragment.Result) (*Graph, error) {
	g := &Graph{
		Root:     res.Root,
		graph:    graphlib.New(graphlib.StringHash, graphlib.Directed()),
		edges:    make(map[Edge]EdgeMetadata),
		resolved: make(map[string]bool, len(res.Fragments)),
	}

	paths := make([]string, 0, len(res.Fragments))
	for path := range res.Fragments {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := g.addVertex(path); err != nil {
			return nil, err
		}
		g.resolved[path] = true
	}

	for _, path := range paths {
		for _, entry := range res.Fragments[path].Entries {
			if entry.Kind != fragment.EntryInclude {
				continue
			}
			if err := g.addInclude(res, path, entry); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func (g *Graph) addVertex(path string) error {
	if err := g.graph.AddVertex(path); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add %s to include graph: %w", path, err)
	}
	return nil
}

func (g *Graph) addInclude(res *fragment.Result, from string, entry fragment.Entry) error {
	if err := g.addVertex(entry.Target); err != nil {
		return err
	}
	if err := g.graph.AddEdge(from, entry.Target); err != nil && !errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return fmt.Errorf("failed to add edge %s -> %s: %w", from, entry.Target, err)
	}

	key := Edge{From: from, To: entry.Target}
	md := g.edges[key]
	md.Lines = append(md.Lines, entry.Line)
	if res.Broken[fragment.Edge{From: from, Line: entry.Line}] {
		md.Unresolved = true
	}
	if _, ok := res.Fragments[entry.Target]; !ok {
		md.Unresolved = true
	}
	g.edges[key] = md
	return nil
}

// Files returns every vertex, sorted.
func (g *Graph) Files() ([]string, error) {
	adjacency, err := g.graph.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read include graph: %w", err)
	}

	files := make([]string, 0, len(adjacency))
	for path := range adjacency {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// Adjacency returns the include relationships as sorted adjacency
// lists. Every vertex is a key, including leaves.
func (g *Graph) Adjacency() (map[string][]string, error) {
	adjacency, err := g.graph.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read include graph: %w", err)
	}

	out := make(map[string][]string, len(adjacency))
	for path, targets := range adjacency {
		list := make([]string, 0, len(targets))
		for target := range targets {
			list = append(list, target)
		}
		sort.Strings(list)
		out[path] = list
	}
	return out, nil
}

// EdgeInfo returns the metadata recorded for one include relationship.
func (g *Graph) EdgeInfo(from, to string) (EdgeMetadata, bool) {
	md, ok := g.edges[Edge{From: from, To: to}]
	return md, ok
}

// IsResolved reports whether a vertex has a parsed fragment behind it.
// Vertices that exist only as the target of a broken include report
// false.
func (g *Graph) IsResolved(path string) bool {
	return g.resolved[path]
}

// Unresolved returns the include relationships that could not be
// followed, sorted by source then target.
func (g *Graph) Unresolved() []Edge {
	var out []Edge
	for edge, md := range g.edges {
		if md.Unresolved {
			out = append(out, edge)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}
