package formatters

import (
	"encoding/json"

	"github.com/LegacyCodeHQ/unfurl/incgraph"
)

// jsonGraph is the wire shape of an include graph.
type jsonGraph struct {
	Root  string     `json:"root"`
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Resolved bool   `json:"resolved"`
}

type jsonEdge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Lines      []int  `json:"lines"`
	Unresolved bool   `json:"unresolved,omitempty"`
}

// JSONFormatter formats include graphs as JSON.
type JSONFormatter struct{}

// Format converts the include graph to JSON format.
// The opts parameter is accepted for interface compatibility but not used.
func (f *JSONFormatter) Format(g *incgraph.Graph, opts RenderOptions) (string, error) {
	files, err := g.Files()
	if err != nil {
		return "", err
	}
	adjacency, err := g.Adjacency()
	if err != nil {
		return "", err
	}

	names := BuildNodeNames(files)

	out := jsonGraph{
		Root:  g.Root,
		Nodes: make([]jsonNode, 0, len(files)),
		Edges: []jsonEdge{},
	}
	for _, path := range files {
		out.Nodes = append(out.Nodes, jsonNode{
			Path:     path,
			Name:     names[path],
			Resolved: g.IsResolved(path),
		})
	}
	for _, from := range files {
		for _, to := range adjacency[from] {
			md, _ := g.EdgeInfo(from, to)
			out.Edges = append(out.Edges, jsonEdge{
				From:       from,
				To:         to,
				Lines:      md.Lines,
				Unresolved: md.Unresolved,
			})
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GenerateURL returns false as JSON format does not support URL generation.
func (f *JSONFormatter) GenerateURL(output string) (string, bool) {
	return "", false
}
