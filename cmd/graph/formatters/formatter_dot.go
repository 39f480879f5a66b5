package formatters

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LegacyCodeHQ/unfurl/incgraph"
)

// DOTFormatter formats include graphs as Graphviz DOT.
type DOTFormatter struct{}

// Format converts the include graph to Graphviz DOT format. The root
// file is outlined, minority extensions get their own fill color,
// unresolved targets render as dashed red nodes, and edges that could
// not be followed render dashed red with the directive line numbers as
// labels.
func (f *DOTFormatter) Format(g *incgraph.Graph, opts RenderOptions) (string, error) {
	files, err := g.Files()
	if err != nil {
		return "", err
	}
	adjacency, err := g.Adjacency()
	if err != nil {
		return "", err
	}

	names := BuildNodeNames(files)
	cycleNodes := cycleEndpoints(g, files, adjacency)
	extensionColors := getExtensionColors(files)
	majority := majorityExtension(files)

	var sb strings.Builder
	sb.WriteString("digraph includes {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box];\n")

	if opts.Label != "" {
		sb.WriteString(fmt.Sprintf("  label=%q;\n", opts.Label))
		sb.WriteString("  labelloc=t;\n")
		sb.WriteString("  labeljust=l;\n")
		sb.WriteString("  fontsize=10;\n")
		sb.WriteString("  fontname=Courier;\n")
	}
	sb.WriteString("\n")

	for _, path := range files {
		name := names[path]

		fill := "white"
		if ext := filepath.Ext(path); ext != "" && ext != majority && len(extensionColors) > 1 {
			fill = extensionColors[ext]
		}

		style := "style=filled"
		if !g.IsResolved(path) {
			style = "style=\"filled,dashed\""
		}

		attrs := []string{fmt.Sprintf("label=%q", name), style, "fillcolor=" + fill}
		if !g.IsResolved(path) || cycleNodes[path] {
			attrs = append(attrs, "color=red")
		}
		if path == g.Root {
			attrs = append(attrs, "penwidth=2")
		}
		sb.WriteString(fmt.Sprintf("  %q [%s];\n", name, strings.Join(attrs, ", ")))
	}

	var edgesSB strings.Builder
	for _, from := range files {
		for _, to := range adjacency[from] {
			md, _ := g.EdgeInfo(from, to)
			attrs := []string{fmt.Sprintf("label=%q", lineList(md.Lines))}
			if md.Unresolved {
				attrs = append(attrs, "color=red", "style=dashed")
			}
			edgesSB.WriteString(fmt.Sprintf("  %q -> %q [%s];\n", names[from], names[to], strings.Join(attrs, ", ")))
		}
	}
	if edgesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(edgesSB.String())
	}

	sb.WriteString("}")
	return sb.String(), nil
}

// GenerateURL creates a GraphvizOnline URL with the DOT graph embedded.
func (f *DOTFormatter) GenerateURL(output string) (string, bool) {
	encoded := url.PathEscape(output)
	return fmt.Sprintf("https://dreampuf.github.io/GraphvizOnline/?engine=dot#%s", encoded), true
}

// cycleEndpoints flags vertices touched by a cycle back edge. An
// unresolved edge whose target still carries a fragment can only mean
// the target was already on the inclusion path when it was reached.
func cycleEndpoints(g *incgraph.Graph, files []string, adjacency map[string][]string) map[string]bool {
	nodes := make(map[string]bool)
	for _, from := range files {
		for _, to := range adjacency[from] {
			md, ok := g.EdgeInfo(from, to)
			if ok && md.Unresolved && g.IsResolved(to) {
				nodes[from] = true
				nodes[to] = true
			}
		}
	}
	return nodes
}

func lineList(lines []int) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = strconv.Itoa(line)
	}
	return strings.Join(parts, ", ")
}
