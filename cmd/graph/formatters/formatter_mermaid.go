package formatters

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/LegacyCodeHQ/unfurl/incgraph"
)

// MermaidFormatter formats include graphs as Mermaid.js flowcharts.
type MermaidFormatter struct{}

// Format converts the include graph to Mermaid.js flowchart format.
// Unresolved targets get a red dashed outline and edges that could not
// be followed render as dotted links.
func (f *MermaidFormatter) Format(g *incgraph.Graph, opts RenderOptions) (string, error) {
	files, err := g.Files()
	if err != nil {
		return "", err
	}
	adjacency, err := g.Adjacency()
	if err != nil {
		return "", err
	}

	names := BuildNodeNames(files)

	var sb strings.Builder
	if opts.Label != "" {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", opts.Label))
		sb.WriteString("---\n")
	}
	sb.WriteString("flowchart LR\n")

	// Mermaid node IDs can't have dots or special characters, so nodes
	// are numbered in sorted path order.
	nodeIDs := make(map[string]string, len(files))
	for i, path := range files {
		nodeIDs[path] = fmt.Sprintf("n%d", i)
	}

	for _, path := range files {
		label := strings.ReplaceAll(names[path], "\"", "#quot;")
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", nodeIDs[path], label))
	}

	var edgesSB strings.Builder
	edgeIndex := 0
	var brokenEdgeIndices []int
	for _, from := range files {
		for _, to := range adjacency[from] {
			md, _ := g.EdgeInfo(from, to)
			if md.Unresolved {
				edgesSB.WriteString(fmt.Sprintf("    %s -.-> %s\n", nodeIDs[from], nodeIDs[to]))
				brokenEdgeIndices = append(brokenEdgeIndices, edgeIndex)
			} else {
				edgesSB.WriteString(fmt.Sprintf("    %s --> %s\n", nodeIDs[from], nodeIDs[to]))
			}
			edgeIndex++
		}
	}

	var stylesSB strings.Builder
	for _, path := range files {
		if g.IsResolved(path) {
			continue
		}
		stylesSB.WriteString(fmt.Sprintf("    style %s stroke:#d62728,stroke-width:3px,stroke-dasharray: 5 5\n", nodeIDs[path]))
	}
	for _, idx := range brokenEdgeIndices {
		stylesSB.WriteString(fmt.Sprintf("    linkStyle %d stroke:#d62728,stroke-width:3px\n", idx))
	}

	if edgesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(edgesSB.String())
	}
	if stylesSB.Len() > 0 {
		sb.WriteString("\n")
		sb.WriteString(stylesSB.String())
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// GenerateURL creates a mermaid.live URL with the diagram embedded.
func (f *MermaidFormatter) GenerateURL(output string) (string, bool) {
	payload := map[string]interface{}{
		"code": output,
		"mermaid": map[string]interface{}{
			"theme": "default",
		},
		"autoSync":      true,
		"updateDiagram": true,
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		// Fallback: just return the code URL-encoded
		return fmt.Sprintf("https://mermaid.live/edit#%s", url.PathEscape(output)), true
	}

	encoded := base64.URLEncoding.EncodeToString(jsonBytes)
	return fmt.Sprintf("https://mermaid.live/edit#base64:%s", encoded), true
}
