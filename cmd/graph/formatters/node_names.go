package formatters

import (
	"path/filepath"
	"strings"
)

// BuildNodeNames returns stable, distinct display names for file paths.
// A unique base name is used as-is; paths sharing a base name grow a
// path suffix until every name in the group is distinct.
func BuildNodeNames(paths []string) map[string]string {
	byBase := make(map[string][]string, len(paths))
	for _, path := range paths {
		base := filepath.Base(path)
		byBase[base] = append(byBase[base], path)
	}

	names := make(map[string]string, len(paths))
	for base, group := range byBase {
		if len(group) == 1 {
			names[group[0]] = base
			continue
		}
		for depth := 2; ; depth++ {
			suffixes := make(map[string]int, len(group))
			for _, path := range group {
				suffixes[pathSuffix(path, depth)]++
			}

			distinct := true
			for _, count := range suffixes {
				if count > 1 {
					distinct = false
					break
				}
			}
			if !distinct {
				continue
			}

			for _, path := range group {
				names[path] = pathSuffix(path, depth)
			}
			break
		}
	}

	return names
}

// pathSuffix returns the last depth segments of path, joined with "/".
func pathSuffix(path string, depth int) string {
	normalized := filepath.ToSlash(filepath.Clean(path))
	parts := strings.Split(strings.TrimPrefix(normalized, "/"), "/")
	if len(parts) == 0 {
		return normalized
	}
	if depth > len(parts) {
		depth = len(parts)
	}
	return strings.Join(parts[len(parts)-depth:], "/")
}
