package formatters

import (
	"path/filepath"
	"sort"
)

func getExtensionColors(fileNames []string) map[string]string {
	availableColors := []string{
		"lightblue", "lightyellow", "mistyrose", "lightsalmon",
		"lightpink", "lavender", "peachpuff", "plum", "powderblue", "khaki",
		"palegoldenrod", "thistle",
	}

	uniqueExtensions := make(map[string]bool)
	for _, fileName := range fileNames {
		ext := filepath.Ext(fileName)
		if ext != "" {
			uniqueExtensions[ext] = true
		}
	}

	sortedExtensions := make([]string, 0, len(uniqueExtensions))
	for ext := range uniqueExtensions {
		sortedExtensions = append(sortedExtensions, ext)
	}
	sort.Strings(sortedExtensions)

	extensionColors := make(map[string]string)
	for i, ext := range sortedExtensions {
		color := availableColors[i%len(availableColors)]
		extensionColors[ext] = color
	}

	return extensionColors
}

// majorityExtension returns the most common extension among the given
// paths. Ties break toward the lexically smaller extension.
func majorityExtension(fileNames []string) string {
	counts := make(map[string]int)
	for _, fileName := range fileNames {
		counts[filepath.Ext(fileName)]++
	}

	sortedExtensions := make([]string, 0, len(counts))
	for ext := range counts {
		sortedExtensions = append(sortedExtensions, ext)
	}
	sort.Strings(sortedExtensions)

	maxCount := 0
	majority := ""
	for _, ext := range sortedExtensions {
		if counts[ext] > maxCount {
			maxCount = counts[ext]
			majority = ext
		}
	}
	return majority
}
