package filestore

import "strings"

// SplitLines splits file content into lines on "\n". A trailing newline
// does not produce a final empty line: "a\nb\n" and "a\nb" both split
// into ["a", "b"]. Empty content splits into no lines.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := string(data)
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// HasTrailingNewline reports whether content ends with "\n". Empty
// content has no trailing newline.
func HasTrailingNewline(data []byte) bool {
	return len(data) > 0 && data[len(data)-1] == '\n'
}

// JoinLines reassembles lines into file content, appending a final
// newline when trailingNewline is set. Joining the output of SplitLines
// with the original HasTrailingNewline reproduces the input bytes.
func JoinLines(lines []string, trailingNewline bool) []byte {
	if len(lines) == 0 {
		if trailingNewline {
			return []byte("\n")
		}
		return nil
	}
	joined := strings.Join(lines, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return []byte(joined)
}
