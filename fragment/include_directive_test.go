package fragment_test

import (
	"path/filepath"
	"testing"

	"github.com/LegacyCodeHQ/unfurl/fragment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeDirective_QuotedIncludes(t *testing.T) {
	testCases := []struct {
		line     string
		expected string
	}{
		{`#include "a.h"`, "a.h"},
		{`#include "dir/a.h"`, "dir/a.h"},
		{`#include "../up.h"`, "../up.h"},
		{`  #include "indented.h"`, "indented.h"},
		{"\t#include \"tabbed.h\"", "tabbed.h"},
		{`#include   "spaced.h"`, "spaced.h"},
		{`#include "a.h" // trailing comment`, "a.h"},
	}

	for _, tc := range testCases {
		target, ok := fragment.IncludeDirective(tc.line)
		assert.True(t, ok, "expected %q to be an include directive", tc.line)
		assert.Equal(t, tc.expected, target)
	}
}

func TestIncludeDirective_NonIncludes(t *testing.T) {
	testCases := []string{
		`#include <stdio.h>`,
		`#include`,
		`#include ""`,
		`// #include is mentioned here`,
		`int x; #include "a.h"`,
		`#define INCLUDE "a.h"`,
		`printf("#include \"a.h\"");`,
		``,
	}

	for _, line := range testCases {
		_, ok := fragment.IncludeDirective(line)
		assert.False(t, ok, "expected %q not to be an include directive", line)
	}
}

func TestParse_MixedContent(t *testing.T) {
	data := []byte("int x;\n#include \"util.h\"\nint y;\n")
	frag := fragment.Parse("/src/main.c", data)

	require.Len(t, frag.Entries, 3)
	assert.Equal(t, "/src/main.c", frag.Path)

	assert.Equal(t, fragment.EntryText, frag.Entries[0].Kind)
	assert.Equal(t, "int x;", frag.Entries[0].Text)
	assert.Equal(t, 1, frag.Entries[0].Line)

	assert.Equal(t, fragment.EntryInclude, frag.Entries[1].Kind)
	assert.Equal(t, filepath.FromSlash("/src/util.h"), frag.Entries[1].Target)
	assert.Equal(t, 2, frag.Entries[1].Line)

	assert.Equal(t, fragment.EntryText, frag.Entries[2].Kind)
	assert.Equal(t, "int y;", frag.Entries[2].Text)
	assert.Equal(t, 3, frag.Entries[2].Line)
}

func TestParse_TargetsResolveRelativeToOwnDirectory(t *testing.T) {
	data := []byte("#include \"../shared/defs.h\"\n")
	frag := fragment.Parse("/proj/src/main.c", data)

	require.Len(t, frag.Entries, 1)
	assert.Equal(t, filepath.FromSlash("/proj/shared/defs.h"), frag.Entries[0].Target)
}

func TestParse_AbsoluteTargetKeptAsIs(t *testing.T) {
	data := []byte("#include \"/opt/defs.h\"\n")
	frag := fragment.Parse("/proj/main.c", data)

	require.Len(t, frag.Entries, 1)
	assert.Equal(t, filepath.FromSlash("/opt/defs.h"), frag.Entries[0].Target)
}

func TestParse_AngleBracketIncludeStaysText(t *testing.T) {
	data := []byte("#include <stdio.h>\n")
	frag := fragment.Parse("/proj/main.c", data)

	require.Len(t, frag.Entries, 1)
	assert.Equal(t, fragment.EntryText, frag.Entries[0].Kind)
	assert.Equal(t, "#include <stdio.h>", frag.Entries[0].Text)
}

func TestParse_EmptyFile(t *testing.T) {
	frag := fragment.Parse("/proj/empty.h", nil)
	assert.Empty(t, frag.Entries)
}

func TestParse_LineNumbersMatchFilePositions(t *testing.T) {
	data := []byte("a\n\n#include \"x.h\"\nb")
	frag := fragment.Parse("/proj/main.c", data)

	require.Len(t, frag.Entries, 4)
	for i, entry := range frag.Entries {
		assert.Equal(t, i+1, entry.Line)
	}
}
