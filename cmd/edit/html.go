package edit

import _ "embed"

//go:embed editor.html
var editorHTML string
