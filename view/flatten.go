package view

import (
	"fmt"

	"github.com/LegacyCodeHQ/unfurl/fragment"
)

// Flatten walks the resolved include tree depth-first from the root and
// produces the synthesized view. Traversal follows fragment entries in
// file order, so output is byte-identical across calls for the same
// resolution result.
func Flatten(res *fragment.Result) (*View, error) {
	root, ok := res.Fragments[res.Root]
	if !ok {
		return nil, fmt.Errorf("no fragment for root %s", res.Root)
	}

	v := &View{}
	flattenFragment(res, root, v)
	return v, nil
}

func flattenFragment(res *fragment.Result, frag *fragment.Fragment, v *View) {
	for _, entry := range frag.Entries {
		switch entry.Kind {
		case fragment.EntryText:
			v.Lines = append(v.Lines, entry.Text)
			v.Mapping = append(v.Mapping, Mapping{Kind: MappedCode, Path: frag.Path, Line: entry.Line})

		case fragment.EntryInclude:
			target, resolved := res.Fragments[entry.Target]
			broken := res.Broken[fragment.Edge{From: frag.Path, Line: entry.Line}]
			if !resolved || broken {
				v.Lines = append(v.Lines, FailedMarker(entry.Target))
				v.Mapping = append(v.Mapping, Mapping{Kind: MappedUnresolved, Path: entry.Target})
				continue
			}

			v.Lines = append(v.Lines, StartMarker(entry.Target))
			v.Mapping = append(v.Mapping, Mapping{Kind: MappedBoundary, Path: entry.Target})
			flattenFragment(res, target, v)
			v.Lines = append(v.Lines, EndMarker(entry.Target))
			v.Mapping = append(v.Mapping, Mapping{Kind: MappedBoundary, Path: entry.Target})
		}
	}
}
