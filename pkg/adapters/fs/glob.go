package fs

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/cadence/pkg/core"
)

// ReadGlob decodes every profile file matching pattern (doublestar syntax,
// e.g. "backups/**/*.xml") into one collection. Files are read in lexical
// order; the first file holding an identifier fixes its position and a later
// copy in another file replaces it in place.
// Files that cannot be read or parsed are skipped and reported in the
// returned warnings next to per-field conversion failures.
func ReadGlob(pattern string) (*core.Collection, []error, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)

	merged := core.NewCollection()
	var warnings []error
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, &core.ParseError{Path: path, Err: err})
			continue
		}
		col, fieldWarnings, err := decode(bytes.NewReader(data))
		warnings = append(warnings, fieldWarnings...)
		if err != nil {
			warnings = append(warnings, &core.ParseError{Path: path, Err: err})
			continue
		}
		col.Each(func(id core.Identifier, p core.Profile) {
			if merged.Has(id) {
				warnings = append(warnings, fmt.Errorf("%s: profile %s already imported, later copy wins", path, id))
			}
			merged.Put(id, p)
		})
	}
	return merged, warnings, nil
}
