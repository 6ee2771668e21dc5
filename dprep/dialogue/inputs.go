package dialogue

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ExpandInputs resolves files and directories into a sorted, de-duplicated list of corpus files.
// Directories are walked for *.json files. excludes are gitignore-style patterns matched against
// paths relative to the walked directory, or against the path itself for explicit files.
func ExpandInputs(paths []string, excludes []string) ([]string, error) {
	matcher := ignore.CompileIgnoreLines(excludes...)
	seen := make(map[string]struct{})
	var out []string

	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input %s: %w", p, err)
		}
		if !info.IsDir() {
			if len(excludes) == 0 || !matcher.MatchesPath(filepath.ToSlash(filepath.Clean(p))) {
				add(p)
			}
			continue
		}

		root := p
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			if rel == "." {
				return nil
			}
			if len(excludes) > 0 && matcher.MatchesPath(filepath.ToSlash(rel)) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk input directory %s: %w", root, err)
		}
	}

	slices.Sort(out)
	return out, nil
}
