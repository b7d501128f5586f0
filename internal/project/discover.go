package project

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var sourceExts = map[string]struct{}{
	".c": {}, ".h": {},
	".cc": {}, ".cpp": {}, ".cxx": {}, ".c++": {},
	".hh": {}, ".hpp": {}, ".hxx": {}, ".h++": {}, ".inl": {}, ".ipp": {},
}

// IsSourceFile reports whether path has a C or C++ source/header extension.
func IsSourceFile(path string) bool {
	_, ok := sourceExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Filter selects files by doublestar patterns relative to the walk root.
type Filter struct {
	Include []string // empty means DefaultInclude
	Exclude []string
}

// FilterOf returns the filter of the [scan] section.
func FilterOf(cfg Config) Filter {
	return Filter{Include: cfg.Scan.Include, Exclude: cfg.Scan.Exclude}
}

// Match reports whether rel (slash separated) is included and not excluded.
func (f Filter) Match(rel string) bool {
	include := f.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	return matchAny(include, rel) && !matchAny(f.Exclude, rel)
}

// SkipDir reports whether the directory rel (slash separated, relative to the
// walk root) is hidden or excluded.
func (f Filter) SkipDir(rel string) bool {
	return strings.HasPrefix(path.Base(rel), ".") || matchAny(f.Exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Discover returns the sorted list of files under root selected by f.
// A root naming a regular file is returned as is. Hidden directories are
// skipped, as are directories matched by an exclude pattern.
func Discover(root string, f Filter) ([]string, error) {
	for _, p := range append(append([]string(nil), f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGlob, p)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if f.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && f.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}
