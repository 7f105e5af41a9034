package assets

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const MaxSuggestions = 3

// Suggest walks assetDir for level files and returns up to max paths, relative to
// assetDir and slash separated, whose names are close to path.
func Suggest(assetDir, path string, max int) []string {
	type scored struct {
		val  string
		dist int
	}

	want := strings.ToLower(filepath.ToSlash(path))
	var results []scored
	_ = filepath.WalkDir(assetDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !IsLevelFile(p) {
			return nil
		}
		rel, err := filepath.Rel(assetDir, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		cand := strings.ToLower(rel)
		dist := levenshtein.ComputeDistance(want, cand)
		if base := levenshtein.ComputeDistance(filepath.Base(want), filepath.Base(cand)); base < dist {
			dist = base
		}
		if dist > levenshteinLimit(len(cand)) {
			return nil
		}
		results = append(results, scored{val: rel, dist: dist})
		return nil
	})

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].dist == results[j].dist {
			return results[i].val < results[j].val
		}
		return results[i].dist < results[j].dist
	})

	var out []string
	for _, r := range results {
		if len(out) == max {
			break
		}
		out = append(out, r.val)
	}
	return out
}

func levenshteinLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 10:
		return 3
	default:
		return n / 3
	}
}

func IsLevelFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}
