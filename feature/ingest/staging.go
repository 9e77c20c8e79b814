package ingest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// stagingPattern matches the two halves of a staged pair.
var stagingPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}-[a-zA-Z0-9_-]+)\.(bib|json)$`)

// Pair is a complete staged pair.
type Pair struct {
	Slug string
	Bib  string
	JSON string
}

// Files returns both paths of the pair.
func (p Pair) Files() []string {
	return []string{p.Bib, p.JSON}
}

// FindPairs returns the complete pairs of dir sorted by slug. Slugs with only one half are
// logged and ignored. A missing directory holds no pairs.
func FindPairs(dir string, logger *zap.Logger) ([]Pair, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Staging directory does not exist", zap.String("path", dir))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	halves := make(map[string]map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := stagingPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if halves[m[1]] == nil {
			halves[m[1]] = map[string]bool{}
		}
		halves[m[1]][m[2]] = true
	}

	slugs := make([]string, 0, len(halves))
	for slug := range halves {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	pairs := make([]Pair, 0, len(slugs))
	for _, slug := range slugs {
		h := halves[slug]
		if !h["bib"] || !h["json"] {
			logger.Warn("Incomplete staging pair", zap.String("slug", slug), zap.Bool("bib", h["bib"]), zap.Bool("json", h["json"]))
			continue
		}
		pairs = append(pairs, Pair{
			Slug: slug,
			Bib:  filepath.Join(dir, slug+".bib"),
			JSON: filepath.Join(dir, slug+".json"),
		})
	}
	return pairs, nil
}

// stagedBibs returns the .bib files of dir whose name matches the staging pattern.
func stagedBibs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := stagingPattern.FindStringSubmatch(e.Name()); m != nil && m[2] == "bib" {
			out = append(out, m[1])
		}
	}
	sort.Strings(out)
	return out, nil
}
