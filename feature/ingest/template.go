package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"biblib/core/bibtex"
	"biblib/core/workspace"
	"biblib/feature/journal"

	"go.uber.org/zap"
)

// identifierFields maps entry fields to identifier names.
var identifierFields = map[string]string{
	"doi":        "doi",
	"isbn":       "isbn",
	"url":        "url",
	"mrnumber":   "mrnumber",
	"eprint":     "eprint",
	"zbl":        "zbl",
	"mathscinet": "mrnumber",
	"arxiv":      "eprint",
}

// mainPriority orders the identifiers eligible as main identifier.
var mainPriority = []string{"doi", "isbn", "mrnumber", "url"}

// ExtractIdentifiers collects the identifier fields of an entry. It also returns the
// identifier names in the order they were first seen.
func ExtractIdentifiers(e *bibtex.Entry) (map[string]string, []string) {
	ids := map[string]string{}
	var seen []string
	for _, f := range e.Fields {
		name, ok := identifierFields[strings.ToLower(f.Name)]
		if !ok {
			continue
		}
		value := strings.TrimSpace(f.Value)
		if value == "" {
			continue
		}
		switch name {
		case "doi":
			value = strings.TrimPrefix(value, "https://doi.org/")
		case "eprint":
			value = strings.TrimPrefix(value, "arXiv:")
		}
		if _, dup := ids[name]; !dup {
			seen = append(seen, name)
		}
		ids[name] = value
	}
	return ids, seen
}

// SelectMain picks the main identifier: the first of doi, isbn, mrnumber and url that is
// present, else the first identifier seen, else "".
func SelectMain(ids map[string]string, seen []string) string {
	for _, name := range mainPriority {
		if _, ok := ids[name]; ok {
			return name
		}
	}
	if len(seen) > 0 {
		return seen[0]
	}
	return ""
}

// Draft builds the identifier records of every entry of a library.
func Draft(lib *bibtex.Library) *workspace.IdentifierCollection {
	c := workspace.NewIdentifierCollection()
	for _, e := range lib.Entries() {
		ids, seen := ExtractIdentifiers(e)
		c.Set(e.Key, workspace.IdentifierRecord{MainIdentifier: SelectMain(ids, seen), Identifiers: ids})
	}
	return c
}

// TemplateResult lists the identifier files written by Template.
type TemplateResult struct {
	Generated []string
}

// Template writes a draft .json next to every staged .bib that has none. With overwrite
// existing drafts are replaced. Files that cannot be parsed are logged and skipped.
func (s *Service) Template(ctx context.Context, overwrite bool) (*TemplateResult, error) {
	res := &TemplateResult{}

	slugs, err := stagedBibs(s.paths.Staging)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Staging directory does not exist", zap.String("path", s.paths.Staging))
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staging directory: %w", err)
	}

	for _, slug := range slugs {
		bibPath := filepath.Join(s.paths.Staging, slug+".bib")
		jsonPath := filepath.Join(s.paths.Staging, slug+".json")

		if _, err := os.Stat(jsonPath); err == nil && !overwrite {
			s.logger.Debug("Identifier file exists, skipping", zap.String("slug", slug))
			continue
		}

		lib, err := workspace.ReadLibrary(bibPath)
		if err != nil {
			s.logger.Error("Failed to read staged entries", zap.String("slug", slug), zap.Error(err))
			continue
		}
		draft := Draft(lib)
		data, err := workspace.EncodeJSON(draft)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", jsonPath, err)
		}
		if err := workspace.WriteFiles(workspace.File{Path: jsonPath, Data: data}); err != nil {
			s.logger.Error("Failed to write identifier file", zap.String("path", jsonPath), zap.Error(err))
			continue
		}

		res.Generated = append(res.Generated, filepath.Base(jsonPath))
		s.logger.Info("Generated identifier file", zap.String("path", jsonPath), zap.Int("entries", draft.Len()))
	}

	if len(res.Generated) > 0 {
		_ = s.journal.Record(ctx, journal.ActionTemplate, nil, strings.Join(res.Generated, ", "))
	} else {
		s.logger.Info("No new templates to generate")
	}
	return res, nil
}
