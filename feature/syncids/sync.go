package syncids

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"biblib/core/backup"
	"biblib/core/workspace"
	"biblib/feature/journal"

	"go.uber.org/zap"
)

// DefaultFields are the entry fields synced when none are requested.
var DefaultFields = []string{"isbn", "doi", "url", "eprint", "mrnumber", "zbl"}

var fieldMapping = map[string]string{
	"isbn13":    "isbn",
	"arxiv":     "eprint",
	"acmdl_doi": "url",
}

var (
	doiPrefix    = regexp.MustCompile(`(?i)^doi:\s*`)
	acmDOIPrefix = regexp.MustCompile(`^doi:\s*`)
	arxivPrefix  = regexp.MustCompile(`^(arxiv:|arXiv:)\s*`)
	isbnSplit    = regexp.MustCompile(`[,;]\s*`)
)

// FieldFor maps an identifier name to the entry field it is written to.
func FieldFor(identifier string) string {
	if f, ok := fieldMapping[identifier]; ok {
		return f
	}
	return identifier
}

// NormalizeValue formats an identifier value for the given entry field. identifier is
// the name the value was stored under.
func NormalizeValue(field, value, identifier string) string {
	switch field {
	case "doi":
		return doiPrefix.ReplaceAllString(value, "")
	case "eprint":
		return arxivPrefix.ReplaceAllString(value, "")
	case "url":
		if identifier == "acmdl_doi" {
			return "https://dl.acm.org/doi/" + acmDOIPrefix.ReplaceAllString(value, "")
		}
		if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
			return value
		}
		if strings.HasPrefix(value, "//") {
			return "https:" + value
		}
		return "https://" + value
	default:
		return value
	}
}

// NeedsUpdate reports whether a field holding current (absent when !present) should be
// set to next.
func NeedsUpdate(field, current string, present bool, next string) bool {
	if !present {
		return true
	}
	if current == next {
		return false
	}
	if field == "isbn" {
		for _, isbn := range isbnSplit.Split(current, -1) {
			if strings.TrimSpace(isbn) == next {
				return false
			}
		}
	}
	return true
}

// Change is one field update.
type Change struct {
	Key    string
	Field  string
	Old    string
	HadOld bool
	New    string
}

func (c Change) String() string {
	old := c.Old
	if !c.HadOld {
		old = "<none>"
	}
	return fmt.Sprintf("%s: %s '%s' -> '%s'", c.Key, c.Field, old, c.New)
}

// Result lists the changes of one sync run.
type Result struct {
	Changes []Change
	// Orphans are identifier records whose key has no entry.
	Orphans []string
	DryRun  bool
}

// Service syncs one workspace.
type Service struct {
	paths   workspace.Paths
	backups backup.Snapshotter
	journal journal.Recorder
	logger  *zap.Logger
}

// NewService creates a sync service.
func NewService(paths workspace.Paths, backups backup.Snapshotter, rec journal.Recorder, logger *zap.Logger) *Service {
	return &Service{paths: paths, backups: backups, journal: rec, logger: logger}
}

// Sync updates the selected entry fields from the identifier collection. An empty fields
// list selects DefaultFields. In dry-run mode nothing is written.
func (s *Service) Sync(ctx context.Context, fields []string, dryRun bool) (*Result, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	wanted := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		wanted[strings.ToLower(strings.TrimSpace(f))] = struct{}{}
	}

	lib, err := workspace.ReadLibrary(s.paths.Library)
	if err != nil {
		return nil, err
	}
	ids, err := workspace.ReadIdentifiers(s.paths.Identifiers)
	if err != nil {
		return nil, err
	}

	res := &Result{DryRun: dryRun}
	for _, key := range ids.Keys() {
		entry := lib.Entry(key)
		if entry == nil {
			s.logger.Warn("Identifier record has no library entry", zap.String("key", key))
			res.Orphans = append(res.Orphans, key)
			continue
		}

		rec, _ := ids.Get(key)
		names := make([]string, 0, len(rec.Identifiers))
		for name := range rec.Identifiers {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			field := FieldFor(name)
			if _, ok := wanted[field]; !ok {
				continue
			}
			current, present := entry.Get(field)
			next := NormalizeValue(field, rec.Identifiers[name], name)
			if !NeedsUpdate(field, current, present, next) {
				continue
			}

			c := Change{Key: key, Field: field, Old: current, HadOld: present, New: next}
			res.Changes = append(res.Changes, c)
			s.logger.Info("Field update", zap.String("change", c.String()), zap.Bool("dry_run", dryRun))
			if !dryRun {
				entry.Set(field, next)
			}
		}
	}

	if dryRun || len(res.Changes) == 0 {
		return res, nil
	}

	if _, err := s.backups.Snapshot(ctx, s.paths.Library); err != nil {
		return nil, err
	}
	if err := s.paths.SaveLibrary(lib); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(res.Changes))
	seen := map[string]struct{}{}
	for _, c := range res.Changes {
		if _, ok := seen[c.Key]; !ok {
			seen[c.Key] = struct{}{}
			keys = append(keys, c.Key)
		}
	}
	_ = s.journal.Record(ctx, journal.ActionSync, keys, fmt.Sprintf("%d field updates", len(res.Changes)))
	s.logger.Info("Synced identifiers", zap.Int("changes", len(res.Changes)), zap.Int("entries", len(keys)))
	return res, nil
}
