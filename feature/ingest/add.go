package ingest

import (
	"context"
	"os"
	"strings"

	"biblib/core/backup"
	"biblib/core/bibtex"
	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/journal"
	"biblib/feature/labels"

	"go.uber.org/zap"
)

// Service ingests staged pairs into one workspace.
type Service struct {
	paths   workspace.Paths
	backups backup.Snapshotter
	journal journal.Recorder
	logger  *zap.Logger
}

// NewService creates an ingest service.
func NewService(paths workspace.Paths, backups backup.Snapshotter, rec journal.Recorder, logger *zap.Logger) *Service {
	return &Service{paths: paths, backups: backups, journal: rec, logger: logger}
}

// AddResult summarizes one Add run.
type AddResult struct {
	// Processed lists the slugs whose pair contributed at least one entry.
	Processed []string
	// Added lists the new keys in the order they were appended.
	Added []string
	// Skipped counts staged entries that were not accepted.
	Skipped int
	// Backup is the snapshot directory, empty when nothing was written.
	Backup string
	// Report is the consistency check taken after writing.
	Report *reconcile.Report
}

type accepted struct {
	pair    Pair
	entries []*bibtex.Entry
	records []workspace.IdentifierRecord
}

// Add appends every acceptable staged entry to the three stores. Nothing is written when
// no entry was accepted. A failed backup aborts before any store or staging file is
// touched.
func (s *Service) Add(ctx context.Context) (*AddResult, error) {
	res := &AddResult{}

	pairs, err := FindPairs(s.paths.Staging, s.logger)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		s.logger.Info("No staging pairs found", zap.String("path", s.paths.Staging))
		return res, nil
	}

	snap, err := s.paths.LoadOrEmpty()
	if err != nil {
		return nil, err
	}
	existing := existingKeys(snap)

	var batch []accepted
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, skipped := s.processPair(pair, existing)
		res.Skipped += skipped
		if len(a.entries) == 0 {
			s.logger.Error("No entries accepted from staging pair", zap.String("slug", pair.Slug))
			continue
		}
		batch = append(batch, a)
	}
	if len(batch) == 0 {
		s.logger.Info("No new entries to add")
		return res, nil
	}

	dir, err := s.backups.Snapshot(ctx, s.paths.Library, s.paths.Identifiers, s.paths.Order)
	if err != nil {
		return nil, err
	}
	res.Backup = dir

	for _, a := range batch {
		for i, e := range a.entries {
			snap.Library.Add(e)
			snap.Identifiers.Set(e.Key, a.records[i])
			snap.Order = append(snap.Order, e.Key)
			res.Added = append(res.Added, e.Key)
		}
		res.Processed = append(res.Processed, a.pair.Slug)
	}

	if err := s.paths.Save(snap); err != nil {
		return nil, err
	}
	s.logger.Info("Added entries", zap.Int("count", len(res.Added)), zap.Strings("pairs", res.Processed))

	for _, a := range batch {
		for _, f := range a.pair.Files() {
			if err := os.Remove(f); err != nil {
				s.logger.Warn("Failed to remove staging file", zap.String("path", f), zap.Error(err))
			}
		}
	}

	_ = s.journal.Record(ctx, journal.ActionAdd, res.Added, strings.Join(res.Processed, ", "))

	report := reconcile.Check(snap.Library.Keys(), snap.Identifiers.Keys(), snap.Order)
	res.Report = &report
	if report.Consistent() {
		s.logger.Info("Stores are consistent", zap.Int("keys", len(report.Results)))
	} else {
		s.logger.Error("Stores are inconsistent after add")
	}
	return res, nil
}

// processPair labels the entries of one pair. Accepted keys are added to existing.
func (s *Service) processPair(pair Pair, existing map[string]struct{}) (accepted, int) {
	out := accepted{pair: pair}
	log := s.logger.With(zap.String("slug", pair.Slug))

	lib, err := workspace.ReadLibrary(pair.Bib)
	if err != nil {
		log.Error("Failed to read staged entries", zap.Error(err))
		return out, 0
	}
	entries := lib.Entries()
	if len(entries) == 0 {
		log.Warn("Staged file holds no entries", zap.String("path", pair.Bib))
		return out, 0
	}
	ids, err := workspace.ReadIdentifiers(pair.JSON)
	if err != nil {
		log.Error("Failed to read staged identifiers", zap.Error(err))
		return out, len(entries)
	}

	skipped := 0
	for _, e := range entries {
		rec, ok := ids.Get(e.Key)
		if !ok {
			log.Error("No identifier record for staged entry", zap.String("key", e.Key))
			skipped++
			continue
		}

		label := labels.Generate(e, &rec)
		if _, taken := existing[label]; taken {
			log.Warn("Skipping duplicate key", zap.String("key", e.Key), zap.String("label", label))
			skipped++
			continue
		}

		entry := e.Clone()
		entry.Key = label
		existing[label] = struct{}{}
		out.entries = append(out.entries, entry)
		out.records = append(out.records, rec)
		log.Debug("Accepted staged entry", zap.String("key", e.Key), zap.String("label", label))
	}
	return out, skipped
}

func existingKeys(snap *workspace.Snapshot) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, k := range snap.Library.Keys() {
		keys[k] = struct{}{}
	}
	for _, k := range snap.Identifiers.Keys() {
		keys[k] = struct{}{}
	}
	for _, k := range snap.Order {
		keys[k] = struct{}{}
	}
	return keys
}
