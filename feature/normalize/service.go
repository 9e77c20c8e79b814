package normalize

import (
	"context"
	"fmt"

	"biblib/core/backup"
	"biblib/core/workspace"
	"biblib/feature/journal"

	"go.uber.org/zap"
)

// Report describes one normalization run.
type Report struct {
	Rule    Rule     `json:"rule"`
	DryRun  bool     `json:"dry_run"`
	Changes []Change `json:"changes"`
	// Flagged are entries that need a manual look.
	Flagged []string `json:"flagged,omitempty"`
}

// Keys returns the modified entry keys in library order, each once.
func (r *Report) Keys() []string {
	var keys []string
	seen := map[string]struct{}{}
	for _, c := range r.Changes {
		if _, ok := seen[c.Key]; ok {
			continue
		}
		seen[c.Key] = struct{}{}
		keys = append(keys, c.Key)
	}
	return keys
}

// Service normalizes the library of one workspace.
type Service struct {
	paths   workspace.Paths
	backups backup.Snapshotter
	journal journal.Recorder
	logger  *zap.Logger
}

// NewService creates a normalization service.
func NewService(paths workspace.Paths, backups backup.Snapshotter, rec journal.Recorder, logger *zap.Logger) *Service {
	return &Service{paths: paths, backups: backups, journal: rec, logger: logger}
}

// Normalize applies rule to every entry of the library. The library is written, after a
// backup, only when something changed and dryRun is false.
func (s *Service) Normalize(ctx context.Context, rule Rule, dryRun bool) (*Report, error) {
	fn := rule.apply()
	if fn == nil {
		return nil, fmt.Errorf("unknown normalization %q", rule)
	}

	lib, err := workspace.ReadLibrary(s.paths.Library)
	if err != nil {
		return nil, err
	}

	report := &Report{Rule: rule, DryRun: dryRun, Changes: []Change{}}
	for _, e := range lib.Entries() {
		changes, flagged := fn(e)
		if flagged {
			report.Flagged = append(report.Flagged, e.Key)
			if len(changes) == 0 {
				s.logger.Info("Entry needs manual review", zap.String("rule", string(rule)), zap.String("key", e.Key))
			}
		}
		for _, c := range changes {
			s.logger.Info("Normalized field", zap.String("rule", string(rule)), zap.String("change", c.String()))
		}
		report.Changes = append(report.Changes, changes...)
	}

	if len(report.Changes) == 0 {
		s.logger.Info("Nothing to normalize", zap.String("rule", string(rule)))
		return report, nil
	}
	if dryRun {
		return report, nil
	}

	if _, err := s.backups.Snapshot(ctx, s.paths.Library); err != nil {
		return nil, err
	}
	if err := s.paths.SaveLibrary(lib); err != nil {
		return nil, err
	}

	keys := report.Keys()
	_ = s.journal.Record(ctx, journal.ActionNormalize, keys, string(rule))
	s.logger.Info("Normalized library", zap.String("rule", string(rule)), zap.Int("entries", len(keys)))
	return report, nil
}
