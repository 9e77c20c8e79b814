package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"biblib/core/backup"
	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/journal"
	"biblib/feature/labels"

	"go.uber.org/zap"
)

// Service checks the workspace and repairs keys that drifted from their labels.
type Service struct {
	paths   workspace.Paths
	backups backup.Snapshotter
	journal journal.Recorder
	logger  *zap.Logger
}

// NewService creates a validation service for one workspace.
func NewService(paths workspace.Paths, backups backup.Snapshotter, rec journal.Recorder, logger *zap.Logger) *Service {
	return &Service{paths: paths, backups: backups, journal: rec, logger: logger}
}

// Result gathers every check of a validation run.
type Result struct {
	Report reconcile.Report
	// Mismatches are entries whose key differs from the generated label.
	Mismatches labels.Assignments
	// Dangling lists keys whose main identifier names no identifier.
	Dangling []string
}

// OK reports whether the stores are consistent and every key is canonical. Dangling main
// identifiers are warnings only.
func (r *Result) OK() bool {
	return r.Report.Consistent() && len(r.Mismatches) == 0
}

// Validate loads the stores and runs the consistency and label checks.
func (s *Service) Validate(ctx context.Context) (*Result, error) {
	snap, err := s.paths.Load()
	if err != nil {
		return nil, err
	}

	res := &Result{
		Report:     CheckSnapshot(snap),
		Mismatches: labels.GenerateAll(snap.Library, snap.Identifiers).Mismatches(),
		Dangling:   DanglingMainIdentifiers(snap.Identifiers),
	}

	s.logReport(res.Report)
	for _, m := range res.Mismatches {
		s.logger.Error("Key differs from generated label", zap.String("key", m.Key), zap.String("expected", m.Label))
	}
	for _, k := range res.Dangling {
		s.logger.Warn("Main identifier not among identifiers", zap.String("key", k))
	}
	if res.OK() {
		s.logger.Info("Workspace is valid", zap.Int("entries", res.Report.Library.Total))
	}
	return res, nil
}

// Consistency loads the stores and reconciles their key sets.
func (s *Service) Consistency(ctx context.Context) (reconcile.Report, error) {
	snap, err := s.paths.Load()
	if err != nil {
		return reconcile.Report{}, err
	}
	report := CheckSnapshot(snap)
	s.logReport(report)
	return report, nil
}

// Labels loads the stores and returns the entries whose key is not canonical.
func (s *Service) Labels(ctx context.Context) (labels.Assignments, error) {
	snap, err := s.paths.Load()
	if err != nil {
		return nil, err
	}
	return labels.GenerateAll(snap.Library, snap.Identifiers).Mismatches(), nil
}

// FixPlan is a rename plan together with the loaded stores it applies to.
type FixPlan struct {
	Snapshot *workspace.Snapshot
	Plan     *reconcile.ReconcilePlan
}

// PlanFix computes the renames that make every key canonical. The stores must be
// consistent; colliding labels yield the plan and an error of kind ErrCollision.
func (s *Service) PlanFix(ctx context.Context) (*FixPlan, error) {
	snap, err := s.paths.Load()
	if err != nil {
		return nil, err
	}

	report := CheckSnapshot(snap)
	if !report.Consistent() {
		s.logReport(report)
		return nil, InconsistencyError(report)
	}

	assignments := labels.GenerateAll(snap.Library, snap.Identifiers)
	candidates := make([]reconcile.Candidate, 0, len(assignments))
	for _, a := range assignments {
		candidates = append(candidates, reconcile.Candidate{Key: a.Key, Target: a.Label})
	}

	plan, err := reconcile.PlanRenames(candidates)
	return &FixPlan{Snapshot: snap, Plan: plan}, err
}

// ApplyFix backs up the stores, renames keys in all of them and writes them together.
// Nothing is written when the plan is empty, unconfirmed or a dry run.
func (s *Service) ApplyFix(ctx context.Context, fp *FixPlan, opts reconcile.ReconcileOptions) (int, error) {
	mutator := reconcile.MutatorFunc(func(ctx context.Context, renames map[string]string) error {
		if _, err := s.backups.Snapshot(ctx, s.paths.Library, s.paths.Identifiers, s.paths.Order); err != nil {
			return err
		}
		fp.Snapshot.RenameKeys(renames)
		return s.paths.Save(fp.Snapshot)
	})

	executed, err := reconcile.ApplyPlan(ctx, mutator, fp.Plan, opts)
	if err != nil {
		return 0, err
	}
	if executed == 0 {
		return 0, nil
	}

	renamed := make([]string, 0, executed)
	var detail []string
	for _, a := range fp.Plan.Actions {
		renamed = append(renamed, a.NewKey)
		detail = append(detail, a.Key+" -> "+a.NewKey)
		s.logger.Info("Renamed key", zap.String("from", a.Key), zap.String("to", a.NewKey))
	}
	_ = s.journal.Record(ctx, journal.ActionFix, renamed, strings.Join(detail, "; "))

	report := CheckSnapshot(fp.Snapshot)
	if !report.Consistent() {
		s.logReport(report)
		return executed, InconsistencyError(report)
	}
	return executed, nil
}

// CheckSnapshot reconciles the key sets of loaded stores.
func CheckSnapshot(snap *workspace.Snapshot) reconcile.Report {
	return reconcile.Check(snap.Library.Keys(), snap.Identifiers.Keys(), snap.Order)
}

// DanglingMainIdentifiers returns, sorted, the keys whose non-empty main identifier is not
// present in their identifiers.
func DanglingMainIdentifiers(ids *workspace.IdentifierCollection) []string {
	var out []string
	for _, k := range ids.Keys() {
		rec, _ := ids.Get(k)
		if rec.MainIdentifier == "" {
			continue
		}
		if _, ok := rec.Main(); !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Describe renders every non-empty set of a report, one line each.
func Describe(r reconcile.Report) []string {
	var lines []string
	for _, src := range r.Sources() {
		if len(src.MissingFrom) > 0 {
			lines = append(lines, fmt.Sprintf("missing from %s: %s", src.Source, strings.Join(src.MissingFrom, ", ")))
		}
		if len(src.OnlyIn) > 0 {
			lines = append(lines, fmt.Sprintf("only in %s: %s", src.Source, strings.Join(src.OnlyIn, ", ")))
		}
		if len(src.Duplicates) > 0 {
			lines = append(lines, fmt.Sprintf("duplicated in %s: %s", src.Source, strings.Join(src.Duplicates, ", ")))
		}
	}
	return lines
}

// InconsistencyError describes an inconsistent report as an ErrInconsistent error.
func InconsistencyError(r reconcile.Report) error {
	return workspace.NewError(workspace.ErrInconsistent, "", fmt.Errorf("%s", strings.Join(Describe(r), "; ")))
}

func (s *Service) logReport(r reconcile.Report) {
	for _, src := range r.Sources() {
		if len(src.MissingFrom) > 0 {
			s.logger.Error("Keys missing from store", zap.String("store", string(src.Source)), zap.Strings("keys", src.MissingFrom))
		}
		if len(src.OnlyIn) > 0 {
			s.logger.Error("Keys only in store", zap.String("store", string(src.Source)), zap.Strings("keys", src.OnlyIn))
		}
		if len(src.Duplicates) > 0 {
			s.logger.Error("Duplicate keys in store", zap.String("store", string(src.Source)), zap.Strings("keys", src.Duplicates))
		}
	}
	if r.Consistent() {
		s.logger.Info("Stores are consistent", zap.Int("keys", len(r.Results)))
	}
}
