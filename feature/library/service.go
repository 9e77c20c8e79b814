package library

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"biblib/core/metrics"
	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/labels"
	"biblib/feature/validate"

	"go.uber.org/zap"
)

const snapshotKey = "workspace"

// ErrUnknownKey is returned by Entry for a key absent from the library.
var ErrUnknownKey = errors.New("unknown key")

// Service builds reports from a cached snapshot of the stores.
type Service struct {
	paths   workspace.Paths
	cache   *reconcile.Cache[*workspace.Snapshot]
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a report service. m may be nil.
func NewService(paths workspace.Paths, cache *reconcile.Cache[*workspace.Snapshot], m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{paths: paths, cache: cache, metrics: m, logger: logger}
}

// snapshot returns the cached stores. Callers must not modify it.
func (s *Service) snapshot() (*workspace.Snapshot, error) {
	return s.cache.GetOrBuild(snapshotKey, func() (*workspace.Snapshot, error) {
		snap, err := s.paths.Load()
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Workspace loaded", zap.Int("entries", len(snap.Library.Entries())))
		if s.metrics != nil {
			s.metrics.SetStoreKeys(string(reconcile.SourceLibrary), len(snap.Library.Keys()))
			s.metrics.SetStoreKeys(string(reconcile.SourceIdentifiers), snap.Identifiers.Len())
			s.metrics.SetStoreKeys(string(reconcile.SourceOrder), len(snap.Order))
		}
		return snap, nil
	})
}

// Consistency reconciles the key sets of the stores.
func (s *Service) Consistency(ctx context.Context) (*ConsistencyReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	report := validate.CheckSnapshot(snap)
	problems := validate.Describe(report)
	if problems == nil {
		problems = []string{}
	}
	return &ConsistencyReport{Consistent: report.Consistent(), Problems: problems, Report: report}, nil
}

// Labels lists the entries whose key is not canonical.
func (s *Service) Labels(ctx context.Context) (*LabelsReport, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	all := labels.GenerateAll(snap.Library, snap.Identifiers)
	mismatches := all.Mismatches()
	if mismatches == nil {
		mismatches = labels.Assignments{}
	}
	return &LabelsReport{Total: len(all), Mismatches: mismatches}, nil
}

// Entries summarizes every entry in library order.
func (s *Service) Entries(ctx context.Context) ([]EntrySummary, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]EntrySummary, 0, len(snap.Library.Blocks))
	for _, a := range labels.GenerateAll(snap.Library, snap.Identifiers) {
		out = append(out, summarize(snap, a))
	}
	return out, nil
}

// Entry returns one entry. A missing key yields an ErrNotFound error wrapping ErrUnknownKey.
func (s *Service) Entry(ctx context.Context, key string) (*EntryDetail, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	e := snap.Library.Entry(key)
	if e == nil {
		return nil, workspace.NewError(workspace.ErrNotFound, "", fmt.Errorf("%w %q", ErrUnknownKey, key))
	}

	var rec *workspace.IdentifierRecord
	if r, ok := snap.Identifiers.Get(key); ok {
		rec = &r
	}
	a := labels.Assignment{Key: key, Label: labels.Generate(e, rec)}

	fields := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		fields[f.Name] = f.Value
	}

	detail := &EntryDetail{
		EntrySummary: summarize(snap, a),
		Fields:       fields,
		Identifiers:  rec,
		Presence:     presence(validate.CheckSnapshot(snap), key),
	}
	return detail, nil
}

func summarize(snap *workspace.Snapshot, a labels.Assignment) EntrySummary {
	e := snap.Library.Entry(a.Key)
	return EntrySummary{
		Key:       a.Key,
		Type:      e.Type,
		Title:     e.Value("title"),
		Label:     a.Label,
		Canonical: a.Matches(),
	}
}

func presence(r reconcile.Report, key string) reconcile.ReconcileResult {
	i := sort.Search(len(r.Results), func(i int) bool { return r.Results[i].ID >= key })
	if i < len(r.Results) && r.Results[i].ID == key {
		return r.Results[i]
	}
	return reconcile.ReconcileResult{ID: key}
}
