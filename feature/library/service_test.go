package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"biblib/core/metrics"
	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/labels"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const library = `@book{smith2020,
  author = {Smith, John},
  title = {Collected Works},
  year = {2020}
}

@book{bredon-1993-7908a921,
  author = {Bredon, Glen E.},
  title = {Topology and Geometry},
  year = {1993}
}
`

const identifiers = `{
  "smith2020": {"main_identifier": "", "identifiers": {}},
  "bredon-1993-7908a921": {"main_identifier": "doi", "identifiers": {"doi": "10.1007/978-1-4757-6848-0"}}
}`

func seed(t *testing.T, order string) workspace.Paths {
	t.Helper()
	p := workspace.NewPaths(t.TempDir())
	for path, content := range map[string]string{p.Library: library, p.Identifiers: identifiers, p.Order: order} {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return p
}

func newService(p workspace.Paths, m *metrics.Metrics) *Service {
	return NewService(p, reconcile.NewCache[*workspace.Snapshot](time.Minute), m, zap.NewNop())
}

func TestService_Consistency(t *testing.T) {
	svc := newService(seed(t, `["bredon-1993-7908a921"]`), nil)

	report, err := svc.Consistency(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Consistent)
	assert.Equal(t, []string{"missing from order: smith2020"}, report.Problems)
	assert.Equal(t, []string{"smith2020"}, report.Report.Order.MissingFrom)
}

func TestService_Labels(t *testing.T) {
	svc := newService(seed(t, `["bredon-1993-7908a921", "smith2020"]`), nil)

	report, err := svc.Labels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, labels.Assignments{{Key: "smith2020", Label: "smith-2020-2a30530b"}}, report.Mismatches)
}

func TestService_Entries(t *testing.T) {
	svc := newService(seed(t, `["bredon-1993-7908a921", "smith2020"]`), nil)
	ctx := context.Background()

	entries, err := svc.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []EntrySummary{
		{Key: "smith2020", Type: "book", Title: "Collected Works", Label: "smith-2020-2a30530b"},
		{Key: "bredon-1993-7908a921", Type: "book", Title: "Topology and Geometry", Label: "bredon-1993-7908a921", Canonical: true},
	}, entries)

	detail, err := svc.Entry(ctx, "bredon-1993-7908a921")
	require.NoError(t, err)
	assert.Equal(t, "Bredon, Glen E.", detail.Fields["author"])
	require.NotNil(t, detail.Identifiers)
	assert.Equal(t, "doi", detail.Identifiers.MainIdentifier)
	assert.True(t, detail.Presence.Complete())

	_, err = svc.Entry(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrUnknownKey))
	assert.True(t, errors.Is(err, workspace.ErrNotFound))
}

func TestService_MissingStore(t *testing.T) {
	p := seed(t, `[]`)
	require.NoError(t, os.Remove(p.Order))
	svc := newService(p, nil)

	_, err := svc.Consistency(context.Background())
	assert.True(t, errors.Is(err, workspace.ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnknownKey))
}

func TestService_SharedLoad(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := seed(t, `["bredon-1993-7908a921", "smith2020"]`)
	m := metrics.New()
	svc := newService(p, m)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := svc.Consistency(context.Background())
			assert.NoError(t, err)
			assert.True(t, report.Consistent)
		}()
	}
	wg.Wait()

	// Later edits are not visible until the cache entry expires.
	require.NoError(t, os.WriteFile(p.Order, []byte(`[]`), 0o644))
	report, err := svc.Consistency(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Consistent)

	families, err := m.Registry.Gather()
	require.NoError(t, err)
	gauges := map[string]float64{}
	for _, f := range families {
		if f.GetName() != "biblib_store_keys" {
			continue
		}
		for _, metric := range f.GetMetric() {
			gauges[metric.GetLabel()[0].GetValue()] = metric.GetGauge().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{"library": 2, "identifiers": 2, "order": 2}, gauges)
}
