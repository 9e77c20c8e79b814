package syncids

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"biblib/core/workspace"
	"biblib/feature/journal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		field, value, identifier, want string
	}{
		{"doi", "DOI: 10.1/x", "doi", "10.1/x"},
		{"doi", "10.1/x", "doi", "10.1/x"},
		{"eprint", "arXiv:2101.1", "arxiv", "2101.1"},
		{"eprint", "arxiv: 2101.1", "eprint", "2101.1"},
		{"url", "doi:10.1145/1", "acmdl_doi", "https://dl.acm.org/doi/10.1145/1"},
		{"url", "example.org/a", "url", "https://example.org/a"},
		{"url", "//example.org", "url", "https://example.org"},
		{"url", "http://example.org", "url", "http://example.org"},
		{"isbn", "978-0", "isbn13", "978-0"},
	}
	for _, tt := range tests {
		t.Run(tt.field+"/"+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.field, tt.value, tt.identifier))
		})
	}
}

func TestNeedsUpdate(t *testing.T) {
	assert.True(t, NeedsUpdate("doi", "", false, "10.1/x"))
	assert.False(t, NeedsUpdate("doi", "10.1/x", true, "10.1/x"))
	assert.True(t, NeedsUpdate("doi", "10.1/y", true, "10.1/x"))
	assert.False(t, NeedsUpdate("isbn", "0-387; 978-0", true, "978-0"))
	assert.False(t, NeedsUpdate("isbn", "0-387,978-0", true, "978-0"))
	assert.True(t, NeedsUpdate("isbn", "0-387", true, "978-0"))
}

func TestFieldFor(t *testing.T) {
	assert.Equal(t, "isbn", FieldFor("isbn13"))
	assert.Equal(t, "eprint", FieldFor("arxiv"))
	assert.Equal(t, "url", FieldFor("acmdl_doi"))
	assert.Equal(t, "zbl", FieldFor("zbl"))
}

const library = `@book{a,
  title = {A},
  doi = {old}
}

@book{b,
  isbn = {0-387, 978-0}
}
`

const identifiers = `{
  "a": {"main_identifier": "doi", "identifiers": {"doi": "doi:10.1/a", "arxiv": "arXiv:1", "mrnumber": "MR1"}},
  "b": {"main_identifier": "isbn13", "identifiers": {"isbn13": "978-0"}},
  "ghost": {"main_identifier": "", "identifiers": {}}
}`

type recordingBackups struct{ calls int }

func (r *recordingBackups) Snapshot(ctx context.Context, files ...string) (string, error) {
	r.calls++
	return "backup", nil
}

func seed(t *testing.T) workspace.Paths {
	t.Helper()
	p := workspace.NewPaths(t.TempDir())
	require.NoError(t, os.MkdirAll(filepath.Dir(p.Library), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(p.Identifiers), 0o755))
	require.NoError(t, os.WriteFile(p.Library, []byte(library), 0o644))
	require.NoError(t, os.WriteFile(p.Identifiers, []byte(identifiers), 0o644))
	return p
}

func TestSync(t *testing.T) {
	p := seed(t)
	backups := &recordingBackups{}
	svc := NewService(p, backups, journal.Nop{}, zap.NewNop())

	res, err := svc.Sync(context.Background(), nil, false)
	require.NoError(t, err)

	assert.Equal(t, []Change{
		{Key: "a", Field: "eprint", New: "1"},
		{Key: "a", Field: "doi", Old: "old", HadOld: true, New: "10.1/a"},
		{Key: "a", Field: "mrnumber", New: "MR1"},
	}, res.Changes)
	assert.Equal(t, []string{"ghost"}, res.Orphans)
	assert.Equal(t, 1, backups.calls)
	assert.Equal(t, "a: doi 'old' -> '10.1/a'", res.Changes[1].String())

	lib, err := workspace.ReadLibrary(p.Library)
	require.NoError(t, err)
	a := lib.Entry("a")
	assert.Equal(t, "10.1/a", a.Value("doi"))
	assert.Equal(t, "1", a.Value("eprint"))
	assert.Equal(t, "0-387, 978-0", lib.Entry("b").Value("isbn"))

	again, err := svc.Sync(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Empty(t, again.Changes)
	assert.Equal(t, 1, backups.calls)
}

func TestSync_DryRunAndFields(t *testing.T) {
	p := seed(t)
	before, err := os.ReadFile(p.Library)
	require.NoError(t, err)

	backups := &recordingBackups{}
	svc := NewService(p, backups, journal.Nop{}, zap.NewNop())
	res, err := svc.Sync(context.Background(), []string{" DOI "}, true)
	require.NoError(t, err)

	require.Len(t, res.Changes, 1)
	assert.Equal(t, "doi", res.Changes[0].Field)
	assert.True(t, res.DryRun)
	assert.Zero(t, backups.calls)

	after, err := os.ReadFile(p.Library)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
