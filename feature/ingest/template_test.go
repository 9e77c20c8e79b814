package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"biblib/core/bibtex"
	"biblib/core/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractIdentifiers(t *testing.T) {
	e := &bibtex.Entry{Type: "article", Key: "x", Fields: []bibtex.Field{
		{Name: "title", Value: "T"},
		{Name: "ArXiv", Value: "arXiv:2101.00001"},
		{Name: "DOI", Value: "https://doi.org/10.1/b"},
		{Name: "mathscinet", Value: " MR123 "},
		{Name: "url", Value: "  "},
	}}

	ids, seen := ExtractIdentifiers(e)
	assert.Equal(t, map[string]string{
		"eprint":   "2101.00001",
		"doi":      "10.1/b",
		"mrnumber": "MR123",
	}, ids)
	assert.Equal(t, []string{"eprint", "doi", "mrnumber"}, seen)
}

func TestSelectMain(t *testing.T) {
	tests := []struct {
		name string
		ids  map[string]string
		seen []string
		want string
	}{
		{"doi first", map[string]string{"url": "u", "doi": "d"}, []string{"url", "doi"}, "doi"},
		{"isbn over url", map[string]string{"url": "u", "isbn": "i"}, []string{"url", "isbn"}, "isbn"},
		{"mrnumber over url", map[string]string{"url": "u", "mrnumber": "m"}, []string{"url", "mrnumber"}, "mrnumber"},
		{"fallback to first", map[string]string{"zbl": "z", "eprint": "e"}, []string{"zbl", "eprint"}, "zbl"},
		{"none", map[string]string{}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMain(tt.ids, tt.seen))
		})
	}
}

func TestTemplate(t *testing.T) {
	p := workspace.NewPaths(t.TempDir())
	stage(t, p, "2024-01-02-new", "@book{b,\n  isbn = {978-0},\n  url = {https://x}\n}\n\n@misc{c,\n  title = {No ids}\n}\n", "")
	stage(t, p, "2024-01-03-kept", "@book{d,\n  doi = {10.1/d}\n}\n", `{"d": {"main_identifier": "", "identifiers": {}}}`)
	stage(t, p, "2024-01-04-broken", "@book{e,\n  doi = {10.1/e\n", "")
	write(t, filepath.Join(p.Staging, "notes.bib"), "@book{n,\n  doi = {1}\n}\n")

	journal := &fakeJournal{}
	svc := NewService(p, &fakeBackups{}, journal, zap.NewNop())

	res, err := svc.Template(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-02-new.json"}, res.Generated)
	assert.Equal(t, []string{"template"}, journal.actions)

	draft, err := workspace.ReadIdentifiers(filepath.Join(p.Staging, "2024-01-02-new.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, draft.Keys())
	b, _ := draft.Get("b")
	assert.Equal(t, workspace.IdentifierRecord{MainIdentifier: "isbn", Identifiers: map[string]string{"isbn": "978-0", "url": "https://x"}}, b)
	c, _ := draft.Get("c")
	assert.Equal(t, "", c.MainIdentifier)

	kept, err := os.ReadFile(filepath.Join(p.Staging, "2024-01-03-kept.json"))
	require.NoError(t, err)
	assert.Contains(t, string(kept), `"main_identifier": ""`)
	assert.NoFileExists(t, filepath.Join(p.Staging, "2024-01-04-broken.json"))
	assert.NoFileExists(t, filepath.Join(p.Staging, "notes.json"))

	t.Run("overwrite", func(t *testing.T) {
		res, err := svc.Template(context.Background(), true)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-02-new.json", "2024-01-03-kept.json"}, res.Generated)

		kept, err := workspace.ReadIdentifiers(filepath.Join(p.Staging, "2024-01-03-kept.json"))
		require.NoError(t, err)
		d, _ := kept.Get("d")
		assert.Equal(t, "doi", d.MainIdentifier)
	})
}

func TestTemplate_NoStaging(t *testing.T) {
	svc := NewService(workspace.NewPaths(t.TempDir()), &fakeBackups{}, &fakeJournal{}, zap.NewNop())
	res, err := svc.Template(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, res.Generated)
}
