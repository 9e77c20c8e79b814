package library_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/library"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newApp(t *testing.T, root string) *fiber.App {
	t.Helper()
	app := fiber.New()
	f := library.NewFeature(workspace.NewPaths(root), reconcile.NewCache[*workspace.Snapshot](0), nil, zap.NewNop())
	require.NoError(t, f.Load(app))
	assert.Equal(t, "library", f.Name())
	assert.True(t, f.IsEnabled())
	return app
}

func TestHandler(t *testing.T) {
	root := t.TempDir()
	writeWorkspace(t, root)
	app := newApp(t, root)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "consistency",
			path:       "/library/consistency",
			wantStatus: fiber.StatusOK,
			check: func(t *testing.T, body []byte) {
				var r library.ConsistencyReport
				require.NoError(t, json.Unmarshal(body, &r))
				assert.True(t, r.Consistent)
				assert.Empty(t, r.Problems)
			},
		},
		{
			name:       "labels",
			path:       "/library/labels",
			wantStatus: fiber.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"total": 1, "mismatches": [{"key": "a", "label": "ann-2021-ca978112"}]}`, string(body))
			},
		},
		{
			name:       "entries",
			path:       "/library/entries",
			wantStatus: fiber.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `[{"key": "a", "type": "book", "label": "ann-2021-ca978112", "canonical": false}]`, string(body))
			},
		},
		{
			name:       "entry",
			path:       "/library/entries/a",
			wantStatus: fiber.StatusOK,
			check: func(t *testing.T, body []byte) {
				var d library.EntryDetail
				require.NoError(t, json.Unmarshal(body, &d))
				assert.Equal(t, "Ann, A", d.Fields["author"])
				assert.True(t, d.Presence.Complete())
			},
		},
		{
			name:       "unknown entry",
			path:       "/library/entries/ghost",
			wantStatus: fiber.StatusNotFound,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `unknown key \"ghost\"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			tt.check(t, body)
		})
	}
}

func TestHandler_BrokenWorkspace(t *testing.T) {
	app := newApp(t, t.TempDir())

	resp, err := app.Test(httptest.NewRequest("GET", "/library/consistency", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func writeWorkspace(t *testing.T, root string) {
	t.Helper()
	p := workspace.NewPaths(root)
	require.NoError(t, workspace.WriteFiles(
		workspace.File{Path: p.Library, Data: []byte("@book{a,\n  author = {Ann, A},\n  year = {2021}\n}\n")},
		workspace.File{Path: p.Identifiers, Data: []byte(`{"a": {"main_identifier": "", "identifiers": {}}}`)},
		workspace.File{Path: p.Order, Data: []byte(`["a"]`)},
	))
}
