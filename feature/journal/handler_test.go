package journal

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"biblib/core/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFeature_Disabled(t *testing.T) {
	f := NewFeature(nil, zap.NewNop())
	assert.Equal(t, "journal", f.Name())
	assert.False(t, f.IsEnabled())
}

func TestHandleEvents(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := NewStore(db, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, store.Migrate(ctx))
	for _, action := range []string{ActionAdd, ActionSync, ActionNormalize} {
		require.NoError(t, store.Record(ctx, action, []string{"k"}, ""))
	}

	f := NewFeature(store, zap.NewNop())
	require.True(t, f.IsEnabled())
	app := fiber.New()
	require.NoError(t, f.Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/journal/events?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var events []Event
	require.NoError(t, json.Unmarshal(body, &events))
	require.Len(t, events, 2)
	assert.Equal(t, ActionNormalize, events[0].Action)
	assert.Equal(t, ActionSync, events[1].Action)
}
