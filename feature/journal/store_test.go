package journal

import (
	"context"
	"errors"
	"testing"

	"biblib/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_RecordSQL(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `journal_events`").
		WithArgs(sqlmock.AnyArg(), ActionFix, "a,b", 2, "renamed").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	store := NewStore(db, zap.NewNop())
	require.NoError(t, store.Record(context.Background(), ActionFix, []string{"a", "b"}, "renamed"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RecordSQLError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `journal_events`").WillReturnError(errors.New("read-only"))
	mock.ExpectRollback()

	err := NewStore(db, zap.NewNop()).Record(context.Background(), ActionAdd, nil, "")
	assert.ErrorContains(t, err, "failed to record add event")
}

func TestStore_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	ctx := context.Background()
	store := NewStore(db, zap.NewNop())
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.Record(ctx, ActionAdd, []string{"smith-2020-2a30530b"}, "2024-01-01-smith"))
	require.NoError(t, store.Record(ctx, ActionSort, nil, "alphabetical"))
	require.NoError(t, store.Record(ctx, ActionFix, []string{"a", "b"}, ""))

	events, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, ActionFix, events[0].Action)
	assert.Equal(t, []string{"a", "b"}, events[0].Keys())
	assert.Equal(t, 2, events[0].Count)
	assert.Equal(t, ActionSort, events[1].Action)
	assert.Nil(t, events[1].Keys())
	assert.False(t, events[1].CreatedAt.IsZero())

	all, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, string, []string, string) error {
	return errors.New("database is locked")
}

func TestSafe(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := Safe(failingRecorder{}, zap.New(core))

	assert.NoError(t, r.Record(context.Background(), ActionSync, []string{"k"}, ""))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to write journal", logs.All()[0].Message)

	assert.NoError(t, Nop{}.Record(context.Background(), ActionSync, nil, ""))
}
