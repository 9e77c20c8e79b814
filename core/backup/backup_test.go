package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"biblib/core/storage/mocks"
	"biblib/core/workspace"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixed = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func clock() time.Time { return fixed }

func stores(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	lib := filepath.Join(dir, "bib", "library.bib")
	ids := filepath.Join(dir, "data", "identifier_collection.json")
	order := filepath.Join(dir, "data", "add_order.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(lib), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(ids), 0o755))
	require.NoError(t, os.WriteFile(lib, []byte("@book{a,\n}\n"), 0o644))
	require.NoError(t, os.WriteFile(ids, []byte("{}\n"), 0o644))
	return dir, []string{lib, ids, order}
}

func TestSnapshot(t *testing.T) {
	dir, files := stores(t)
	staging := filepath.Join(dir, "staging")

	svc := NewService(staging, zap.NewNop(), WithClock(clock))
	path, err := svc.Snapshot(context.Background(), files...)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(staging, "backup-20240309-140507"), path)

	data, err := os.ReadFile(filepath.Join(path, "library.bib"))
	require.NoError(t, err)
	assert.Equal(t, "@book{a,\n}\n", string(data))
	assert.FileExists(t, filepath.Join(path, "identifier_collection.json"))
	assert.NoFileExists(t, filepath.Join(path, "add_order.json"))
}

func TestSnapshot_SameSecond(t *testing.T) {
	dir, files := stores(t)
	staging := filepath.Join(dir, "staging")
	svc := NewService(staging, zap.NewNop(), WithClock(clock))

	first, err := svc.Snapshot(context.Background(), files...)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(files[0], []byte("@book{b,\n}\n"), 0o644))
	second, err := svc.Snapshot(context.Background(), files...)
	require.NoError(t, err)
	third, err := svc.Snapshot(context.Background(), files...)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(staging, "backup-20240309-140507-02"), second)
	assert.Equal(t, filepath.Join(staging, "backup-20240309-140507-03"), third)

	data, err := os.ReadFile(filepath.Join(first, "library.bib"))
	require.NoError(t, err)
	assert.Equal(t, "@book{a,\n}\n", string(data))
	data, err = os.ReadFile(filepath.Join(second, "library.bib"))
	require.NoError(t, err)
	assert.Equal(t, "@book{b,\n}\n", string(data))
}

func TestSnapshot_Failure(t *testing.T) {
	dir, files := stores(t)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	svc := NewService(filepath.Join(blocker, "staging"), zap.NewNop(), WithClock(clock))
	_, err := svc.Snapshot(context.Background(), files...)
	require.Error(t, err)
	assert.True(t, errors.Is(err, workspace.ErrBackup))
}

func TestSnapshot_Mirror(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads each file", func(t *testing.T) {
		dir, files := stores(t)
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "bib").Return(true, nil)
		m.On("PutObject", mock.Anything, "bib", "backups/backup-20240309-140507/library.bib", mock.Anything, int64(11), mock.Anything).
			Return(minio.UploadInfo{}, nil)
		m.On("PutObject", mock.Anything, "bib", "backups/backup-20240309-140507/identifier_collection.json", mock.Anything, int64(3), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		svc := NewService(dir, zap.NewNop(), WithClock(clock), WithMirror(NewMirror(m, "bib", "/backups/", ""), true, 0))
		_, err := svc.Snapshot(ctx, files...)
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("optional mirror failure is tolerated", func(t *testing.T) {
		dir, files := stores(t)
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "bib").Return(false, errors.New("connection refused"))

		svc := NewService(dir, zap.NewNop(), WithClock(clock), WithMirror(NewMirror(m, "bib", "backups", ""), false, 0))
		path, err := svc.Snapshot(ctx, files...)
		require.NoError(t, err)
		assert.DirExists(t, path)
	})

	t.Run("required mirror failure aborts", func(t *testing.T) {
		dir, files := stores(t)
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "bib").Return(true, nil)
		m.On("PutObject", mock.Anything, "bib", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("access denied"))

		svc := NewService(dir, zap.NewNop(), WithClock(clock), WithMirror(NewMirror(m, "bib", "backups", ""), true, 0))
		_, err := svc.Snapshot(ctx, files...)
		require.Error(t, err)
		assert.True(t, errors.Is(err, workspace.ErrBackup))
		assert.ErrorContains(t, err, "access denied")
	})
}
