package backup

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"biblib/core/storage"

	"github.com/minio/minio-go/v7"
)

// Mirror stores snapshots in a bucket under prefix/<snapshot>/<file>.
type Mirror struct {
	client storage.Client
	bucket string
	prefix string
	region string
}

// NewMirror creates a mirror writing to bucket under prefix.
func NewMirror(client storage.Client, bucket, prefix, region string) *Mirror {
	return &Mirror{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/"), region: region}
}

// Upload copies the files of one snapshot to the bucket, creating it if needed.
func (m *Mirror) Upload(ctx context.Context, snapshot string, files []string) error {
	if err := storage.EnsureBucket(ctx, m.client, m.bucket, m.region); err != nil {
		return err
	}

	for _, file := range files {
		if err := m.put(ctx, snapshot, file); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mirror) put(ctx context.Context, snapshot, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	object := m.objectName(snapshot, filepath.Base(file))
	_, err = m.client.PutObject(ctx, m.bucket, object, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType(file),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}
	return nil
}

// List returns the names of mirrored snapshots, oldest first.
func (m *Mirror) List(ctx context.Context) ([]string, error) {
	names, _, err := m.index(ctx)
	return names, err
}

// Prune removes all but the newest keep snapshots and returns the removed names.
func (m *Mirror) Prune(ctx context.Context, keep int) ([]string, error) {
	names, objects, err := m.index(ctx)
	if err != nil {
		return nil, err
	}
	if keep <= 0 || len(names) <= keep {
		return nil, nil
	}
	stale := names[:len(names)-keep]

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan minio.ObjectInfo)
	go func() {
		defer close(ch)
		for _, name := range stale {
			for _, key := range objects[name] {
				select {
				case ch <- minio.ObjectInfo{Key: key}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	var firstErr error
	for rerr := range m.client.RemoveObjects(ctx, m.bucket, ch, minio.RemoveObjectsOptions{}) {
		if firstErr == nil {
			firstErr = fmt.Errorf("failed to remove %s: %w", rerr.ObjectName, rerr.Err)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return stale, nil
}

// index groups the object keys under the prefix by snapshot name.
func (m *Mirror) index(ctx context.Context) ([]string, map[string][]string, error) {
	listPrefix := ""
	if m.prefix != "" {
		listPrefix = m.prefix + "/"
	}

	objects := make(map[string][]string)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: listPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		rest := strings.TrimPrefix(obj.Key, listPrefix)
		name, _, ok := strings.Cut(rest, "/")
		if !ok || !strings.HasPrefix(name, Prefix) {
			continue
		}
		objects[name] = append(objects[name], obj.Key)
	}

	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	// Timestamps sort lexically
	sort.Strings(names)
	return names, objects, nil
}

func (m *Mirror) objectName(snapshot, file string) string {
	if m.prefix == "" {
		return path.Join(snapshot, file)
	}
	return path.Join(m.prefix, snapshot, file)
}

func contentType(file string) string {
	switch filepath.Ext(file) {
	case ".json":
		return "application/json"
	case ".bib":
		return "application/x-bibtex"
	default:
		return "application/octet-stream"
	}
}
