// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface the backup mirror needs:
// bucket checks, uploads, listing and batch deletion. Both AWS S3 and self-hosted MinIO
// endpoints work.
//
// The Client interface makes storage interactions easy to mock in unit tests (see
// core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
