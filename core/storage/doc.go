// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so that relation snapshots
// can be written to AWS S3 or a self-hosted MinIO instance, and so that tests can use
// the testify mock in core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: EnsureBucket creates the snapshot bucket on first use.
//   - PutObject / GetObject: write and read snapshot documents.
//   - ListObjects: list the snapshots of a relation by prefix.
//   - RemoveObject / RemoveObjects: delete one or all snapshots of a relation.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
