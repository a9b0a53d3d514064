package checks

import (
	"context"
	"fmt"

	"relation-manager/core/storage"

	"github.com/minio/minio-go/v7"
)

// snapshotPrefix matches the layout written by the snapshot feature.
func snapshotPrefix(relation string) string {
	return "snapshots/" + relation + "/"
}

// CheckSnapshots returns the relations that have no snapshot in the bucket.
func CheckSnapshots(ctx context.Context, client storage.Client, bucket string, relations []string) ([]string, error) {
	missing := []string{}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	for _, name := range relations {
		opts := minio.ListObjectsOptions{
			Prefix:    snapshotPrefix(name),
			Recursive: true,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list snapshots of %s: %w", name, obj.Err)
			}
			found = true
			break
		}

		if !found {
			missing = append(missing, name)
		}
	}

	return missing, nil
}
