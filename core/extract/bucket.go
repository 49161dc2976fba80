package extract

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"plcsync/core/entity"
	"plcsync/core/storage"
)

// FromBucket extracts a snapshot from per-artifact objects stored under a
// bucket prefix. Objects whose keys do not follow the export naming
// convention are skipped, matching FromDir.
func FromBucket(ctx context.Context, client storage.Client, bucket, prefix string) (*entity.EntitySet, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	builder := entity.NewBuilder()

	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects under %s/%s: %w", bucket, prefix, obj.Err)
		}

		filename := path.Base(obj.Key)
		if _, _, ok := entity.KindFromFilename(filename); !ok {
			continue
		}

		content, err := readObject(ctx, client, bucket, obj.Key)
		if err != nil {
			return nil, err
		}

		unit, ok, err := unitFromFile(filename, content)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if err := builder.Add(unit); err != nil {
			return nil, err
		}
	}

	return builder.Build(), nil
}

func readObject(ctx context.Context, client storage.Client, bucket, key string) (string, error) {
	reader, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return string(content), nil
}

// ObjectKey returns the storage key for a unit under a prefix.
func ObjectKey(prefix string, unit entity.CodeUnit) string {
	filename := ArtifactFilename(unit)
	if prefix == "" {
		return filename
	}
	return strings.TrimSuffix(prefix, "/") + "/" + filename
}
