package extract

import (
	"context"
	"fmt"
	"strings"

	"plcsync/core/entity"
	"plcsync/core/storage"
)

// Resolve extracts a snapshot from a source reference:
//
//   - "s3://bucket/prefix" reads per-artifact objects from storage
//   - a path ending in ".xml" is parsed as a PLCopen export
//   - anything else is a directory of per-artifact files
//
// The storage client may be nil when no s3 reference is used.
func Resolve(ctx context.Context, client storage.Client, ref string) (*entity.EntitySet, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		if client == nil {
			return nil, fmt.Errorf("source %s requires a configured storage client", ref)
		}
		bucket, prefix, err := splitBucketRef(ref)
		if err != nil {
			return nil, err
		}
		return FromBucket(ctx, client, bucket, prefix)
	case strings.HasSuffix(ref, ".xml"):
		return FromXML(ref)
	default:
		return FromDir(ref)
	}
}

func splitBucketRef(ref string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(ref, "s3://")
	if rest == "" {
		return "", "", fmt.Errorf("invalid storage reference %q", ref)
	}
	parts := strings.SplitN(rest, "/", 2)
	bucket = parts[0]
	if len(parts) == 2 {
		prefix = parts[1]
	}
	if bucket == "" {
		return "", "", fmt.Errorf("invalid storage reference %q", ref)
	}
	return bucket, prefix, nil
}
