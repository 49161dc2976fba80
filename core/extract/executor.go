package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"

	"plcsync/core/entity"
	"plcsync/core/reconcile"
	"plcsync/core/storage"
)

// DirExecutor applies plan operations to a directory of per-artifact files,
// the filesystem twin of FromDir/WriteDir.
type DirExecutor struct {
	Dir string
}

func (e *DirExecutor) Submit(ctx context.Context, op reconcile.PlanOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unit := entity.CodeUnit{
		QualifiedName: op.QualifiedName,
		Kind:          op.Kind,
		Body:          entity.Normalize(op.NewBody),
	}
	path := filepath.Join(e.Dir, ArtifactFilename(unit))

	switch op.Type {
	case reconcile.OpCreate, reconcile.OpUpdate:
		if err := os.WriteFile(path, []byte(RenderArtifact(unit)), 0o644); err != nil {
			return &reconcile.ExecutionFailure{QualifiedName: op.QualifiedName, Detail: err.Error()}
		}
	case reconcile.OpDelete:
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &reconcile.ExecutionFailure{QualifiedName: op.QualifiedName, Detail: err.Error()}
		}
	default:
		return fmt.Errorf("unknown op type %q", op.Type)
	}
	return nil
}

// BucketExecutor applies plan operations to per-artifact objects under a
// bucket prefix.
type BucketExecutor struct {
	Client storage.Client
	Bucket string
	Prefix string
}

func (e *BucketExecutor) Submit(ctx context.Context, op reconcile.PlanOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unit := entity.CodeUnit{
		QualifiedName: op.QualifiedName,
		Kind:          op.Kind,
		Body:          entity.Normalize(op.NewBody),
	}
	key := ObjectKey(e.Prefix, unit)

	switch op.Type {
	case reconcile.OpCreate, reconcile.OpUpdate:
		content := RenderArtifact(unit)
		_, err := e.Client.PutObject(ctx, e.Bucket, key,
			strings.NewReader(content), int64(len(content)),
			minio.PutObjectOptions{ContentType: "text/plain"})
		if err != nil {
			return &reconcile.ExecutionFailure{QualifiedName: op.QualifiedName, Detail: err.Error()}
		}
	case reconcile.OpDelete:
		if err := e.Client.RemoveObject(ctx, e.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return &reconcile.ExecutionFailure{QualifiedName: op.QualifiedName, Detail: err.Error()}
		}
	default:
		return fmt.Errorf("unknown op type %q", op.Type)
	}
	return nil
}

// ExecutorFor builds the executor matching a target reference, the write
// side of Resolve. XML exports are read-only snapshots and cannot be a
// reconciliation target.
func ExecutorFor(client storage.Client, ref string) (reconcile.Executor, error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		if client == nil {
			return nil, fmt.Errorf("target %s requires a configured storage client", ref)
		}
		bucket, prefix, err := splitBucketRef(ref)
		if err != nil {
			return nil, err
		}
		return &BucketExecutor{Client: client, Bucket: bucket, Prefix: prefix}, nil
	case strings.HasSuffix(ref, ".xml"):
		return nil, fmt.Errorf("target %s: XML exports are read-only, reconcile against a directory or bucket", ref)
	default:
		return &DirExecutor{Dir: ref}, nil
	}
}
