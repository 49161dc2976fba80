package cmd

import (
	"context"
	"fmt"
	"strings"

	"plcsync/core/config"
	"plcsync/core/database"
	"plcsync/core/entity"
	"plcsync/core/extract"
	"plcsync/core/logger"
	"plcsync/core/reconcile"
	"plcsync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles the lazily-connected collaborators a command needs.
// Storage and database connections are only opened when a reference
// actually requires them.
type runtime struct {
	cfg *config.Config
	log *zap.Logger

	client storage.Client
	db     *gorm.DB
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return &runtime{cfg: cfg, log: l}, nil
}

func (r *runtime) storageClient() (storage.Client, error) {
	if r.client != nil {
		return r.client, nil
	}
	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	r.client = client
	return client, nil
}

func (r *runtime) projectStore(ref string) (*database.ProjectStore, error) {
	if r.db == nil {
		db, err := database.Connect(r.cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		r.db = db
	}

	project := strings.TrimPrefix(ref, "db://")
	if project == "" {
		project = r.cfg.Database.Project
	}

	store := database.NewProjectStore(r.db, project)
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate code_units table: %w", err)
	}
	return store, nil
}

// snapshot extracts the snapshot behind any supported source reference.
func (r *runtime) snapshot(ctx context.Context, ref string) (*entity.EntitySet, error) {
	if strings.HasPrefix(ref, "db://") {
		store, err := r.projectStore(ref)
		if err != nil {
			return nil, err
		}
		return store.LoadEntitySet(ctx)
	}

	var client storage.Client
	if strings.HasPrefix(ref, "s3://") {
		c, err := r.storageClient()
		if err != nil {
			return nil, err
		}
		client = c
	}
	return extract.Resolve(ctx, client, ref)
}

// executor builds the executor for a reconciliation target reference.
func (r *runtime) executor(ref string) (reconcile.Executor, error) {
	if strings.HasPrefix(ref, "db://") {
		return r.projectStore(ref)
	}

	var client storage.Client
	if strings.HasPrefix(ref, "s3://") {
		c, err := r.storageClient()
		if err != nil {
			return nil, err
		}
		client = c
	}
	return extract.ExecutorFor(client, ref)
}
