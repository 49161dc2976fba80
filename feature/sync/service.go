package sync

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"plcsync/core/database"
	"plcsync/core/diffset"
	"plcsync/core/entity"
	"plcsync/core/extract"
	"plcsync/core/reconcile"
	"plcsync/core/storage"
)

// Service performs snapshot extraction, diffing, and plan derivation for
// the HTTP surface.
type Service struct {
	client  storage.Client
	cache   *extract.SnapshotCache
	db      *gorm.DB
	project string
	logger  *zap.Logger
}

// NewService creates a new sync service. db may be nil when no database is
// configured; db:// references then fail with a clear error.
func NewService(client storage.Client, cache *extract.SnapshotCache, db *gorm.DB, project string, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		cache:   cache,
		db:      db,
		project: project,
		logger:  logger,
	}
}

// Snapshot extracts (or serves from cache) the snapshot behind a source
// reference.
func (s *Service) Snapshot(ctx context.Context, ref string) (*entity.EntitySet, error) {
	if project, ok := dbRef(ref); ok {
		store, err := s.projectStore(project)
		if err != nil {
			return nil, err
		}
		return store.LoadEntitySet(ctx)
	}
	return s.cache.Get(ctx, s.client, ref)
}

// Diff compares two source references.
func (s *Service) Diff(ctx context.Context, baseRef, targetRef string) (*diffset.DiffSet, error) {
	base, err := s.Snapshot(ctx, baseRef)
	if err != nil {
		return nil, err
	}
	target, err := s.Snapshot(ctx, targetRef)
	if err != nil {
		return nil, err
	}
	return diffset.Diff(base, target)
}

// Plan derives the reconciliation plan from a desired source against a
// target reference, without executing anything.
func (s *Service) Plan(ctx context.Context, desiredRef, targetRef string) (*reconcile.Plan, error) {
	desired, err := s.Snapshot(ctx, desiredRef)
	if err != nil {
		return nil, err
	}
	current, err := s.Snapshot(ctx, targetRef)
	if err != nil {
		return nil, err
	}
	return reconcile.BuildPlan(desired, current), nil
}

func (s *Service) projectStore(project string) (*database.ProjectStore, error) {
	if s.db == nil {
		return nil, errNoDatabase
	}
	if project == "" {
		project = s.project
	}
	return database.NewProjectStore(s.db, project), nil
}

// dbRef parses "db://project" references. "db://" alone selects the
// configured default project.
func dbRef(ref string) (project string, ok bool) {
	if !strings.HasPrefix(ref, "db://") {
		return "", false
	}
	return strings.TrimPrefix(ref, "db://"), true
}
