package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"plcsync/core/entity"
	"plcsync/core/reconcile"
)

// CodeUnitRow is the persisted form of one code unit within a project.
type CodeUnitRow struct {
	ID            uint   `gorm:"primaryKey"`
	Project       string `gorm:"size:128;uniqueIndex:idx_project_qname"`
	QualifiedName string `gorm:"size:255;uniqueIndex:idx_project_qname"`
	Kind          string `gorm:"size:32"`
	Body          string `gorm:"type:longtext"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName sets the table name for GORM.
func (CodeUnitRow) TableName() string {
	return "code_units"
}

// ProjectStore reads and mutates the code units of one project. It doubles
// as the executor for reconciliation runs targeting a db:// reference.
type ProjectStore struct {
	db      *gorm.DB
	project string
}

// NewProjectStore creates a store scoped to one project name.
func NewProjectStore(db *gorm.DB, project string) *ProjectStore {
	return &ProjectStore{db: db, project: project}
}

// Migrate creates or updates the code_units table.
func (s *ProjectStore) Migrate() error {
	return s.db.AutoMigrate(&CodeUnitRow{})
}

// LoadEntitySet materializes the project's current state as a snapshot.
func (s *ProjectStore) LoadEntitySet(ctx context.Context) (*entity.EntitySet, error) {
	var rows []CodeUnitRow
	err := s.db.WithContext(ctx).
		Where("project = ?", s.project).
		Order("qualified_name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", s.project, err)
	}

	builder := entity.NewBuilder()
	for _, row := range rows {
		if err := builder.Add(entity.CodeUnit{
			QualifiedName: row.QualifiedName,
			Kind:          entity.Kind(row.Kind),
			Body:          row.Body,
		}); err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

// Submit applies one plan operation to the project rows.
func (s *ProjectStore) Submit(ctx context.Context, op reconcile.PlanOp) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	switch op.Type {
	case reconcile.OpCreate, reconcile.OpUpdate:
		err := db.Where("project = ? AND qualified_name = ?", s.project, op.QualifiedName).
			Assign(map[string]any{
				"kind": string(op.Kind),
				"body": entity.Normalize(op.NewBody),
			}).
			FirstOrCreate(&CodeUnitRow{
				Project:       s.project,
				QualifiedName: op.QualifiedName,
			}).Error
		if err != nil {
			return &reconcile.ExecutionFailure{QualifiedName: op.QualifiedName, Detail: err.Error()}
		}
	case reconcile.OpDelete:
		// Deleting an absent row is a no-op, matching delete-by-omission.
		// The kind predicate keeps a kind-change delete from removing the
		// row the paired create just wrote under the new kind, the same way
		// the directory executor only removes the old-suffix filename.
		err := db.Where("project = ? AND qualified_name = ? AND kind = ?", s.project, op.QualifiedName, string(op.Kind)).
			Delete(&CodeUnitRow{}).Error
		if err != nil {
			return &reconcile.ExecutionFailure{QualifiedName: op.QualifiedName, Detail: err.Error()}
		}
	default:
		return fmt.Errorf("unknown op type %q", op.Type)
	}
	return nil
}
