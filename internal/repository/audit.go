package repository

import (
	"context"
	"fmt"

	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"gorm.io/gorm"
)

// AuditRepository is append-only: entries can be written and read, never changed.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, entity string, limit int) ([]model.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository instance.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log %s/%d: %w", entry.Entity, entry.EntityID, err)
	}
	return nil
}

// List returns the newest entries first. An empty entity lists everything.
func (r *auditRepository) List(ctx context.Context, entity string, limit int) ([]model.AuditLog, error) {
	query := r.db.WithContext(ctx)
	if entity != "" {
		query = query.Where("entity = ?", entity)
	}

	logs := make([]model.AuditLog, 0)
	err := query.Order("performed_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
