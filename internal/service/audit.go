package service

import (
	"context"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
)

const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 500
)

type AuditService interface {
	List(ctx context.Context, actor *Actor, entity string, limit int) ([]model.AuditLog, error)
}

type auditService struct {
	audits repository.AuditRepository
}

func NewAuditService(audits repository.AuditRepository) AuditService {
	return &auditService{audits: audits}
}

// List returns the newest audit entries, optionally for one entity kind.
func (s *auditService) List(ctx context.Context, actor *Actor, entity string, limit int) ([]model.AuditLog, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}
	if limit < 1 {
		limit = DefaultAuditLimit
	}
	if limit > MaxAuditLimit {
		limit = MaxAuditLimit
	}

	logs, err := s.audits.List(ctx, entity, limit)
	if err != nil {
		return nil, internal(ctx, "list_audit_logs", actor, err)
	}
	return logs, nil
}
