// Package service holds the job portal's business rules.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"go.uber.org/zap"
)

// Actor is the authenticated caller. A nil *Actor is an anonymous visitor.
type Actor struct {
	ID   uint
	Role model.Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == model.RoleAdmin
}

func (a *Actor) IsRecruiter() bool {
	return a != nil && a.Role == model.RoleRecruiter
}

func (a *Actor) IsStudent() bool {
	return a != nil && a.Role == model.RoleStudent
}

func (a *Actor) logFields() []zap.Field {
	if a == nil {
		return []zap.Field{zap.String("actor", "anonymous")}
	}
	return []zap.Field{zap.Uint("actor_id", a.ID), zap.String("actor_role", string(a.Role))}
}

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// internal logs an unexpected failure with its context and hides it from the caller.
func internal(ctx context.Context, op string, actor *Actor, err error, fields ...zap.Field) error {
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	fields = append(fields, actor.logFields()...)
	logger.FromContext(ctx).Error("Operation failed", fields...)
	appErr := apperror.Internal("Internal server error", err)
	appErr.Logged = true
	return appErr
}

// notFoundOr maps a missing record to a not-found error and anything else to internal.
func notFoundOr(ctx context.Context, op string, actor *Actor, err error, message string, fields ...zap.Field) error {
	if repository.IsNotFound(err) {
		return apperror.NotFound(message)
	}
	return internal(ctx, op, actor, err, fields...)
}

func isStale(err error) bool {
	return errors.Is(err, repository.ErrStaleStatus)
}
