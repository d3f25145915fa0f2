package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/lifecycle"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/prometheus"
	"go.uber.org/zap"
)

// CompanyRequest registers a company. Admins may register one on behalf of a recruiter.
type CompanyRequest struct {
	Name            string  `json:"name" validate:"required,max=255"`
	LogoURL         *string `json:"logo_url" validate:"omitempty,url,max=512"`
	Location        *string `json:"location" validate:"omitempty,max=255"`
	RecruiterUserID uint    `json:"recruiter_user_id"`
}

// StatusRequest is the body of every status endpoint.
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CompanyStatusResult is the outcome of an admin company transition.
type CompanyStatusResult struct {
	Company     *model.Company `json:"company"`
	RevokedJobs int64          `json:"revokedJobs"`
}

type CompanyService interface {
	Create(ctx context.Context, actor *Actor, req CompanyRequest) (*model.Company, error)
	Mine(ctx context.Context, actor *Actor) (*model.Company, error)
	List(ctx context.Context, actor *Actor, status string) ([]model.Company, error)
	SetStatus(ctx context.Context, actor *Actor, id uint, status string) (*CompanyStatusResult, error)
}

type companyService struct {
	companies repository.CompanyRepository
	users     repository.UserRepository
	now       Clock
}

func NewCompanyService(companies repository.CompanyRepository, users repository.UserRepository) CompanyService {
	return &companyService{
		companies: companies,
		users:     users,
		now:       utcNow,
	}
}

func (s *companyService) Create(ctx context.Context, actor *Actor, req CompanyRequest) (*model.Company, error) {
	var recruiterID uint
	switch {
	case actor.IsRecruiter():
		recruiterID = actor.ID
	case actor.IsAdmin():
		if req.RecruiterUserID == 0 {
			return nil, apperror.ValidationFields("Recruiter is required", map[string]string{
				"recruiter_user_id": "required when an admin registers a company",
			})
		}
		recruiter, err := s.users.FindByID(ctx, req.RecruiterUserID)
		if err != nil {
			return nil, notFoundOr(ctx, "create_company", actor, err, "Recruiter not found")
		}
		if recruiter.Role != model.RoleRecruiter {
			return nil, apperror.ValidationFields("User is not a recruiter", map[string]string{
				"recruiter_user_id": "must reference a recruiter",
			})
		}
		recruiterID = recruiter.ID
	default:
		return nil, apperror.Forbidden("Only recruiters can register a company")
	}

	if _, err := s.companies.FindByRecruiter(ctx, recruiterID); err == nil {
		return nil, apperror.Conflict("Recruiter already has a company")
	} else if !repository.IsNotFound(err) {
		return nil, internal(ctx, "create_company", actor, err)
	}

	company := &model.Company{
		Name:            strings.TrimSpace(req.Name),
		LogoURL:         req.LogoURL,
		Location:        req.Location,
		RecruiterUserID: recruiterID,
		Status:          model.CompanyPending,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("Recruiter already has a company")
		}
		return nil, internal(ctx, "create_company", actor, err)
	}

	logger.FromContext(ctx).Info("Company registered",
		zap.Uint("company_id", company.ID),
		zap.Uint("recruiter_id", recruiterID))
	return company, nil
}

func (s *companyService) Mine(ctx context.Context, actor *Actor) (*model.Company, error) {
	if !actor.IsRecruiter() {
		return nil, apperror.Forbidden("Only recruiters own a company")
	}
	company, err := s.companies.FindByRecruiter(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(ctx, "my_company", actor, err, "Company not found")
	}
	return company, nil
}

func (s *companyService) List(ctx context.Context, actor *Actor, status string) ([]model.Company, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}

	var filter *model.CompanyStatus
	if status != "" {
		parsed, err := model.ParseCompanyStatus(status)
		if err != nil {
			return nil, apperror.ValidationFields("Invalid status", map[string]string{"status": err.Error()})
		}
		filter = &parsed
	}

	companies, err := s.companies.List(ctx, filter)
	if err != nil {
		return nil, internal(ctx, "list_companies", actor, err)
	}
	return companies, nil
}

// SetStatus applies an admin transition. Rejecting or revoking a company
// revokes its pending and approved jobs in the same transaction.
func (s *companyService) SetStatus(ctx context.Context, actor *Actor, id uint, status string) (*CompanyStatusResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}

	to, err := model.ParseCompanyStatus(status)
	if err != nil {
		return nil, apperror.ValidationFields("Invalid status", map[string]string{"status": err.Error()})
	}

	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "set_company_status", actor, err, "Company not found", zap.Uint("company_id", id))
	}
	from := company.Status

	cascade, err := lifecycle.CompanyTransition(from, to)
	if err != nil {
		var te *lifecycle.TransitionError
		if errors.As(err, &te) {
			return nil, apperror.Validation(te.Error())
		}
		return nil, internal(ctx, "set_company_status", actor, err)
	}

	var audit repository.AuditFunc
	if cascade.RevokeJobs {
		now := s.now()
		audit = func(revoked int64) *model.AuditLog {
			return &model.AuditLog{
				Action:      "company_" + string(to),
				Entity:      "company",
				EntityID:    company.ID,
				PerformedBy: actor.ID,
				PerformedAt: now,
				Details:     fmt.Sprintf("status %s -> %s; %d jobs revoked", from, to, revoked),
			}
		}
	}

	revoked, err := s.companies.UpdateStatus(ctx, company.ID, from, to, cascade, audit)
	if err != nil {
		if isStale(err) {
			return nil, apperror.Conflict("Company status changed, reload and retry")
		}
		return nil, internal(ctx, "set_company_status", actor, err, zap.Uint("company_id", id))
	}
	company.Status = to

	prometheus.RecordCompanyTransition(string(from), string(to), revoked)
	logger.FromContext(ctx).Info("Company status changed",
		zap.Uint("company_id", company.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Int64("revoked_jobs", revoked),
		zap.Uint("actor_id", actor.ID))

	return &CompanyStatusResult{Company: company, RevokedJobs: revoked}, nil
}
