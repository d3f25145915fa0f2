package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/lifecycle"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/pkg/ratelimit"
	"github.com/AbdiAhmed6457/job-portal/pkg/storage"
	"github.com/AbdiAhmed6457/job-portal/prometheus"
	"go.uber.org/zap"
)

const cvFolder = "cvs"

// ApplyRequest is a student's application. CV is optional.
type ApplyRequest struct {
	JobID       uint      `json:"job_id" form:"job_id" validate:"required"`
	CoverLetter string    `json:"cover_letter" form:"cover_letter" validate:"max=5000"`
	CV          *CVUpload `json:"-" form:"-"`
}

// CVFile is a stored CV opened for download. The caller closes Content.
type CVFile struct {
	Name    string
	MIME    string
	Content io.ReadCloser
}

type ApplicationService interface {
	Apply(ctx context.Context, actor *Actor, req ApplyRequest) (*model.Application, error)
	List(ctx context.Context, actor *Actor) ([]model.Application, error)
	SetStatus(ctx context.Context, actor *Actor, id uint, status string) (*model.Application, error)
	OpenCV(ctx context.Context, actor *Actor, id uint) (*CVFile, error)
}

// ApplyLimit is the per student and job apply budget.
type ApplyLimit struct {
	Limit  int
	Window time.Duration
}

type applicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	companies    repository.CompanyRepository
	store        storage.Store
	policy       CVPolicy
	limiter      ratelimit.Limiter
	limit        ApplyLimit
	now          Clock
}

func NewApplicationService(
	applications repository.ApplicationRepository,
	jobs repository.JobRepository,
	companies repository.CompanyRepository,
	store storage.Store,
	policy CVPolicy,
	limiter ratelimit.Limiter,
	limit ApplyLimit,
) ApplicationService {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		companies:    companies,
		store:        store,
		policy:       policy,
		limiter:      limiter,
		limit:        limit,
		now:          utcNow,
	}
}

// Apply creates a pending application. Every check runs before the CV is
// stored, and the stored CV is removed again when the insert fails.
func (s *applicationService) Apply(ctx context.Context, actor *Actor, req ApplyRequest) (*model.Application, error) {
	log := logger.FromContext(ctx)
	if !actor.IsStudent() {
		return nil, apperror.Forbidden("Only students can apply")
	}
	if req.JobID == 0 {
		return nil, apperror.ValidationFields("Job is required", map[string]string{"job_id": "required"})
	}
	if len(req.CoverLetter) > 5000 {
		return nil, apperror.ValidationFields("Cover letter too long", map[string]string{"cover_letter": "at most 5000 characters"})
	}

	job, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		return nil, notFoundOr(ctx, "apply", actor, err, "Job not found", zap.Uint("job_id", req.JobID))
	}
	if !lifecycle.IsOpen(job.Status, job.ExpiresAt, s.now()) {
		return nil, apperror.Validation("Job is not open for applications")
	}

	if s.limit.Limit > 0 {
		key := fmt.Sprintf("apply:%d:%d", actor.ID, job.ID)
		allowed, err := s.limiter.Allow(ctx, key, s.limit.Limit, s.limit.Window)
		if err != nil {
			log.Warn("Apply rate limiter unavailable, allowing request", zap.Error(err))
		} else if !allowed {
			prometheus.RecordApplicationOperation("rate_limited")
			return nil, apperror.RateLimited("Too many application attempts, try again later")
		}
	}

	exists, err := s.applications.Exists(ctx, job.ID, actor.ID)
	if err != nil {
		return nil, internal(ctx, "apply", actor, err, zap.Uint("job_id", job.ID))
	}
	if exists {
		return nil, apperror.Conflict("You have already applied to this job")
	}

	var cv *InspectedCV
	if req.CV != nil {
		cv, err = s.policy.Inspect(*req.CV)
		if err != nil {
			var policyErr CVPolicyError
			if errors.As(err, &policyErr) {
				return nil, apperror.ValidationFields("Invalid CV", map[string]string{"cv": policyErr.Error()})
			}
			return nil, internal(ctx, "apply", actor, err, zap.Uint("job_id", job.ID))
		}
	}

	application := &model.Application{
		JobID:         job.ID,
		StudentUserID: actor.ID,
		Status:        model.ApplicationPending,
	}
	if letter := strings.TrimSpace(req.CoverLetter); letter != "" {
		application.CoverLetter = &letter
	}

	if cv != nil {
		ref, err := s.store.Save(ctx, cvFolder, cv.Ext, cv.Reader())
		if err != nil {
			return nil, internal(ctx, "apply_store_cv", actor, err, zap.Uint("job_id", job.ID))
		}
		application.CVRef = &ref
	}

	if err := s.applications.Create(ctx, application); err != nil {
		if application.CVRef != nil {
			if delErr := s.store.Delete(ctx, *application.CVRef); delErr != nil {
				log.Warn("Failed to remove CV of failed application",
					zap.String("cv_ref", *application.CVRef), zap.Error(delErr))
			}
		}
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("You have already applied to this job")
		}
		return nil, internal(ctx, "apply", actor, err, zap.Uint("job_id", job.ID))
	}

	prometheus.RecordApplicationOperation("create")
	log.Info("Application submitted",
		zap.Uint("application_id", application.ID),
		zap.Uint("job_id", job.ID),
		zap.Uint("student_id", actor.ID),
		zap.Bool("with_cv", application.CVRef != nil))
	return application, nil
}

// List scopes by role: students see their own, recruiters see their
// company's, admins see all.
func (s *applicationService) List(ctx context.Context, actor *Actor) ([]model.Application, error) {
	var scope repository.ApplicationScope
	switch {
	case actor.IsAdmin():
	case actor.IsStudent():
		scope.StudentID = actor.ID
	case actor.IsRecruiter():
		company, err := s.companies.FindByRecruiter(ctx, actor.ID)
		if err != nil {
			if repository.IsNotFound(err) {
				return []model.Application{}, nil
			}
			return nil, internal(ctx, "list_applications", actor, err)
		}
		scope.CompanyID = company.ID
	default:
		return nil, apperror.Unauthorized("Authentication required")
	}

	applications, err := s.applications.List(ctx, scope)
	if err != nil {
		return nil, internal(ctx, "list_applications", actor, err)
	}
	return applications, nil
}

func (s *applicationService) SetStatus(ctx context.Context, actor *Actor, id uint, status string) (*model.Application, error) {
	if !actor.IsRecruiter() && !actor.IsAdmin() {
		return nil, apperror.Forbidden("Only recruiters and admins can review applications")
	}

	to, err := model.ParseApplicationStatus(status)
	if err != nil {
		return nil, apperror.ValidationFields("Invalid status", map[string]string{
			"status": "must be pending, accepted or rejected",
		})
	}

	application, err := s.load(ctx, actor, id, "set_application_status")
	if err != nil {
		return nil, err
	}

	if err := s.applications.UpdateStatus(ctx, application.ID, to); err != nil {
		return nil, notFoundOr(ctx, "set_application_status", actor, err, "Application not found", zap.Uint("application_id", id))
	}
	from := application.Status
	application.Status = to

	prometheus.RecordApplicationOperation("status_" + string(to))
	logger.FromContext(ctx).Info("Application status changed",
		zap.Uint("application_id", application.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Uint("actor_id", actor.ID))
	return application, nil
}

func (s *applicationService) OpenCV(ctx context.Context, actor *Actor, id uint) (*CVFile, error) {
	if !actor.IsRecruiter() && !actor.IsAdmin() {
		return nil, apperror.Forbidden("Only recruiters and admins can download CVs")
	}

	application, err := s.load(ctx, actor, id, "open_cv")
	if err != nil {
		return nil, err
	}
	if application.CVRef == nil {
		return nil, apperror.NotFound("Application has no CV")
	}

	content, err := s.store.Open(ctx, *application.CVRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("CV file not found")
		}
		return nil, internal(ctx, "open_cv", actor, err, zap.Uint("application_id", id))
	}
	ext := path.Ext(*application.CVRef)
	name := fmt.Sprintf("application-%d-cv%s", application.ID, ext)
	return &CVFile{Name: name, MIME: cvMIME(ext), Content: content}, nil
}

// load fetches the application and enforces that a recruiter only touches
// applications for their own company's jobs.
func (s *applicationService) load(ctx context.Context, actor *Actor, id uint, op string) (*model.Application, error) {
	application, err := s.applications.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, op, actor, err, "Application not found", zap.Uint("application_id", id))
	}
	if actor.IsRecruiter() && (application.Job == nil || !ownsJob(actor, application.Job)) {
		return nil, apperror.Forbidden("Application belongs to another company")
	}
	return application, nil
}
