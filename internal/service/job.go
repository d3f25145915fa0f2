package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/lifecycle"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100

	// StatusAll asks for every non-deleted job. Admin only.
	StatusAll = "all"
)

// JobRequest is the create and update payload. Updates replace every field.
type JobRequest struct {
	Title        string       `json:"title" validate:"required,max=255"`
	Description  string       `json:"description" validate:"required"`
	Requirements []string     `json:"requirements" validate:"omitempty,max=50,dive,required,max=500"`
	GPAMin       *float64     `json:"gpa_min" validate:"omitempty,gte=0,lte=5"`
	Location     string       `json:"location" validate:"required,max=255"`
	Salary       model.Salary `json:"salary"`
	Category     string       `json:"category" validate:"required"`
	JobType      string       `json:"job_type" validate:"required"`
	ExpiresAt    time.Time    `json:"expires_at" validate:"required"`
}

// ListJobsRequest holds the listing filters. Empty strings and nil pointers mean no filter.
type ListJobsRequest struct {
	Search   string
	Location string
	GPA      *float64
	Salary   *float64
	JobType  string
	Category string
	Status   string
	Page     int
	Limit    int
}

type JobService interface {
	List(ctx context.Context, actor *Actor, req ListJobsRequest) (*model.JobPage, error)
	Get(ctx context.Context, actor *Actor, id uint) (*model.Job, error)
	Mine(ctx context.Context, actor *Actor) ([]model.Job, error)
	Create(ctx context.Context, actor *Actor, req JobRequest) (*model.Job, error)
	Update(ctx context.Context, actor *Actor, id uint, req JobRequest) (*model.Job, error)
	SetStatus(ctx context.Context, actor *Actor, id uint, status string) (*model.Job, error)
	Delete(ctx context.Context, actor *Actor, id uint) error
	Pending(ctx context.Context, actor *Actor) ([]model.Job, error)
	Stats(ctx context.Context, actor *Actor) ([]model.CompanyJobStats, error)
}

// Sweeps runs the expiration sweep. *Sweeper implements it.
type Sweeps interface {
	Sweep(ctx context.Context, trigger string) (int64, error)
}

type jobService struct {
	jobs      repository.JobRepository
	companies repository.CompanyRepository
	sweeper   Sweeps
	now       Clock
}

func NewJobService(jobs repository.JobRepository, companies repository.CompanyRepository, sweeper Sweeps) JobService {
	return &jobService{
		jobs:      jobs,
		companies: companies,
		sweeper:   sweeper,
		now:       utcNow,
	}
}

// List sweeps expired jobs first so an approved listing never shows a job
// past its deadline. A failed sweep fails the listing.
func (s *jobService) List(ctx context.Context, actor *Actor, req ListJobsRequest) (*model.JobPage, error) {
	query, err := s.buildQuery(actor, req)
	if err != nil {
		return nil, err
	}

	if _, err := s.sweeper.Sweep(ctx, TriggerListing); err != nil {
		return nil, internal(ctx, "list_jobs_sweep", actor, err)
	}

	if len(query.Statuses) == 1 && query.Statuses[0] == model.JobApproved {
		now := s.now()
		query.OpenAt = &now
	}

	page, err := s.jobs.List(ctx, query)
	if err != nil {
		return nil, internal(ctx, "list_jobs", actor, err)
	}
	return page, nil
}

func (s *jobService) buildQuery(actor *Actor, req ListJobsRequest) (repository.JobQuery, error) {
	fields := make(map[string]string)
	query := repository.JobQuery{
		Search:   strings.TrimSpace(req.Search),
		Location: strings.TrimSpace(req.Location),
		Page:     req.Page,
		Limit:    req.Limit,
		Statuses: []model.JobStatus{model.JobApproved},
	}

	if req.GPA != nil {
		if *req.GPA < 0 {
			fields["gpa"] = "must not be negative"
		}
		query.GPA = req.GPA
	}
	if req.Salary != nil {
		if *req.Salary < 0 {
			fields["salary"] = "must not be negative"
		}
		query.MinSalary = req.Salary
	}
	if req.JobType != "" {
		jobType, err := model.ParseJobType(req.JobType)
		if err != nil {
			fields["jobType"] = err.Error()
		}
		query.JobType = &jobType
	}
	if req.Category != "" {
		category, err := model.ParseJobCategory(req.Category)
		if err != nil {
			fields["category"] = err.Error()
		}
		query.Category = &category
	}

	// everyone but admins only ever sees approved jobs
	if status := strings.TrimSpace(req.Status); status != "" && actor.IsAdmin() {
		if strings.EqualFold(status, StatusAll) {
			query.Statuses = nil
			for _, st := range model.AllJobStatuses {
				if st != model.JobDeleted {
					query.Statuses = append(query.Statuses, st)
				}
			}
		} else if parsed, err := model.ParseJobStatus(status); err != nil {
			fields["status"] = err.Error()
		} else {
			query.Statuses = []model.JobStatus{parsed}
		}
	}

	if len(fields) > 0 {
		return repository.JobQuery{}, apperror.ValidationFields("Invalid query parameters", fields)
	}

	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = DefaultPageSize
	}
	if query.Limit > MaxPageSize {
		query.Limit = MaxPageSize
	}
	return query, nil
}

// Get returns a single job. Visitors and students only see open jobs, the
// owning recruiter sees every non-deleted job of their company, admins see all.
func (s *jobService) Get(ctx context.Context, actor *Actor, id uint) (*model.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "get_job", actor, err, "Job not found", zap.Uint("job_id", id))
	}

	now := s.now()
	if lifecycle.IsExpired(job.Status, job.ExpiresAt, now) {
		job.Status = model.JobExpired
	}

	switch {
	case actor.IsAdmin():
		return job, nil
	case actor.IsRecruiter() && ownsJob(actor, job):
		if job.Status == model.JobDeleted {
			return nil, apperror.NotFound("Job not found")
		}
		return job, nil
	case lifecycle.IsOpen(job.Status, job.ExpiresAt, now):
		return job, nil
	default:
		return nil, apperror.NotFound("Job not found")
	}
}

func (s *jobService) Mine(ctx context.Context, actor *Actor) ([]model.Job, error) {
	if !actor.IsRecruiter() {
		return nil, apperror.Forbidden("Only recruiters have jobs")
	}
	company, err := s.companies.FindByRecruiter(ctx, actor.ID)
	if err != nil {
		if repository.IsNotFound(err) {
			return []model.Job{}, nil
		}
		return nil, internal(ctx, "my_jobs", actor, err)
	}

	jobs, err := s.jobs.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, internal(ctx, "my_jobs", actor, err, zap.Uint("company_id", company.ID))
	}
	stale := lifecycle.ExpiredJobIDs(jobs, s.now())
	if len(stale) == 0 {
		return jobs, nil
	}
	// a failed sweep only delays persistence; the view is still corrected
	if _, err := s.sweeper.Sweep(ctx, TriggerListing); err != nil {
		logger.FromContext(ctx).Warn("Sweep before my jobs failed",
			zap.Uint("user_id", actor.ID), zap.Error(err))
	}
	expired := make(map[uint]bool, len(stale))
	for _, id := range stale {
		expired[id] = true
	}
	for i := range jobs {
		if expired[jobs[i].ID] {
			jobs[i].Status = model.JobExpired
		}
	}
	return jobs, nil
}

// Create posts a new pending job for the recruiter's approved company.
func (s *jobService) Create(ctx context.Context, actor *Actor, req JobRequest) (*model.Job, error) {
	if !actor.IsRecruiter() {
		return nil, apperror.Forbidden("Only recruiters can post jobs")
	}

	company, err := s.companies.FindByRecruiter(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(ctx, "create_job", actor, err, "Company not found")
	}
	if !lifecycle.CompanyCanPost(company.Status) {
		return nil, apperror.Forbidden("Company is not approved")
	}

	job := &model.Job{CompanyID: company.ID, Status: model.JobPending}
	if err := s.apply(job, req); err != nil {
		return nil, err
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, internal(ctx, "create_job", actor, err, zap.Uint("company_id", company.ID))
	}

	prometheus.RecordJobOperation("create")
	logger.FromContext(ctx).Info("Job created",
		zap.Uint("job_id", job.ID),
		zap.Uint("company_id", company.ID))
	return job, nil
}

// Update replaces the job's fields. An owner edit sends the job back to
// pending for review; an admin edit keeps the current status.
func (s *jobService) Update(ctx context.Context, actor *Actor, id uint, req JobRequest) (*model.Job, error) {
	if !actor.IsRecruiter() && !actor.IsAdmin() {
		return nil, apperror.Forbidden("Only recruiters and admins can edit jobs")
	}

	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "update_job", actor, err, "Job not found", zap.Uint("job_id", id))
	}
	if job.Status == model.JobDeleted {
		return nil, apperror.NotFound("Job not found")
	}
	loaded := job.Status

	if actor.IsRecruiter() {
		if !ownsJob(actor, job) {
			return nil, apperror.Forbidden("You do not own this job")
		}
		if job.Company == nil || !lifecycle.CompanyCanPost(job.Company.Status) {
			return nil, apperror.Forbidden("Company is not approved")
		}
		if lifecycle.IsExpired(job.Status, job.ExpiresAt, s.now()) {
			job.Status = model.JobExpired
		}
		if !lifecycle.OwnerEditable(job.Status) {
			return nil, apperror.Validation(fmt.Sprintf("A %s job can no longer be edited", job.Status))
		}
	}

	if err := s.apply(job, req); err != nil {
		return nil, err
	}
	if actor.IsRecruiter() {
		job.Status = model.JobPending
	}

	if err := s.jobs.Update(ctx, job, loaded); err != nil {
		if isStale(err) {
			return nil, apperror.Conflict("Job status changed, reload and retry")
		}
		return nil, internal(ctx, "update_job", actor, err, zap.Uint("job_id", id))
	}

	prometheus.RecordJobOperation("update")
	logger.FromContext(ctx).Info("Job updated",
		zap.Uint("job_id", job.ID),
		zap.String("status", string(job.Status)),
		zap.Uint("actor_id", actor.ID))
	return job, nil
}

// SetStatus is the admin review: approve or reject.
func (s *jobService) SetStatus(ctx context.Context, actor *Actor, id uint, status string) (*model.Job, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}

	to, err := model.ParseJobStatus(status)
	if err != nil || !lifecycle.AdminSettableJobStatus(to) {
		return nil, apperror.ValidationFields("Invalid status", map[string]string{
			"status": "must be approved or rejected",
		})
	}

	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "set_job_status", actor, err, "Job not found", zap.Uint("job_id", id))
	}

	if lifecycle.IsExpired(job.Status, job.ExpiresAt, s.now()) {
		job.Status = model.JobExpired
	}
	if err := lifecycle.CanTransitionJob(job.Status, to); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if to == model.JobApproved {
		if !job.ExpiresAt.After(s.now()) {
			return nil, apperror.Validation("Job is past its deadline")
		}
		if job.Company == nil || !lifecycle.CompanyCanPost(job.Company.Status) {
			return nil, apperror.Validation("Company is not approved")
		}
	}

	if err := s.jobs.UpdateStatus(ctx, job.ID, job.Status, to); err != nil {
		if isStale(err) {
			return nil, apperror.Conflict("Job status changed, reload and retry")
		}
		return nil, internal(ctx, "set_job_status", actor, err, zap.Uint("job_id", id))
	}

	from := job.Status
	job.Status = to
	prometheus.RecordJobOperation("status_" + string(to))
	logger.FromContext(ctx).Info("Job status changed",
		zap.Uint("job_id", job.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.Uint("actor_id", actor.ID))
	return job, nil
}

// Delete soft-deletes the job and writes an audit entry in the same transaction.
func (s *jobService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if !actor.IsRecruiter() && !actor.IsAdmin() {
		return apperror.Forbidden("Only recruiters and admins can delete jobs")
	}

	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(ctx, "delete_job", actor, err, "Job not found", zap.Uint("job_id", id))
	}
	if job.Status == model.JobDeleted {
		return apperror.NotFound("Job not found")
	}
	if actor.IsRecruiter() && !ownsJob(actor, job) {
		return apperror.Forbidden("You do not own this job")
	}

	audit := &model.AuditLog{
		Action:      "delete_job",
		Entity:      "job",
		EntityID:    job.ID,
		PerformedBy: actor.ID,
		PerformedAt: s.now(),
		Details:     fmt.Sprintf("%q deleted by %s while %s", job.Title, actor.Role, job.Status),
	}
	if err := s.jobs.SoftDelete(ctx, job.ID, job.Status, audit); err != nil {
		if isStale(err) {
			return apperror.Conflict("Job status changed, reload and retry")
		}
		return internal(ctx, "delete_job", actor, err, zap.Uint("job_id", id))
	}

	prometheus.RecordJobOperation("delete")
	logger.FromContext(ctx).Info("Job deleted",
		zap.Uint("job_id", job.ID),
		zap.Uint("actor_id", actor.ID))
	return nil
}

func (s *jobService) Pending(ctx context.Context, actor *Actor) ([]model.Job, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}
	jobs, err := s.jobs.ListByStatus(ctx, model.JobPending)
	if err != nil {
		return nil, internal(ctx, "pending_jobs", actor, err)
	}
	return jobs, nil
}

func (s *jobService) Stats(ctx context.Context, actor *Actor) ([]model.CompanyJobStats, error) {
	if !actor.IsAdmin() {
		return nil, apperror.Forbidden("Admin access required")
	}
	stats, err := s.jobs.CountByCompany(ctx)
	if err != nil {
		return nil, internal(ctx, "job_stats", actor, err)
	}
	return stats, nil
}

// apply validates the request against the domain and copies it onto job.
func (s *jobService) apply(job *model.Job, req JobRequest) error {
	fields := make(map[string]string)

	category, err := model.ParseJobCategory(req.Category)
	if err != nil {
		fields["category"] = err.Error()
	}
	jobType, err := model.ParseJobType(req.JobType)
	if err != nil {
		fields["job_type"] = err.Error()
	}
	salary := req.Salary.Normalize()
	if salary.IsNumeric() && *salary.Amount < 0 {
		fields["salary"] = "must not be negative"
	}
	if !req.ExpiresAt.After(s.now()) {
		fields["expires_at"] = "must be in the future"
	}
	if len(fields) > 0 {
		return apperror.ValidationFields("Invalid job", fields)
	}

	requirements := make([]string, 0, len(req.Requirements))
	for _, r := range req.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			requirements = append(requirements, r)
		}
	}

	job.Title = strings.TrimSpace(req.Title)
	job.Description = req.Description
	job.Requirements = requirements
	job.GPAMin = req.GPAMin
	job.Location = strings.TrimSpace(req.Location)
	job.Salary = salary
	job.Category = category
	job.JobType = jobType
	job.ExpiresAt = req.ExpiresAt.UTC()
	return nil
}

func ownsJob(actor *Actor, job *model.Job) bool {
	return job.Company != nil && job.Company.RecruiterUserID == actor.ID
}
