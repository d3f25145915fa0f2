package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/lifecycle"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobQuery is a normalized listing request. Statuses must not be empty and
// Page and Limit must be positive.
type JobQuery struct {
	Search    string
	Location  string
	GPA       *float64
	MinSalary *float64
	JobType   *model.JobType
	Category  *model.JobCategory
	Statuses  []model.JobStatus
	// OpenAt, when set, keeps only jobs whose deadline is after it.
	OpenAt *time.Time
	Page   int
	Limit  int
}

// JobRepository defines the interface for job data operations.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id uint) (*model.Job, error)
	Update(ctx context.Context, job *model.Job, from model.JobStatus) error
	UpdateStatus(ctx context.Context, id uint, from, to model.JobStatus) error
	SoftDelete(ctx context.Context, id uint, from model.JobStatus, audit *model.AuditLog) error
	List(ctx context.Context, q JobQuery) (*model.JobPage, error)
	ListByCompany(ctx context.Context, companyID uint) ([]model.Job, error)
	ListByStatus(ctx context.Context, status model.JobStatus) ([]model.Job, error)
	CountByCompany(ctx context.Context) ([]model.CompanyJobStats, error)
	ExpireJobs(ctx context.Context, now time.Time) (int64, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository instance.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func companySummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "logo_url", "status", "recruiter_user_id")
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create job for company %d: %w", job.CompanyID, err)
	}
	return nil
}

func (r *jobRepository) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	var job model.Job
	err := r.db.WithContext(ctx).Preload("Company", companySummary).First(&job, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find job by id %d: %w", id, err)
	}
	return &job, nil
}

// Update writes every column of the job, but only while its stored status is
// still from. A cascade or review that ran after the job was loaded makes the
// write fail with ErrStaleStatus instead of being overwritten.
func (r *jobRepository) Update(ctx context.Context, job *model.Job, from model.JobStatus) error {
	result := r.db.WithContext(ctx).Model(job).
		Where("status = ?", from).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(job)
	if result.Error != nil {
		return fmt.Errorf("failed to update job id %d: %w", job.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *jobRepository) UpdateStatus(ctx context.Context, id uint, from, to model.JobStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return fmt.Errorf("failed to update job %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// SoftDelete marks the job deleted and records the audit row atomically.
func (r *jobRepository) SoftDelete(ctx context.Context, id uint, from model.JobStatus, audit *model.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Job{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", model.JobDeleted)
		if result.Error != nil {
			return fmt.Errorf("failed to delete job %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if audit != nil {
			if err := tx.Create(audit).Error; err != nil {
				return fmt.Errorf("failed to write audit log for job %d: %w", id, err)
			}
		}
		return nil
	})
}

// List runs the filtered, paginated listing, newest first.
func (r *jobRepository) List(ctx context.Context, q JobQuery) (*model.JobPage, error) {
	query := r.db.WithContext(ctx).Model(&model.Job{}).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Where("jobs.status IN ?", q.Statuses)

	if q.OpenAt != nil {
		query = query.Where("jobs.expires_at > ?", *q.OpenAt)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		pattern := containsPattern(search)
		query = query.Where(
			`(LOWER(jobs.title) LIKE ? ESCAPE '\' OR LOWER(jobs.description) LIKE ? ESCAPE '\' OR LOWER(companies.name) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}
	if location := strings.TrimSpace(q.Location); location != "" {
		query = query.Where(`LOWER(jobs.location) LIKE ? ESCAPE '\'`, containsPattern(location))
	}
	if q.GPA != nil {
		query = query.Where("(jobs.gpa_min IS NULL OR jobs.gpa_min <= ?)", *q.GPA)
	}
	if q.MinSalary != nil {
		// descriptive and unspecified salaries are kept
		query = query.Where("(jobs.salary_kind <> ? OR jobs.salary_amount >= ?)", model.SalaryNumeric, *q.MinSalary)
	}
	if q.JobType != nil {
		query = query.Where("jobs.job_type = ?", *q.JobType)
	}
	if q.Category != nil {
		query = query.Where("jobs.category = ?", *q.Category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	jobs := make([]model.Job, 0)
	page := &model.JobPage{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: q.Page,
		Jobs:        jobs,
	}
	// past the last page; also keeps the offset below from overflowing
	if q.Page > totalPages {
		return page, nil
	}

	err := query.
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "logo_url")
		}).
		Order("jobs.created_at DESC").
		Order("jobs.id DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	page.Jobs = jobs
	return page, nil
}

// ListByCompany returns the company's jobs except deleted ones, newest first.
func (r *jobRepository) ListByCompany(ctx context.Context, companyID uint) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status <> ?", companyID, model.JobDeleted).
		Order("created_at DESC").Order("id DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs of company %d: %w", companyID, err)
	}
	return jobs, nil
}

func (r *jobRepository) ListByStatus(ctx context.Context, status model.JobStatus) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Preload("Company", companySummary).
		Where("status = ?", status).
		Order("created_at ASC").Order("id ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s jobs: %w", status, err)
	}
	return jobs, nil
}

// CountByCompany counts each company's jobs, deleted ones excluded.
func (r *jobRepository) CountByCompany(ctx context.Context) ([]model.CompanyJobStats, error) {
	var stats []model.CompanyJobStats
	err := r.db.WithContext(ctx).
		Table("companies").
		Select("companies.id AS company_id, companies.name AS company_name, COUNT(jobs.id) AS job_count").
		Joins("LEFT JOIN jobs ON jobs.company_id = companies.id AND jobs.status <> ?", model.JobDeleted).
		Group("companies.id, companies.name").
		Order("job_count DESC").Order("companies.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count jobs per company: %w", err)
	}
	return stats, nil
}

// ExpireJobs moves every pending or approved job whose deadline is before now
// to expired and returns how many rows changed.
func (r *jobRepository) ExpireJobs(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.Job{}).
		Where("expires_at < ? AND status IN ?", now, lifecycle.ExpirableJobStatuses).
		Update("status", model.JobExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire jobs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
