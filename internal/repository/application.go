package repository

import (
	"context"
	"fmt"

	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationScope narrows an application listing. Zero fields mean no restriction.
type ApplicationScope struct {
	StudentID uint
	CompanyID uint
	JobID     uint
}

// ApplicationRepository defines the interface for application data operations.
type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	FindByID(ctx context.Context, id uint) (*model.Application, error)
	Exists(ctx context.Context, jobID, studentID uint) (bool, error)
	List(ctx context.Context, scope ApplicationScope) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new ApplicationRepository instance.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(application).Error; err != nil {
		return fmt.Errorf("failed to create application for job %d: %w", application.JobID, err)
	}
	return nil
}

// FindByID loads the application with its job and the job's company, which
// ownership checks need.
func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	var application model.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company", companySummary).
		First(&application, id).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find application by id %d: %w", id, err)
	}
	return &application, nil
}

func (r *applicationRepository) Exists(ctx context.Context, jobID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("job_id = ? AND student_user_id = ?", jobID, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check application of student %d for job %d: %w", studentID, jobID, err)
	}
	return count > 0, nil
}

func (r *applicationRepository) List(ctx context.Context, scope ApplicationScope) ([]model.Application, error) {
	query := r.db.WithContext(ctx).Model(&model.Application{}).
		Joins("JOIN jobs ON jobs.id = applications.job_id")
	if scope.StudentID != 0 {
		query = query.Where("applications.student_user_id = ?", scope.StudentID)
	}
	if scope.CompanyID != 0 {
		query = query.Where("jobs.company_id = ?", scope.CompanyID)
	}
	if scope.JobID != 0 {
		query = query.Where("applications.job_id = ?", scope.JobID)
	}

	applications := make([]model.Application, 0)
	err := query.
		Preload("Job", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "company_id", "status")
		}).
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Order("applications.created_at DESC").
		Order("applications.id DESC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update application %d status: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update application %d status: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
