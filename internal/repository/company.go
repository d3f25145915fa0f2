package repository

import (
	"context"
	"fmt"

	"github.com/AbdiAhmed6457/job-portal/internal/lifecycle"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"gorm.io/gorm"
)

// AuditFunc builds the audit row for a company transition once the number of
// cascaded job revocations is known. Returning nil skips the audit row.
type AuditFunc func(revokedJobs int64) *model.AuditLog

// CompanyRepository defines the interface for company data operations.
type CompanyRepository interface {
	Create(ctx context.Context, company *model.Company) error
	FindByID(ctx context.Context, id uint) (*model.Company, error)
	FindByRecruiter(ctx context.Context, recruiterID uint) (*model.Company, error)
	List(ctx context.Context, status *model.CompanyStatus) ([]model.Company, error)
	UpdateStatus(ctx context.Context, id uint, from, to model.CompanyStatus, cascade lifecycle.CompanyCascade, audit AuditFunc) (int64, error)
}

type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new CompanyRepository instance.
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) Create(ctx context.Context, company *model.Company) error {
	if err := r.db.WithContext(ctx).Omit("Recruiter").Create(company).Error; err != nil {
		return fmt.Errorf("failed to create company for recruiter %d: %w", company.RecruiterUserID, err)
	}
	return nil
}

func (r *companyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	var company model.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find company by id %d: %w", id, err)
	}
	return &company, nil
}

func (r *companyRepository) FindByRecruiter(ctx context.Context, recruiterID uint) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("recruiter_user_id = ?", recruiterID).First(&company).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find company of recruiter %d: %w", recruiterID, err)
	}
	return &company, nil
}

func (r *companyRepository) List(ctx context.Context, status *model.CompanyStatus) ([]model.Company, error) {
	query := r.db.WithContext(ctx).
		Preload("Recruiter", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var companies []model.Company
	if err := query.Order("created_at DESC").Order("id DESC").Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// UpdateStatus moves the company from one status to another, applies the job
// cascade and writes the audit row in a single transaction. It returns the
// number of jobs the cascade revoked.
func (r *companyRepository) UpdateStatus(ctx context.Context, id uint, from, to model.CompanyStatus, cascade lifecycle.CompanyCascade, audit AuditFunc) (int64, error) {
	var revoked int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Company{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if result.Error != nil {
			return fmt.Errorf("failed to update company %d status: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrStaleStatus
		}

		if cascade.RevokeJobs {
			result = tx.Model(&model.Job{}).
				Where("company_id = ? AND status IN ?", id, cascade.From).
				Update("status", cascade.To)
			if result.Error != nil {
				return fmt.Errorf("failed to revoke jobs of company %d: %w", id, result.Error)
			}
			revoked = result.RowsAffected
		}

		if audit == nil {
			return nil
		}
		entry := audit(revoked)
		if entry == nil {
			return nil
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to write audit log for company %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return revoked, nil
}
