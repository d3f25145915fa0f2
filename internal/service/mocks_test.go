package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/lifecycle"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
)

var errNotImplemented = errors.New("not implemented")

// =============================================================================
// Mock UserRepository
// =============================================================================

type mockUserRepository struct {
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	findByIDFunc    func(ctx context.Context, id uint) (*model.User, error)
	createFunc      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return errNotImplemented
}

// =============================================================================
// Mock CompanyRepository
// =============================================================================

type mockCompanyRepository struct {
	createFunc          func(ctx context.Context, company *model.Company) error
	findByIDFunc        func(ctx context.Context, id uint) (*model.Company, error)
	findByRecruiterFunc func(ctx context.Context, recruiterID uint) (*model.Company, error)
	listFunc            func(ctx context.Context, status *model.CompanyStatus) ([]model.Company, error)
	updateStatusFunc    func(ctx context.Context, id uint, from, to model.CompanyStatus, cascade lifecycle.CompanyCascade, audit repository.AuditFunc) (int64, error)
}

func (m *mockCompanyRepository) Create(ctx context.Context, company *model.Company) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, company)
	}
	return errNotImplemented
}

func (m *mockCompanyRepository) FindByID(ctx context.Context, id uint) (*model.Company, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockCompanyRepository) FindByRecruiter(ctx context.Context, recruiterID uint) (*model.Company, error) {
	if m.findByRecruiterFunc != nil {
		return m.findByRecruiterFunc(ctx, recruiterID)
	}
	return nil, errNotImplemented
}

func (m *mockCompanyRepository) List(ctx context.Context, status *model.CompanyStatus) ([]model.Company, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, status)
	}
	return nil, errNotImplemented
}

func (m *mockCompanyRepository) UpdateStatus(ctx context.Context, id uint, from, to model.CompanyStatus, cascade lifecycle.CompanyCascade, audit repository.AuditFunc) (int64, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to, cascade, audit)
	}
	return 0, errNotImplemented
}

// =============================================================================
// Mock JobRepository
// =============================================================================

type mockJobRepository struct {
	createFunc         func(ctx context.Context, job *model.Job) error
	findByIDFunc       func(ctx context.Context, id uint) (*model.Job, error)
	updateFunc         func(ctx context.Context, job *model.Job, from model.JobStatus) error
	updateStatusFunc   func(ctx context.Context, id uint, from, to model.JobStatus) error
	softDeleteFunc     func(ctx context.Context, id uint, from model.JobStatus, audit *model.AuditLog) error
	listFunc           func(ctx context.Context, q repository.JobQuery) (*model.JobPage, error)
	listByCompanyFunc  func(ctx context.Context, companyID uint) ([]model.Job, error)
	listByStatusFunc   func(ctx context.Context, status model.JobStatus) ([]model.Job, error)
	countByCompanyFunc func(ctx context.Context) ([]model.CompanyJobStats, error)
	expireJobsFunc     func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockJobRepository) Create(ctx context.Context, job *model.Job) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, job)
	}
	return errNotImplemented
}

func (m *mockJobRepository) FindByID(ctx context.Context, id uint) (*model.Job, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) Update(ctx context.Context, job *model.Job, from model.JobStatus) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, job, from)
	}
	return errNotImplemented
}

func (m *mockJobRepository) UpdateStatus(ctx context.Context, id uint, from, to model.JobStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return errNotImplemented
}

func (m *mockJobRepository) SoftDelete(ctx context.Context, id uint, from model.JobStatus, audit *model.AuditLog) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id, from, audit)
	}
	return errNotImplemented
}

func (m *mockJobRepository) List(ctx context.Context, q repository.JobQuery) (*model.JobPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) ListByCompany(ctx context.Context, companyID uint) ([]model.Job, error) {
	if m.listByCompanyFunc != nil {
		return m.listByCompanyFunc(ctx, companyID)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) ListByStatus(ctx context.Context, status model.JobStatus) ([]model.Job, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) CountByCompany(ctx context.Context) ([]model.CompanyJobStats, error) {
	if m.countByCompanyFunc != nil {
		return m.countByCompanyFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *mockJobRepository) ExpireJobs(ctx context.Context, now time.Time) (int64, error) {
	if m.expireJobsFunc != nil {
		return m.expireJobsFunc(ctx, now)
	}
	return 0, errNotImplemented
}

// =============================================================================
// Mock ApplicationRepository
// =============================================================================

type mockApplicationRepository struct {
	createFunc       func(ctx context.Context, application *model.Application) error
	findByIDFunc     func(ctx context.Context, id uint) (*model.Application, error)
	existsFunc       func(ctx context.Context, jobID, studentID uint) (bool, error)
	listFunc         func(ctx context.Context, scope repository.ApplicationScope) ([]model.Application, error)
	updateStatusFunc func(ctx context.Context, id uint, status model.ApplicationStatus) error
}

func (m *mockApplicationRepository) Create(ctx context.Context, application *model.Application) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, application)
	}
	return errNotImplemented
}

func (m *mockApplicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errNotImplemented
}

func (m *mockApplicationRepository) Exists(ctx context.Context, jobID, studentID uint) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, jobID, studentID)
	}
	return false, errNotImplemented
}

func (m *mockApplicationRepository) List(ctx context.Context, scope repository.ApplicationScope) ([]model.Application, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, scope)
	}
	return nil, errNotImplemented
}

func (m *mockApplicationRepository) UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return errNotImplemented
}

// =============================================================================
// Mock StudentProfileRepository / AuditRepository
// =============================================================================

type mockProfileRepository struct {
	findByUserIDFunc func(ctx context.Context, userID uint) (*model.StudentProfile, error)
	saveFunc         func(ctx context.Context, profile *model.StudentProfile) error
}

func (m *mockProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.StudentProfile, error) {
	if m.findByUserIDFunc != nil {
		return m.findByUserIDFunc(ctx, userID)
	}
	return nil, errNotImplemented
}

func (m *mockProfileRepository) Save(ctx context.Context, profile *model.StudentProfile) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, profile)
	}
	return errNotImplemented
}

type mockAuditRepository struct {
	createFunc func(ctx context.Context, entry *model.AuditLog) error
	listFunc   func(ctx context.Context, entity string, limit int) ([]model.AuditLog, error)
}

func (m *mockAuditRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, entry)
	}
	return errNotImplemented
}

func (m *mockAuditRepository) List(ctx context.Context, entity string, limit int) ([]model.AuditLog, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, entity, limit)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Mock Store / Limiter / Sweeps / TokenIssuer
// =============================================================================

type mockStore struct {
	saveFunc   func(ctx context.Context, folder, ext string, r io.Reader) (string, error)
	openFunc   func(ctx context.Context, ref string) (io.ReadCloser, error)
	deleteFunc func(ctx context.Context, ref string) error
}

func (m *mockStore) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, folder, ext, r)
	}
	return "", errNotImplemented
}

func (m *mockStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if m.openFunc != nil {
		return m.openFunc(ctx, ref)
	}
	return nil, errNotImplemented
}

func (m *mockStore) Delete(ctx context.Context, ref string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ref)
	}
	return errNotImplemented
}

type mockLimiter struct {
	allowFunc func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if m.allowFunc != nil {
		return m.allowFunc(ctx, key, limit, window)
	}
	return true, nil
}

type mockSweeps struct {
	sweepFunc func(ctx context.Context, trigger string) (int64, error)
}

func (m *mockSweeps) Sweep(ctx context.Context, trigger string) (int64, error) {
	if m.sweepFunc != nil {
		return m.sweepFunc(ctx, trigger)
	}
	return 0, nil
}

type mockTokenIssuer struct {
	generateFunc func(email string, userID uint, role string) (string, time.Time, error)
}

func (m *mockTokenIssuer) GenerateToken(email string, userID uint, role string) (string, time.Time, error) {
	if m.generateFunc != nil {
		return m.generateFunc(email, userID, role)
	}
	return "", time.Time{}, errNotImplemented
}
