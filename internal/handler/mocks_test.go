package handler

import (
	"context"
	"errors"

	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
)

var errNotImplemented = errors.New("not implemented")

// =============================================================================
// Mock JobService
// =============================================================================

type mockJobService struct {
	listFunc      func(ctx context.Context, actor *service.Actor, req service.ListJobsRequest) (*model.JobPage, error)
	getFunc       func(ctx context.Context, actor *service.Actor, id uint) (*model.Job, error)
	mineFunc      func(ctx context.Context, actor *service.Actor) ([]model.Job, error)
	createFunc    func(ctx context.Context, actor *service.Actor, req service.JobRequest) (*model.Job, error)
	updateFunc    func(ctx context.Context, actor *service.Actor, id uint, req service.JobRequest) (*model.Job, error)
	setStatusFunc func(ctx context.Context, actor *service.Actor, id uint, status string) (*model.Job, error)
	deleteFunc    func(ctx context.Context, actor *service.Actor, id uint) error
	pendingFunc   func(ctx context.Context, actor *service.Actor) ([]model.Job, error)
	statsFunc     func(ctx context.Context, actor *service.Actor) ([]model.CompanyJobStats, error)
}

func (m *mockJobService) List(ctx context.Context, actor *service.Actor, req service.ListJobsRequest) (*model.JobPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor, req)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) Get(ctx context.Context, actor *service.Actor, id uint) (*model.Job, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, actor, id)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) Mine(ctx context.Context, actor *service.Actor) ([]model.Job, error) {
	if m.mineFunc != nil {
		return m.mineFunc(ctx, actor)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) Create(ctx context.Context, actor *service.Actor, req service.JobRequest) (*model.Job, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, req)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) Update(ctx context.Context, actor *service.Actor, id uint, req service.JobRequest) (*model.Job, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, actor, id, req)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) SetStatus(ctx context.Context, actor *service.Actor, id uint, status string) (*model.Job, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, actor, id, status)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) Delete(ctx context.Context, actor *service.Actor, id uint) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, actor, id)
	}
	return errNotImplemented
}

func (m *mockJobService) Pending(ctx context.Context, actor *service.Actor) ([]model.Job, error) {
	if m.pendingFunc != nil {
		return m.pendingFunc(ctx, actor)
	}
	return nil, errNotImplemented
}

func (m *mockJobService) Stats(ctx context.Context, actor *service.Actor) ([]model.CompanyJobStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, actor)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Mock CompanyService
// =============================================================================

type mockCompanyService struct {
	createFunc    func(ctx context.Context, actor *service.Actor, req service.CompanyRequest) (*model.Company, error)
	mineFunc      func(ctx context.Context, actor *service.Actor) (*model.Company, error)
	listFunc      func(ctx context.Context, actor *service.Actor, status string) ([]model.Company, error)
	setStatusFunc func(ctx context.Context, actor *service.Actor, id uint, status string) (*service.CompanyStatusResult, error)
}

func (m *mockCompanyService) Create(ctx context.Context, actor *service.Actor, req service.CompanyRequest) (*model.Company, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, actor, req)
	}
	return nil, errNotImplemented
}

func (m *mockCompanyService) Mine(ctx context.Context, actor *service.Actor) (*model.Company, error) {
	if m.mineFunc != nil {
		return m.mineFunc(ctx, actor)
	}
	return nil, errNotImplemented
}

func (m *mockCompanyService) List(ctx context.Context, actor *service.Actor, status string) ([]model.Company, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor, status)
	}
	return nil, errNotImplemented
}

func (m *mockCompanyService) SetStatus(ctx context.Context, actor *service.Actor, id uint, status string) (*service.CompanyStatusResult, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, actor, id, status)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Mock ApplicationService
// =============================================================================

type mockApplicationService struct {
	applyFunc     func(ctx context.Context, actor *service.Actor, req service.ApplyRequest) (*model.Application, error)
	listFunc      func(ctx context.Context, actor *service.Actor) ([]model.Application, error)
	setStatusFunc func(ctx context.Context, actor *service.Actor, id uint, status string) (*model.Application, error)
	openCVFunc    func(ctx context.Context, actor *service.Actor, id uint) (*service.CVFile, error)
}

func (m *mockApplicationService) Apply(ctx context.Context, actor *service.Actor, req service.ApplyRequest) (*model.Application, error) {
	if m.applyFunc != nil {
		return m.applyFunc(ctx, actor, req)
	}
	return nil, errNotImplemented
}

func (m *mockApplicationService) List(ctx context.Context, actor *service.Actor) ([]model.Application, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actor)
	}
	return nil, errNotImplemented
}

func (m *mockApplicationService) SetStatus(ctx context.Context, actor *service.Actor, id uint, status string) (*model.Application, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, actor, id, status)
	}
	return nil, errNotImplemented
}

func (m *mockApplicationService) OpenCV(ctx context.Context, actor *service.Actor, id uint) (*service.CVFile, error) {
	if m.openCVFunc != nil {
		return m.openCVFunc(ctx, actor, id)
	}
	return nil, errNotImplemented
}

// =============================================================================
// Mock AuthService
// =============================================================================

type mockAuthService struct {
	registerFunc func(ctx context.Context, req service.RegisterRequest) (*model.User, error)
	loginFunc    func(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
	meFunc       func(ctx context.Context, actor *service.Actor) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*model.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, errNotImplemented
}

func (m *mockAuthService) Me(ctx context.Context, actor *service.Actor) (*model.User, error) {
	if m.meFunc != nil {
		return m.meFunc(ctx, actor)
	}
	return nil, errNotImplemented
}

func (m *mockAuthService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	return false, errNotImplemented
}

// =============================================================================
// Mock ProfileService
// =============================================================================

type mockProfileService struct {
	openCVFunc func(ctx context.Context, actor *service.Actor, userID uint) (*service.CVFile, error)
}

func (m *mockProfileService) Get(ctx context.Context, actor *service.Actor) (*model.StudentProfile, error) {
	return nil, errNotImplemented
}

func (m *mockProfileService) Upsert(ctx context.Context, actor *service.Actor, req service.ProfileRequest) (*model.StudentProfile, error) {
	return nil, errNotImplemented
}

func (m *mockProfileService) UploadCV(ctx context.Context, actor *service.Actor, upload service.CVUpload) (*model.StudentProfile, error) {
	return nil, errNotImplemented
}

func (m *mockProfileService) OpenCV(ctx context.Context, actor *service.Actor, userID uint) (*service.CVFile, error) {
	if m.openCVFunc != nil {
		return m.openCVFunc(ctx, actor, userID)
	}
	return nil, errNotImplemented
}
