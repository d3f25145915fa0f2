package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"gorm.io/gorm"
)

func setupTestJobService(t *testing.T) (*jobService, *mockJobRepository, *mockCompanyRepository, *mockSweeps) {
	t.Helper()
	jobs := &mockJobRepository{}
	companies := &mockCompanyRepository{}
	sweeps := &mockSweeps{}
	svc := NewJobService(jobs, companies, sweeps).(*jobService)
	svc.now = fixedClock
	return svc, jobs, companies, sweeps
}

func ownedJob(status model.JobStatus, expiresAt time.Time) *model.Job {
	return &model.Job{
		ID:        8,
		Title:     "Backend Intern",
		Status:    status,
		ExpiresAt: expiresAt,
		CompanyID: 3,
		Company:   &model.Company{ID: 3, RecruiterUserID: recruiter.ID, Status: model.CompanyApproved},
	}
}

func validJobRequest() JobRequest {
	return JobRequest{
		Title:        "Backend Intern",
		Description:  "Build APIs",
		Requirements: []string{" Go ", ""},
		Location:     "Addis Ababa",
		Salary:       model.NumericSalary(1500),
		Category:     "Engineering",
		JobType:      "internship",
		ExpiresAt:    testNow.Add(30 * 24 * time.Hour),
	}
}

func TestJobListSweepsBeforeQuery(t *testing.T) {
	svc, jobs, _, sweeps := setupTestJobService(t)
	var calls []string
	sweeps.sweepFunc = func(ctx context.Context, trigger string) (int64, error) {
		if trigger != TriggerListing {
			t.Errorf("trigger = %q", trigger)
		}
		calls = append(calls, "sweep")
		return 1, nil
	}
	var got repository.JobQuery
	jobs.listFunc = func(ctx context.Context, q repository.JobQuery) (*model.JobPage, error) {
		calls = append(calls, "list")
		got = q
		return &model.JobPage{Jobs: []model.Job{}, CurrentPage: q.Page}, nil
	}

	_, err := svc.List(context.Background(), student, ListJobsRequest{Status: "pending", Page: 0, Limit: 500})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(calls) != 2 || calls[0] != "sweep" || calls[1] != "list" {
		t.Fatalf("calls = %v, want sweep then list", calls)
	}
	if len(got.Statuses) != 1 || got.Statuses[0] != model.JobApproved {
		t.Errorf("non-admin statuses = %v, want [approved]", got.Statuses)
	}
	if got.OpenAt == nil || !got.OpenAt.Equal(testNow) {
		t.Errorf("OpenAt = %v, want %v", got.OpenAt, testNow)
	}
	if got.Page != 1 || got.Limit != MaxPageSize {
		t.Errorf("page/limit = %d/%d", got.Page, got.Limit)
	}
}

func TestJobListSweepFailureFailsListing(t *testing.T) {
	svc, jobs, _, sweeps := setupTestJobService(t)
	sweeps.sweepFunc = func(ctx context.Context, trigger string) (int64, error) {
		return 0, errors.New("connection reset")
	}
	jobs.listFunc = func(ctx context.Context, q repository.JobQuery) (*model.JobPage, error) {
		t.Fatal("listing must not run after a failed sweep")
		return nil, nil
	}

	_, err := svc.List(context.Background(), nil, ListJobsRequest{})
	assertKind(t, err, apperror.KindInternal)
}

func TestJobListAdminStatuses(t *testing.T) {
	tests := []struct {
		status     string
		want       []model.JobStatus
		wantOpenAt bool
	}{
		{"", []model.JobStatus{model.JobApproved}, true},
		{"pending", []model.JobStatus{model.JobPending}, false},
		{"all", []model.JobStatus{model.JobPending, model.JobApproved, model.JobRejected, model.JobExpired, model.JobRevoked}, false},
	}

	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			svc, jobs, _, _ := setupTestJobService(t)
			var got repository.JobQuery
			jobs.listFunc = func(ctx context.Context, q repository.JobQuery) (*model.JobPage, error) {
				got = q
				return &model.JobPage{Jobs: []model.Job{}}, nil
			}

			if _, err := svc.List(context.Background(), admin, ListJobsRequest{Status: tt.status}); err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(got.Statuses) != len(tt.want) {
				t.Fatalf("statuses = %v, want %v", got.Statuses, tt.want)
			}
			for i := range tt.want {
				if got.Statuses[i] != tt.want[i] {
					t.Errorf("statuses = %v, want %v", got.Statuses, tt.want)
				}
			}
			if (got.OpenAt != nil) != tt.wantOpenAt {
				t.Errorf("OpenAt set = %v, want %v", got.OpenAt != nil, tt.wantOpenAt)
			}
			if got.Limit != DefaultPageSize {
				t.Errorf("limit = %d, want default %d", got.Limit, DefaultPageSize)
			}
		})
	}
}

func TestJobListRejectsBadFilters(t *testing.T) {
	svc, _, _, sweeps := setupTestJobService(t)
	sweeps.sweepFunc = func(ctx context.Context, trigger string) (int64, error) {
		t.Fatal("invalid query must not sweep")
		return 0, nil
	}
	negative := -1.0

	_, err := svc.List(context.Background(), admin, ListJobsRequest{
		GPA: &negative, JobType: "freelance", Category: "Cooking", Status: "archived",
	})
	assertKind(t, err, apperror.KindValidation)

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("error type = %T", err)
	}
	for _, field := range []string{"gpa", "jobType", "category", "status"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Errorf("missing field error for %s: %v", field, appErr.Fields)
		}
	}
}

func TestJobGetVisibility(t *testing.T) {
	future := testNow.Add(time.Hour)
	past := testNow.Add(-time.Hour)
	other := &Actor{ID: 99, Role: model.RoleRecruiter}

	tests := []struct {
		name       string
		actor      *Actor
		job        *model.Job
		wantKind   apperror.Kind
		wantStatus model.JobStatus
	}{
		{"public sees open job", nil, ownedJob(model.JobApproved, future), "", model.JobApproved},
		{"public cannot see pending job", nil, ownedJob(model.JobPending, future), apperror.KindNotFound, ""},
		{"public cannot see job past deadline", student, ownedJob(model.JobApproved, past), apperror.KindNotFound, ""},
		{"other recruiter cannot see pending job", other, ownedJob(model.JobPending, future), apperror.KindNotFound, ""},
		{"owner sees pending job", recruiter, ownedJob(model.JobPending, future), "", model.JobPending},
		{"owner sees lapsed job as expired", recruiter, ownedJob(model.JobApproved, past), "", model.JobExpired},
		{"owner cannot see deleted job", recruiter, ownedJob(model.JobDeleted, future), apperror.KindNotFound, ""},
		{"admin sees deleted job", admin, ownedJob(model.JobDeleted, future), "", model.JobDeleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, jobs, _, _ := setupTestJobService(t)
			jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
				return tt.job, nil
			}

			job, err := svc.Get(context.Background(), tt.actor, 8)
			if tt.wantKind != "" {
				assertKind(t, err, tt.wantKind)
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if job.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", job.Status, tt.wantStatus)
			}
		})
	}
}

func TestJobCreate(t *testing.T) {
	t.Run("approved company posts pending job", func(t *testing.T) {
		svc, jobs, companies, _ := setupTestJobService(t)
		companies.findByRecruiterFunc = func(ctx context.Context, recruiterID uint) (*model.Company, error) {
			return &model.Company{ID: 3, Status: model.CompanyApproved}, nil
		}
		jobs.createFunc = func(ctx context.Context, job *model.Job) error {
			job.ID = 11
			return nil
		}

		job, err := svc.Create(context.Background(), recruiter, validJobRequest())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if job.Status != model.JobPending || job.CompanyID != 3 {
			t.Errorf("job = %+v", job)
		}
		if len(job.Requirements) != 1 || job.Requirements[0] != "Go" {
			t.Errorf("requirements = %v", job.Requirements)
		}
	})

	t.Run("pending company is forbidden", func(t *testing.T) {
		svc, jobs, companies, _ := setupTestJobService(t)
		companies.findByRecruiterFunc = func(ctx context.Context, recruiterID uint) (*model.Company, error) {
			return &model.Company{ID: 3, Status: model.CompanyPending}, nil
		}
		jobs.createFunc = func(ctx context.Context, job *model.Job) error {
			t.Fatal("job must not be stored")
			return nil
		}
		_, err := svc.Create(context.Background(), recruiter, validJobRequest())
		assertKind(t, err, apperror.KindForbidden)
	})

	t.Run("recruiter without company", func(t *testing.T) {
		svc, _, companies, _ := setupTestJobService(t)
		companies.findByRecruiterFunc = func(ctx context.Context, recruiterID uint) (*model.Company, error) {
			return nil, gorm.ErrRecordNotFound
		}
		_, err := svc.Create(context.Background(), recruiter, validJobRequest())
		assertKind(t, err, apperror.KindNotFound)
	})

	t.Run("deadline in the past", func(t *testing.T) {
		svc, _, companies, _ := setupTestJobService(t)
		companies.findByRecruiterFunc = func(ctx context.Context, recruiterID uint) (*model.Company, error) {
			return &model.Company{ID: 3, Status: model.CompanyApproved}, nil
		}
		req := validJobRequest()
		req.ExpiresAt = testNow.Add(-time.Minute)
		_, err := svc.Create(context.Background(), recruiter, req)
		assertKind(t, err, apperror.KindValidation)
	})

	t.Run("student is forbidden", func(t *testing.T) {
		svc, _, _, _ := setupTestJobService(t)
		_, err := svc.Create(context.Background(), student, validJobRequest())
		assertKind(t, err, apperror.KindForbidden)
	})
}

func TestJobUpdateByOwnerResetsToPending(t *testing.T) {
	svc, jobs, _, _ := setupTestJobService(t)
	jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
		return ownedJob(model.JobApproved, testNow.Add(time.Hour)), nil
	}
	var saved *model.Job
	var savedFrom model.JobStatus
	jobs.updateFunc = func(ctx context.Context, job *model.Job, from model.JobStatus) error {
		saved = job
		savedFrom = from
		return nil
	}

	if _, err := svc.Update(context.Background(), recruiter, 8, validJobRequest()); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if saved.Status != model.JobPending {
		t.Errorf("status = %s, want pending", saved.Status)
	}
	if savedFrom != model.JobApproved {
		t.Errorf("update conditioned on %s, want approved", savedFrom)
	}
}

func TestJobUpdateLosesToConcurrentCascade(t *testing.T) {
	svc, jobs, _, _ := setupTestJobService(t)
	jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
		return ownedJob(model.JobApproved, testNow.Add(time.Hour)), nil
	}
	jobs.updateFunc = func(ctx context.Context, job *model.Job, from model.JobStatus) error {
		return repository.ErrStaleStatus
	}

	_, err := svc.Update(context.Background(), recruiter, 8, validJobRequest())
	assertKind(t, err, apperror.KindConflict)
}

func TestJobUpdateRejected(t *testing.T) {
	other := &Actor{ID: 99, Role: model.RoleRecruiter}
	tests := []struct {
		name     string
		actor    *Actor
		job      *model.Job
		wantKind apperror.Kind
	}{
		{"not the owner", other, ownedJob(model.JobPending, testNow.Add(time.Hour)), apperror.KindForbidden},
		{"revoked job", recruiter, ownedJob(model.JobRevoked, testNow.Add(time.Hour)), apperror.KindValidation},
		{"lapsed job", recruiter, ownedJob(model.JobApproved, testNow.Add(-time.Hour)), apperror.KindValidation},
		{"deleted job", admin, ownedJob(model.JobDeleted, testNow.Add(time.Hour)), apperror.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, jobs, _, _ := setupTestJobService(t)
			jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
				return tt.job, nil
			}
			_, err := svc.Update(context.Background(), tt.actor, 8, validJobRequest())
			assertKind(t, err, tt.wantKind)
		})
	}
}

func TestJobSetStatus(t *testing.T) {
	tests := []struct {
		name      string
		actor     *Actor
		status    string
		job       *model.Job
		updateErr error
		wantKind  apperror.Kind
	}{
		{"admin approves pending job", admin, "approved", ownedJob(model.JobPending, testNow.Add(time.Hour)), nil, ""},
		{"admin rejects approved job", admin, "rejected", ownedJob(model.JobApproved, testNow.Add(time.Hour)), nil, ""},
		{"recruiter cannot review", recruiter, "approved", ownedJob(model.JobPending, testNow.Add(time.Hour)), nil, apperror.KindForbidden},
		{"revoked is not admin settable", admin, "revoked", ownedJob(model.JobPending, testNow.Add(time.Hour)), nil, apperror.KindValidation},
		{"cannot approve lapsed job", admin, "approved", ownedJob(model.JobPending, testNow.Add(-time.Hour)), nil, apperror.KindValidation},
		{"cannot approve revoked job", admin, "approved", ownedJob(model.JobRevoked, testNow.Add(time.Hour)), nil, apperror.KindValidation},
		{"concurrent change", admin, "approved", ownedJob(model.JobPending, testNow.Add(time.Hour)), repository.ErrStaleStatus, apperror.KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, jobs, _, _ := setupTestJobService(t)
			jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
				return tt.job, nil
			}
			jobs.updateStatusFunc = func(ctx context.Context, id uint, from, to model.JobStatus) error {
				return tt.updateErr
			}

			job, err := svc.SetStatus(context.Background(), tt.actor, 8, tt.status)
			if tt.wantKind != "" {
				assertKind(t, err, tt.wantKind)
				return
			}
			if err != nil {
				t.Fatalf("SetStatus() error = %v", err)
			}
			if string(job.Status) != tt.status {
				t.Errorf("status = %s, want %s", job.Status, tt.status)
			}
		})
	}
}

func TestJobApproveRequiresApprovedCompany(t *testing.T) {
	svc, jobs, _, _ := setupTestJobService(t)
	job := ownedJob(model.JobPending, testNow.Add(time.Hour))
	job.Company.Status = model.CompanyRevoked
	jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
		return job, nil
	}

	_, err := svc.SetStatus(context.Background(), admin, 8, "approved")
	assertKind(t, err, apperror.KindValidation)
}

func TestJobDelete(t *testing.T) {
	t.Run("owner deletes with audit entry", func(t *testing.T) {
		svc, jobs, _, _ := setupTestJobService(t)
		jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
			return ownedJob(model.JobApproved, testNow.Add(time.Hour)), nil
		}
		var audit *model.AuditLog
		jobs.softDeleteFunc = func(ctx context.Context, id uint, from model.JobStatus, entry *model.AuditLog) error {
			if from != model.JobApproved {
				t.Errorf("from = %s", from)
			}
			audit = entry
			return nil
		}

		if err := svc.Delete(context.Background(), recruiter, 8); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if audit == nil || audit.Action != "delete_job" || audit.EntityID != 8 || audit.PerformedBy != recruiter.ID {
			t.Errorf("audit = %+v", audit)
		}
	})

	t.Run("other recruiter is forbidden", func(t *testing.T) {
		svc, jobs, _, _ := setupTestJobService(t)
		jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
			return ownedJob(model.JobApproved, testNow.Add(time.Hour)), nil
		}
		err := svc.Delete(context.Background(), &Actor{ID: 99, Role: model.RoleRecruiter}, 8)
		assertKind(t, err, apperror.KindForbidden)
	})

	t.Run("already deleted", func(t *testing.T) {
		svc, jobs, _, _ := setupTestJobService(t)
		jobs.findByIDFunc = func(ctx context.Context, id uint) (*model.Job, error) {
			return ownedJob(model.JobDeleted, testNow.Add(time.Hour)), nil
		}
		err := svc.Delete(context.Background(), admin, 8)
		assertKind(t, err, apperror.KindNotFound)
	})
}

func TestJobMineWithoutCompany(t *testing.T) {
	svc, _, companies, _ := setupTestJobService(t)
	companies.findByRecruiterFunc = func(ctx context.Context, recruiterID uint) (*model.Company, error) {
		return nil, gorm.ErrRecordNotFound
	}

	jobs, err := svc.Mine(context.Background(), recruiter)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if jobs == nil || len(jobs) != 0 {
		t.Errorf("jobs = %v, want empty slice", jobs)
	}
}

func TestJobMineSweepsStaleJobs(t *testing.T) {
	svc, jobs, companies, sweeps := setupTestJobService(t)
	companies.findByRecruiterFunc = func(ctx context.Context, recruiterID uint) (*model.Company, error) {
		return &model.Company{ID: 3, RecruiterUserID: recruiterID, Status: model.CompanyApproved}, nil
	}
	jobs.listByCompanyFunc = func(ctx context.Context, companyID uint) ([]model.Job, error) {
		return []model.Job{
			{ID: 1, CompanyID: companyID, Status: model.JobApproved, ExpiresAt: testNow.Add(-time.Hour)},
			{ID: 2, CompanyID: companyID, Status: model.JobApproved, ExpiresAt: testNow.Add(time.Hour)},
			{ID: 3, CompanyID: companyID, Status: model.JobRejected, ExpiresAt: testNow.Add(-time.Hour)},
		}, nil
	}
	swept := 0
	sweeps.sweepFunc = func(ctx context.Context, trigger string) (int64, error) {
		swept++
		return 0, errors.New("db down")
	}

	got, err := svc.Mine(context.Background(), recruiter)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	if swept != 1 {
		t.Errorf("sweeps = %d, want 1", swept)
	}
	want := []model.JobStatus{model.JobExpired, model.JobApproved, model.JobRejected}
	for i, j := range got {
		if j.Status != want[i] {
			t.Errorf("job %d status = %s, want %s", j.ID, j.Status, want[i])
		}
	}
}

func TestJobAdminViewsForbidden(t *testing.T) {
	svc, _, _, _ := setupTestJobService(t)
	_, err := svc.Pending(context.Background(), recruiter)
	assertKind(t, err, apperror.KindForbidden)
	_, err = svc.Stats(context.Background(), student)
	assertKind(t, err, apperror.KindForbidden)
}
