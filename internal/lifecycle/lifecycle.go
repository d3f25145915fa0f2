// Package lifecycle holds the status transition rules for companies and jobs.
// Everything here is pure; callers persist the results.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/model"
)

// TransitionError is returned when a status change is not allowed.
type TransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *TransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("%s is already %s", e.Entity, e.To)
	}
	return fmt.Sprintf("%s cannot move from %s to %s", e.Entity, e.From, e.To)
}

var companyTransitions = map[model.CompanyStatus][]model.CompanyStatus{
	model.CompanyPending:  {model.CompanyApproved, model.CompanyRejected},
	model.CompanyApproved: {model.CompanyRevoked, model.CompanyRejected},
	model.CompanyRejected: {model.CompanyApproved},
	model.CompanyRevoked:  {model.CompanyApproved},
}

var jobTransitions = map[model.JobStatus][]model.JobStatus{
	model.JobPending:  {model.JobApproved, model.JobRejected, model.JobRevoked, model.JobExpired, model.JobDeleted},
	model.JobApproved: {model.JobRejected, model.JobExpired, model.JobRevoked, model.JobPending, model.JobDeleted},
	model.JobRejected: {model.JobApproved, model.JobDeleted},
	model.JobExpired:  {model.JobDeleted},
	model.JobRevoked:  {model.JobDeleted},
}

// ExpirableJobStatuses are the states the sweeper moves to expired.
var ExpirableJobStatuses = []model.JobStatus{model.JobPending, model.JobApproved}

// CascadeSourceJobStatuses are the job states revoked when their company is rejected or revoked.
var CascadeSourceJobStatuses = []model.JobStatus{model.JobPending, model.JobApproved}

// CompanyCascade describes the job updates that must accompany a company transition.
type CompanyCascade struct {
	RevokeJobs bool
	From       []model.JobStatus
	To         model.JobStatus
}

// CompanyTransition validates a company status change and returns the cascade
// that has to be applied to the company's jobs in the same transaction.
// Re-approval never reinstates jobs.
func CompanyTransition(from, to model.CompanyStatus) (CompanyCascade, error) {
	if !allowed(companyTransitions[from], to) {
		return CompanyCascade{}, &TransitionError{Entity: "company", From: string(from), To: string(to)}
	}
	if to == model.CompanyRejected || to == model.CompanyRevoked {
		return CompanyCascade{RevokeJobs: true, From: CascadeSourceJobStatuses, To: model.JobRevoked}, nil
	}
	return CompanyCascade{}, nil
}

// CanTransitionJob reports whether a job may move between the two states.
func CanTransitionJob(from, to model.JobStatus) error {
	if !allowed(jobTransitions[from], to) {
		return &TransitionError{Entity: "job", From: string(from), To: string(to)}
	}
	return nil
}

// AdminSettableJobStatus reports whether an admin may set the status directly.
func AdminSettableJobStatus(s model.JobStatus) bool {
	return s == model.JobApproved || s == model.JobRejected
}

// OwnerEditable reports whether the owning recruiter may still edit the job.
// An owner edit sends the job back to pending.
func OwnerEditable(s model.JobStatus) bool {
	return s == model.JobPending || s == model.JobApproved
}

// IsExpired reports whether a job in the given state is past its deadline.
// Only pending and approved jobs can expire.
func IsExpired(status model.JobStatus, expiresAt, now time.Time) bool {
	if !allowed(ExpirableJobStatuses, status) {
		return false
	}
	return expiresAt.Before(now)
}

// ExpiredJobIDs returns the ids of jobs a sweep at now would move to expired.
func ExpiredJobIDs(jobs []model.Job, now time.Time) []uint {
	var ids []uint
	for _, j := range jobs {
		if IsExpired(j.Status, j.ExpiresAt, now) {
			ids = append(ids, j.ID)
		}
	}
	return ids
}

// IsOpen reports whether students can see and apply to the job.
func IsOpen(status model.JobStatus, expiresAt, now time.Time) bool {
	return status == model.JobApproved && expiresAt.After(now)
}

// CompanyCanPost reports whether a company's recruiter may create or edit jobs.
func CompanyCanPost(s model.CompanyStatus) bool {
	return s == model.CompanyApproved
}

func allowed[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
