package model

import (
	"fmt"
	"strings"
)

// Role is the role a user registered with.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

// ParseRole normalizes input. "employer" is accepted as a legacy name for recruiter.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student":
		return RoleStudent, nil
	case "recruiter", "employer":
		return RoleRecruiter, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// CompanyStatus is the moderation state of a company.
type CompanyStatus string

const (
	CompanyPending  CompanyStatus = "pending"
	CompanyApproved CompanyStatus = "approved"
	CompanyRejected CompanyStatus = "rejected"
	CompanyRevoked  CompanyStatus = "revoked"
)

// ParseCompanyStatus accepts only the four company states.
func ParseCompanyStatus(s string) (CompanyStatus, error) {
	status := CompanyStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case CompanyPending, CompanyApproved, CompanyRejected, CompanyRevoked:
		return status, nil
	default:
		return "", fmt.Errorf("unknown company status %q", s)
	}
}

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobApproved JobStatus = "approved"
	JobRejected JobStatus = "rejected"
	JobExpired  JobStatus = "expired"
	JobRevoked  JobStatus = "revoked"
	JobDeleted  JobStatus = "deleted"
)

// AllJobStatuses lists every job state.
var AllJobStatuses = []JobStatus{JobPending, JobApproved, JobRejected, JobExpired, JobRevoked, JobDeleted}

// ParseJobStatus accepts only the six job states.
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllJobStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ParseApplicationStatus accepts pending, accepted and rejected.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return status, nil
	default:
		return "", fmt.Errorf("unknown application status %q", s)
	}
}

// JobCategory is the closed set of job categories.
type JobCategory string

const (
	CategoryEngineering JobCategory = "Engineering"
	CategoryDesign      JobCategory = "Design"
	CategoryMarketing   JobCategory = "Marketing"
	CategoryHR          JobCategory = "HR"
	CategorySales       JobCategory = "Sales"
	CategoryHealth      JobCategory = "Health"
	CategoryAccounting  JobCategory = "Accounting"
)

var jobCategories = []JobCategory{
	CategoryEngineering, CategoryDesign, CategoryMarketing, CategoryHR,
	CategorySales, CategoryHealth, CategoryAccounting,
}

// ParseJobCategory matches case-insensitively and returns the canonical spelling.
// "Accountant" is accepted as an older name of Accounting.
func ParseJobCategory(s string) (JobCategory, error) {
	trimmed := strings.TrimSpace(s)
	if strings.EqualFold(trimmed, "accountant") {
		return CategoryAccounting, nil
	}
	for _, c := range jobCategories {
		if strings.EqualFold(trimmed, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown job category %q", s)
}

// JobType is the closed set of employment types.
type JobType string

const (
	JobTypeOnsite     JobType = "onsite"
	JobTypeRemote     JobType = "remote"
	JobTypeHybrid     JobType = "hybrid"
	JobTypeFulltime   JobType = "fulltime"
	JobTypeParttime   JobType = "parttime"
	JobTypeInternship JobType = "internship"
)

var jobTypes = []JobType{JobTypeOnsite, JobTypeRemote, JobTypeHybrid, JobTypeFulltime, JobTypeParttime, JobTypeInternship}

// ParseJobType matches case-insensitively.
func ParseJobType(s string) (JobType, error) {
	t := JobType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range jobTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown job type %q", s)
}
