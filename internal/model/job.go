package model

import "time"

// Job is a posting owned by a company
type Job struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Title        string      `json:"title" gorm:"type:varchar(255);not null"`
	Description  string      `json:"description" gorm:"type:text"`
	Requirements []string    `json:"requirements" gorm:"serializer:json;type:text"`
	GPAMin       *float64    `json:"gpa_min,omitempty"`
	Location     string      `json:"location" gorm:"type:varchar(255)"`
	Salary       Salary      `json:"salary" gorm:"embedded;embeddedPrefix:salary_"`
	Category     JobCategory `json:"category" gorm:"type:varchar(40);index"`
	JobType      JobType     `json:"job_type" gorm:"type:varchar(20);index"`
	ExpiresAt    time.Time   `json:"expires_at" gorm:"not null;index"`
	Status       JobStatus   `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	CompanyID    uint        `json:"company_id" gorm:"not null;index"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// JobPage is one page of a job listing.
type JobPage struct {
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Jobs        []Job `json:"jobs"`
}
