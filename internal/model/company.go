package model

import "time"

// Company is the organisation a recruiter posts jobs for. One per recruiter.
type Company struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	Name            string        `json:"name" gorm:"type:varchar(255);not null"`
	LogoURL         *string       `json:"logo_url,omitempty" gorm:"type:varchar(512)"`
	Location        *string       `json:"location,omitempty" gorm:"type:varchar(255)"`
	RecruiterUserID uint          `json:"recruiter_user_id,omitempty" gorm:"uniqueIndex;not null"`
	Status          CompanyStatus `json:"status,omitempty" gorm:"type:varchar(20);not null;default:pending;index"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	Recruiter *User `json:"recruiter,omitempty" gorm:"foreignKey:RecruiterUserID;constraint:OnDelete:CASCADE"`
}

// CompanyJobStats is the per-company job count shown to admins.
type CompanyJobStats struct {
	CompanyID   uint   `json:"company_id"`
	CompanyName string `json:"company_name"`
	JobCount    int64  `json:"job_count"`
}
