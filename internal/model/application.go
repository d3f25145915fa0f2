package model

import "time"

// Application is a student's submission to a job. A student applies to a job at most once.
type Application struct {
	ID            uint              `json:"id" gorm:"primaryKey"`
	CoverLetter   *string           `json:"cover_letter,omitempty" gorm:"type:text"`
	CVRef         *string           `json:"cv_ref,omitempty" gorm:"type:varchar(255)"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:pending"`
	JobID         uint              `json:"job_id" gorm:"not null;uniqueIndex:idx_application_job_student"`
	StudentUserID uint              `json:"student_user_id" gorm:"not null;uniqueIndex:idx_application_job_student;index"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Job     *Job  `json:"job,omitempty" gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Student *User `json:"student,omitempty" gorm:"foreignKey:StudentUserID;constraint:OnDelete:CASCADE"`
}

// AuditLog records destructive actions. Rows are never updated or deleted.
type AuditLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Action      string    `json:"action" gorm:"type:varchar(50);not null"`
	Entity      string    `json:"entity" gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID    uint      `json:"entity_id" gorm:"not null;index:idx_audit_entity"`
	PerformedBy uint      `json:"performed_by" gorm:"not null"`
	PerformedAt time.Time `json:"performed_at" gorm:"not null"`
	Details     string    `json:"details,omitempty" gorm:"type:text"`
}

// Models lists everything AutoMigrate must create, parents first.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&StudentProfile{},
		&Company{},
		&Job{},
		&Application{},
		&AuditLog{},
	}
}
