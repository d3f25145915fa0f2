package repository

import (
	"context"
	"fmt"

	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StudentProfileRepository defines the interface for student profile data operations.
type StudentProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.StudentProfile, error)
	Save(ctx context.Context, profile *model.StudentProfile) error
}

type studentProfileRepository struct {
	db *gorm.DB
}

// NewStudentProfileRepository creates a new StudentProfileRepository instance.
func NewStudentProfileRepository(db *gorm.DB) StudentProfileRepository {
	return &studentProfileRepository{db: db}
}

func (r *studentProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to find profile of user %d: %w", userID, err)
	}
	return &profile, nil
}

// Save inserts the profile when it has no id yet and updates it otherwise.
func (r *studentProfileRepository) Save(ctx context.Context, profile *model.StudentProfile) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile of user %d: %w", profile.UserID, err)
	}
	return nil
}
