package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/pkg/storage"
	"go.uber.org/zap"
)

// ProfileRequest replaces the student's profile. Visible defaults to true.
type ProfileRequest struct {
	University string   `json:"university" validate:"required,max=255"`
	GPA        float64  `json:"gpa" validate:"gte=0,lte=5"`
	Skills     []string `json:"skills" validate:"omitempty,max=50,dive,required,max=100"`
	Visible    *bool    `json:"visible"`
}

type ProfileService interface {
	Get(ctx context.Context, actor *Actor) (*model.StudentProfile, error)
	Upsert(ctx context.Context, actor *Actor, req ProfileRequest) (*model.StudentProfile, error)
	UploadCV(ctx context.Context, actor *Actor, upload CVUpload) (*model.StudentProfile, error)
	OpenCV(ctx context.Context, actor *Actor, userID uint) (*CVFile, error)
}

type profileService struct {
	profiles repository.StudentProfileRepository
	store    storage.Store
	policy   CVPolicy
}

func NewProfileService(profiles repository.StudentProfileRepository, store storage.Store, policy CVPolicy) ProfileService {
	return &profileService{profiles: profiles, store: store, policy: policy}
}

func (s *profileService) Get(ctx context.Context, actor *Actor) (*model.StudentProfile, error) {
	if !actor.IsStudent() {
		return nil, apperror.Forbidden("Only students have a profile")
	}
	profile, err := s.profiles.FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(ctx, "get_profile", actor, err, "Profile not found")
	}
	return profile, nil
}

func (s *profileService) Upsert(ctx context.Context, actor *Actor, req ProfileRequest) (*model.StudentProfile, error) {
	if !actor.IsStudent() {
		return nil, apperror.Forbidden("Only students have a profile")
	}

	profile, err := s.profiles.FindByUserID(ctx, actor.ID)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, internal(ctx, "upsert_profile", actor, err)
		}
		profile = &model.StudentProfile{UserID: actor.ID, Visible: true}
	}

	profile.University = strings.TrimSpace(req.University)
	profile.GPA = req.GPA
	profile.Skills = make([]string, 0, len(req.Skills))
	for _, skill := range req.Skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			profile.Skills = append(profile.Skills, skill)
		}
	}
	if req.Visible != nil {
		profile.Visible = *req.Visible
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, internal(ctx, "upsert_profile", actor, err)
	}
	logger.FromContext(ctx).Info("Student profile saved", zap.Uint("user_id", actor.ID))
	return profile, nil
}

// UploadCV attaches a CV to an existing profile and removes the one it replaces.
func (s *profileService) UploadCV(ctx context.Context, actor *Actor, upload CVUpload) (*model.StudentProfile, error) {
	profile, err := s.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	cv, err := s.policy.Inspect(upload)
	if err != nil {
		var policyErr CVPolicyError
		if errors.As(err, &policyErr) {
			return nil, apperror.ValidationFields("Invalid CV", map[string]string{"cv": policyErr.Error()})
		}
		return nil, internal(ctx, "upload_profile_cv", actor, err)
	}

	ref, err := s.store.Save(ctx, cvFolder, cv.Ext, cv.Reader())
	if err != nil {
		return nil, internal(ctx, "upload_profile_cv", actor, err)
	}

	previous := profile.CVRef
	profile.CVRef = &ref
	if err := s.profiles.Save(ctx, profile); err != nil {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			logger.FromContext(ctx).Warn("Failed to remove orphaned CV",
				zap.String("cv_ref", ref), zap.Error(delErr))
		}
		return nil, internal(ctx, "upload_profile_cv", actor, err)
	}

	if previous != nil {
		if err := s.store.Delete(ctx, *previous); err != nil && !errors.Is(err, storage.ErrNotFound) {
			logger.FromContext(ctx).Warn("Failed to remove replaced CV",
				zap.String("cv_ref", *previous), zap.Error(err))
		}
	}
	return profile, nil
}

// OpenCV serves a student's profile CV to recruiters and admins. A hidden
// profile looks the same as a missing one, except to admins.
func (s *profileService) OpenCV(ctx context.Context, actor *Actor, userID uint) (*CVFile, error) {
	if !actor.IsRecruiter() && !actor.IsAdmin() {
		return nil, apperror.Forbidden("Only recruiters and admins can download CVs")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(ctx, "open_profile_cv", actor, err, "CV not found", zap.Uint("user_id", userID))
	}
	if !profile.Visible && !actor.IsAdmin() {
		return nil, apperror.NotFound("CV not found")
	}
	if profile.CVRef == nil {
		return nil, apperror.NotFound("CV not found")
	}

	content, err := s.store.Open(ctx, *profile.CVRef)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.NotFound("CV file not found")
		}
		return nil, internal(ctx, "open_profile_cv", actor, err, zap.Uint("user_id", userID))
	}
	ext := path.Ext(*profile.CVRef)
	return &CVFile{
		Name:    fmt.Sprintf("student-%d-cv%s", userID, ext),
		MIME:    cvMIME(ext),
		Content: content,
	}, nil
}
