package service

import (
	"context"
	"strings"
	"time"

	"github.com/AbdiAhmed6457/job-portal/internal/apperror"
	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/repository"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/AbdiAhmed6457/job-portal/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the self-registration payload.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(email string, userID uint, role string) (string, time.Time, error)
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, actor *Actor) (*model.User, error)
	EnsureAdmin(ctx context.Context, name, email, password string) (bool, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
}

func NewAuthService(users repository.UserRepository, tokens TokenIssuer) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		cost:   bcrypt.DefaultCost,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil || role == model.RoleAdmin {
		return nil, apperror.ValidationFields("Invalid role", map[string]string{
			"role": "must be student or recruiter",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		prometheus.RecordAuthError("email_taken")
		return nil, apperror.Conflict("Email already registered")
	} else if !repository.IsNotFound(err) {
		return nil, internal(ctx, "register", nil, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, internal(ctx, "register", nil, err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, internal(ctx, "register", nil, err)
	}

	prometheus.RegisterCounter.WithLabelValues(string(role)).Inc()
	logger.FromContext(ctx).Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(role)))
	return user, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	log := logger.FromContext(ctx)
	prometheus.LoginCounter.Inc()

	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, internal(ctx, "login", nil, err)
		}
		prometheus.RecordAuthError("invalid_credentials")
		log.Warn("Login for unknown email")
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		prometheus.RecordAuthError("invalid_credentials")
		log.Warn("Invalid password", zap.Uint("user_id", user.ID))
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	if !user.IsActive {
		prometheus.RecordAuthError("inactive_user")
		return nil, apperror.Forbidden("Account is disabled")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.Email, user.ID, string(user.Role))
	if err != nil {
		return nil, internal(ctx, "login", nil, err, zap.Uint("user_id", user.ID))
	}

	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return &LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *authService) Me(ctx context.Context, actor *Actor) (*model.User, error) {
	if actor == nil {
		return nil, apperror.Unauthorized("Authentication required")
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, notFoundOr(ctx, "me", actor, err, "User not found")
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
// It reports whether an account was created.
func (s *authService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if email == "" {
		return false, nil
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != model.RoleAdmin {
			logger.FromContext(ctx).Warn("Bootstrap admin email belongs to a non-admin account",
				zap.Uint("user_id", existing.ID))
		}
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, err
	}
	admin := &model.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsVerified:   true,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
