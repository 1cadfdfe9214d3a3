package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	"github.com/bursary-portal/bursary-api/internal/repository"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type adminRepository interface {
	FindProfileByID(ctx context.Context, id int64) (*models.AdminProfile, error)
	UpdateProfile(ctx context.Context, id int64, fullName, email, role string) error
	List(ctx context.Context) ([]models.AdminSummary, error)
}

// UpdateAdminProfileRequest carries the mutable admin profile fields.
type UpdateAdminProfileRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role"`
}

// AdminService exposes admin profile reads and updates.
type AdminService struct {
	repo      adminRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService constructs an AdminService.
func NewAdminService(repo adminRepository, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdminService{repo: repo, validator: validate, logger: logger}
}

// Profile returns the admin's profile fields.
func (s *AdminService) Profile(ctx context.Context, id int64) (*models.AdminProfile, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admin id is required")
	}
	profile, err := s.repo.FindProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "admin not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch admin profile")
	}
	return profile, nil
}

// UpdateProfile overwrites name, email and role, then returns the fresh
// profile. Role keeps its current value when omitted.
func (s *AdminService) UpdateProfile(ctx context.Context, id int64, req UpdateAdminProfileRequest) (*models.AdminProfile, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admin id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "full_name and email are required")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		current, err := s.Profile(ctx, id)
		if err != nil {
			return nil, err
		}
		role = current.Role
	}

	if err := s.repo.UpdateProfile(ctx, id,
		strings.TrimSpace(req.FullName),
		strings.ToLower(strings.TrimSpace(req.Email)),
		role,
	); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update admin profile")
	}
	return s.Profile(ctx, id)
}

// List returns every admin as a compact summary for student-side pickers.
func (s *AdminService) List(ctx context.Context) ([]models.AdminSummary, error) {
	admins, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list admins")
	}
	return admins, nil
}
