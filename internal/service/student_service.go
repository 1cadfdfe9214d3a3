package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type studentRepository interface {
	FindProfileByID(ctx context.Context, id int64) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, id int64, phone, institution, fieldOfStudy, yearOfStudy string) error
	List(ctx context.Context) ([]models.StudentSummary, error)
}

// UpdateStudentProfileRequest carries the mutable profile fields.
type UpdateStudentProfileRequest struct {
	Phone        string `json:"phone"`
	Institution  string `json:"institution"`
	FieldOfStudy string `json:"field_of_study"`
	YearOfStudy  string `json:"year_of_study"`
}

// StudentService exposes student profile reads and updates.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Profile returns the student's profile fields.
func (s *StudentService) Profile(ctx context.Context, id int64) (*models.StudentProfile, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	profile, err := s.repo.FindProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student profile")
	}
	return profile, nil
}

// UpdateProfile overwrites the mutable fields and returns the fresh profile.
// Identity fields (name, email) are not editable here.
func (s *StudentService) UpdateProfile(ctx context.Context, id int64, req UpdateStudentProfileRequest) (*models.StudentProfile, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if err := s.repo.UpdateProfile(ctx, id,
		strings.TrimSpace(req.Phone),
		strings.TrimSpace(req.Institution),
		strings.TrimSpace(req.FieldOfStudy),
		strings.TrimSpace(req.YearOfStudy),
	); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student profile")
	}
	return s.Profile(ctx, id)
}

// List returns every student as a compact summary for admin-side pickers.
func (s *StudentService) List(ctx context.Context) ([]models.StudentSummary, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}
