package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type bursaryRepository interface {
	Create(ctx context.Context, b *models.Bursary) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Bursary, error)
	Update(ctx context.Context, id int64, b *models.Bursary) error
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]models.Bursary, error)
	ListAvailable(ctx context.Context) ([]models.Bursary, error)
}

// BursaryRequest is the create/update payload for a listing.
type BursaryRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description" validate:"required"`
	Eligibility    string  `json:"eligibility"`
	FieldOfStudy   string  `json:"field_of_study"`
	Institution    string  `json:"institution"`
	Sponsor        string  `json:"sponsor"`
	Amount         float64 `json:"amount" validate:"gte=0"`
	ClosingDate    string  `json:"closing_date" validate:"required"`
	ApplicationURL string  `json:"application_url"`
	ContactEmail   string  `json:"contact_email" validate:"omitempty,email"`
	Tags           string  `json:"tags"`
}

// BursaryService manages bursary listings.
type BursaryService struct {
	repo      bursaryRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBursaryService constructs a BursaryService.
func NewBursaryService(repo bursaryRepository, validate *validator.Validate, logger *zap.Logger) *BursaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BursaryService{repo: repo, validator: validate, logger: logger}
}

// Create publishes a new listing owned by the calling admin.
func (s *BursaryService) Create(ctx context.Context, createdBy int64, req BursaryRequest) (*models.Bursary, error) {
	bursary, err := s.toModel(req)
	if err != nil {
		return nil, err
	}
	bursary.CreatedBy = createdBy

	id, err := s.repo.Create(ctx, bursary)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create bursary")
	}
	return s.Get(ctx, id)
}

// Get fetches a single listing.
func (s *BursaryService) Get(ctx context.Context, id int64) (*models.Bursary, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bursary id is required")
	}
	bursary, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "bursary not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch bursary")
	}
	return bursary, nil
}

// Update overwrites a listing's fields. Missing rows are not-found, not a
// silent no-op.
func (s *BursaryService) Update(ctx context.Context, id int64, req BursaryRequest) (*models.Bursary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	bursary, err := s.toModel(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, bursary); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bursary")
	}
	return s.Get(ctx, id)
}

// Delete removes a listing.
func (s *BursaryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete bursary")
	}
	return nil
}

// ListAll returns every listing for the admin console, newest first.
func (s *BursaryService) ListAll(ctx context.Context) ([]models.Bursary, error) {
	bursaries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bursaries")
	}
	return bursaries, nil
}

// ListAvailable returns the public feed of active, verified listings.
func (s *BursaryService) ListAvailable(ctx context.Context) ([]models.Bursary, error) {
	bursaries, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list available bursaries")
	}
	return bursaries, nil
}

func (s *BursaryService) toModel(req BursaryRequest) (*models.Bursary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title, description and closing_date are required")
	}
	closing, err := time.Parse("2006-01-02", req.ClosingDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "closing_date must be YYYY-MM-DD")
	}
	return &models.Bursary{
		Title:          req.Title,
		Description:    req.Description,
		Eligibility:    req.Eligibility,
		FieldOfStudy:   req.FieldOfStudy,
		Institution:    req.Institution,
		Sponsor:        req.Sponsor,
		Amount:         req.Amount,
		ClosingDate:    closing,
		ApplicationURL: req.ApplicationURL,
		ContactEmail:   req.ContactEmail,
		Tags:           req.Tags,
	}, nil
}
