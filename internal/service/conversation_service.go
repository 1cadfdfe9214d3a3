package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	"github.com/bursary-portal/bursary-api/internal/repository"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type conversationRepository interface {
	FindByPair(ctx context.Context, studentID, adminID int64) (int64, error)
	Create(ctx context.Context, studentID, adminID int64) (int64, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.ConversationPartner, error)
	ListByAdmin(ctx context.Context, adminID int64) ([]models.ConversationPartner, error)
}

// ConversationService resolves and lists the one-per-pair chat channels
// between students and admins.
type ConversationService struct {
	repo   conversationRepository
	logger *zap.Logger
}

// NewConversationService constructs a ConversationService.
func NewConversationService(repo conversationRepository, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{repo: repo, logger: logger}
}

// Resolve returns the conversation id for a (student, admin) pair, creating
// it on first contact; created reports whether this call made the row.
// Resolving is idempotent: a concurrent create that loses to the pair's
// unique constraint falls back to the winner's row.
func (s *ConversationService) Resolve(ctx context.Context, studentID, adminID int64) (id int64, created bool, err error) {
	if studentID <= 0 || adminID <= 0 {
		return 0, false, appErrors.Clone(appErrors.ErrValidation, "student_id and admin_id are required")
	}

	id, err = s.repo.FindByPair(ctx, studentID, adminID)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up conversation")
	}

	id, err = s.repo.Create(ctx, studentID, adminID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			id, err = s.repo.FindByPair(ctx, studentID, adminID)
			if err != nil {
				return 0, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up conversation")
			}
			return id, false, nil
		}
		return 0, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create conversation")
	}
	return id, true, nil
}

// ListByStudent returns the admins a student has conversations with.
func (s *ConversationService) ListByStudent(ctx context.Context, studentID int64) ([]models.ConversationPartner, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	partners, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conversations")
	}
	return partners, nil
}

// ListByAdmin returns the students an admin has conversations with.
func (s *ConversationService) ListByAdmin(ctx context.Context, adminID int64) ([]models.ConversationPartner, error) {
	if adminID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "admin id is required")
	}
	partners, err := s.repo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list conversations")
	}
	return partners, nil
}
