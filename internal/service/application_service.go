package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	"github.com/bursary-portal/bursary-api/internal/repository"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/export"
	"github.com/bursary-portal/bursary-api/pkg/mailer"
)

type applicationRepository interface {
	FindByPair(ctx context.Context, studentID, bursaryID int64) (*models.Application, error)
	CreateWithInitialStatus(ctx context.Context, studentID, bursaryID int64) (int64, error)
	DeleteByPair(ctx context.Context, studentID, bursaryID int64) (int64, error)
	AppendStatus(ctx context.Context, update *models.StatusUpdate) error
	ListOverviews(ctx context.Context) ([]models.ApplicationOverview, error)
	ListHistory(ctx context.Context, applicationIDs []int64) ([]models.StatusUpdate, error)
	ListBursaryIDsByStudent(ctx context.Context, studentID int64) ([]int64, error)
	FindContactByPair(ctx context.Context, studentID, bursaryID int64) (*models.ApplicantContact, error)
	FindContactByApplication(ctx context.Context, applicationID int64) (*models.ApplicantContact, error)
}

type notificationDispatcher interface {
	Enqueue(msg mailer.Message)
	Send(msg mailer.Message) error
}

// SubmitApplicationRequest is the submission payload.
type SubmitApplicationRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	BursaryID int64 `json:"bursary_id" validate:"required,gt=0"`
}

// WithdrawApplicationRequest is the withdrawal payload.
type WithdrawApplicationRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	BursaryID int64 `json:"bursary_id" validate:"required,gt=0"`
}

// UpdateStatusRequest appends a history entry to an application.
type UpdateStatusRequest struct {
	ApplicationID      int64       `json:"application_id" validate:"required,gt=0"`
	Status             string      `json:"status" validate:"required"`
	Remarks            string      `json:"remarks"`
	UpdatedBy          int64       `json:"updated_by" validate:"required,gt=0"`
	UpdatedByRole      models.Role `json:"updated_by_role" validate:"required,oneof=student admin"`
	IsVisibleToStudent *bool       `json:"is_visible_to_student"`
	ActionType         string      `json:"action_type"`
	AttachmentURL      string      `json:"attachment_url"`
}

// UpdateStatusResult reports the outcome of a status update, including the
// degraded-notification case where the write landed but no email went out.
type UpdateStatusResult struct {
	Update  *models.StatusUpdate `json:"status_update"`
	Message string               `json:"message"`
}

// ApplicationService manages the application workflow: submission, status
// progression and withdrawal, with history authoritative and notifications
// best-effort.
type ApplicationService struct {
	repo      applicationRepository
	notifier  notificationDispatcher
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repo applicationRepository, notifier notificationDispatcher, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApplicationService{repo: repo, notifier: notifier, metrics: metrics, validator: validate, logger: logger}
}

// Submit creates an application with its initial Submitted history entry and
// queues the confirmation email. Applying twice for the same bursary is a
// conflict.
func (s *ApplicationService) Submit(ctx context.Context, req SubmitApplicationRequest) (int64, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing student_id or bursary_id")
	}

	if _, err := s.repo.FindByPair(ctx, req.StudentID, req.BursaryID); err == nil {
		return 0, appErrors.Clone(appErrors.ErrConflict, "already applied")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing application")
	}

	applicationID, err := s.repo.CreateWithInitialStatus(ctx, req.StudentID, req.BursaryID)
	if err != nil {
		// Two concurrent submissions can both pass the lookup; the pair's
		// unique constraint decides the loser.
		if repository.IsUniqueViolation(err) {
			return 0, appErrors.Clone(appErrors.ErrConflict, "already applied")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}

	if s.metrics != nil {
		s.metrics.IncApplicationSubmitted()
	}

	s.notifyPair(ctx, req.StudentID, req.BursaryID, mailer.ApplicationSubmitted)

	return applicationID, nil
}

// Withdraw deletes the application row. History rows are retained, and a
// withdrawal with no matching row still succeeds. The acknowledgement email
// is best-effort.
func (s *ApplicationService) Withdraw(ctx context.Context, req WithdrawApplicationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing student_id or bursary_id")
	}

	affected, err := s.repo.DeleteByPair(ctx, req.StudentID, req.BursaryID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to withdraw application")
	}
	if affected == 0 {
		s.logger.Info("withdrawal matched no application",
			zap.Int64("student_id", req.StudentID), zap.Int64("bursary_id", req.BursaryID))
		return nil
	}

	if s.metrics != nil {
		s.metrics.IncApplicationWithdrawn()
	}

	s.notifyPair(ctx, req.StudentID, req.BursaryID, mailer.ApplicationWithdrawn)

	return nil
}

// UpdateStatus appends a history entry and syncs current_status atomically,
// then notifies the student synchronously. A failed contact lookup degrades
// to success without email; a failed send is reported as a distinct
// partial-success error.
func (s *ApplicationService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*UpdateStatusResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "missing required fields")
	}

	visible := true
	if req.IsVisibleToStudent != nil {
		visible = *req.IsVisibleToStudent
	}

	update := &models.StatusUpdate{
		ApplicationID:      req.ApplicationID,
		Status:             req.Status,
		Remarks:            req.Remarks,
		UpdatedBy:          req.UpdatedBy,
		UpdatedByRole:      req.UpdatedByRole,
		IsVisibleToStudent: visible,
		ActionType:         req.ActionType,
		AttachmentURL:      req.AttachmentURL,
	}

	if err := s.repo.AppendStatus(ctx, update); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}

	if s.metrics != nil {
		s.metrics.IncStatusUpdate()
	}

	contact, err := s.repo.FindContactByApplication(ctx, req.ApplicationID)
	if err != nil {
		s.logger.Warn("status updated but contact lookup failed",
			zap.Int64("application_id", req.ApplicationID), zap.Error(err))
		return &UpdateStatusResult{Update: update, Message: "status updated but notification skipped"}, nil
	}

	subject, html := mailer.StatusChanged(contact.FullName, contact.BursaryTitle, req.Status, req.Remarks)
	if err := s.notifier.Send(mailer.Message{To: contact.Email, Subject: subject, HTML: html}); err != nil {
		s.logger.Error("status updated but email delivery failed",
			zap.Int64("application_id", req.ApplicationID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrEmailDelivery.Code, appErrors.ErrEmailDelivery.Status, "status updated but failed to send email")
	}

	return &UpdateStatusResult{Update: update, Message: "status updated and email sent"}, nil
}

// ListWithHistory returns the admin register: every application with its
// ordered status history attached. With zero applications the history query
// is skipped entirely.
func (s *ApplicationService) ListWithHistory(ctx context.Context) ([]models.ApplicationOverview, error) {
	overviews, err := s.repo.ListOverviews(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	if len(overviews) == 0 {
		return overviews, nil
	}

	ids := make([]int64, len(overviews))
	for i, o := range overviews {
		ids[i] = o.ApplicationID
	}

	history, err := s.repo.ListHistory(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list status history")
	}

	byApplication := make(map[int64][]models.StatusUpdate, len(overviews))
	for _, h := range history {
		byApplication[h.ApplicationID] = append(byApplication[h.ApplicationID], h)
	}
	for i := range overviews {
		entries := byApplication[overviews[i].ApplicationID]
		if entries == nil {
			entries = []models.StatusUpdate{}
		}
		overviews[i].StatusHistory = entries
	}
	return overviews, nil
}

// ListByStudent returns the bursary ids a student has applied to.
func (s *ApplicationService) ListByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	ids, err := s.repo.ListBursaryIDsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student applications")
	}
	return ids, nil
}

// ExportRegister renders the application register as CSV or PDF.
func (s *ApplicationService) ExportRegister(ctx context.Context, format string) ([]byte, string, error) {
	overviews, err := s.repo.ListOverviews(ctx)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}

	headers := []string{"Application ID", "Student", "Email", "Bursary", "Sponsor", "Amount", "Status", "Applied At"}
	rows := make([]map[string]string, 0, len(overviews))
	for _, o := range overviews {
		rows = append(rows, map[string]string{
			"Application ID": strconv.FormatInt(o.ApplicationID, 10),
			"Student":        o.StudentName,
			"Email":          o.Email,
			"Bursary":        o.BursaryTitle,
			"Sponsor":        o.Sponsor,
			"Amount":         fmt.Sprintf("%.2f", o.Amount),
			"Status":         o.CurrentStatus,
			"Applied At":     o.ApplicationDate.Format("2006-01-02"),
		})
	}
	dataset := export.Dataset{Headers: headers, Rows: rows}

	switch format {
	case "csv", "":
		data, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", nil
	case "pdf":
		data, err := export.NewPDFExporter().Render(dataset, "Bursary Application Register")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// notifyPair renders and enqueues a best-effort notification for a
// (student, bursary) pair. Lookup failures are logged and swallowed.
func (s *ApplicationService) notifyPair(ctx context.Context, studentID, bursaryID int64, render func(fullName, bursaryTitle string) (string, string)) {
	contact, err := s.repo.FindContactByPair(ctx, studentID, bursaryID)
	if err != nil {
		s.logger.Warn("notification contact lookup failed",
			zap.Int64("student_id", studentID), zap.Int64("bursary_id", bursaryID), zap.Error(err))
		return
	}
	subject, html := render(contact.FullName, contact.BursaryTitle)
	s.notifier.Enqueue(mailer.Message{To: contact.Email, Subject: subject, HTML: html})
}
