package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/storage"
)

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.Document, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error)
	ListByApplication(ctx context.Context, applicationID int64) ([]models.Document, error)
	Delete(ctx context.Context, id int64) error
}

// MaxUploadSize caps a single document upload at 10 MiB.
const MaxUploadSize = 10 << 20

var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadDocumentRequest describes an incoming file and its owner.
type UploadDocumentRequest struct {
	ApplicationID  int64
	StudentID      int64
	OriginalName   string
	Size           int64
	FileCategory   string
	UploadedByRole models.Role
	Content        io.Reader
}

// DocumentService stores document blobs on disk and their metadata rows in
// the database. The metadata row is written only after the blob landed.
type DocumentService struct {
	repo   documentRepository
	store  *storage.LocalStorage
	logger *zap.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo documentRepository, store *storage.LocalStorage, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{repo: repo, store: store, logger: logger}
}

// Upload validates the file, writes the blob under a collision-free name and
// records the metadata row. A metadata insert failure rolls the blob back.
func (s *DocumentService) Upload(ctx context.Context, req UploadDocumentRequest) (*models.Document, error) {
	if req.ApplicationID <= 0 || req.StudentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "application_id and student_id are required")
	}
	if req.Content == nil || strings.TrimSpace(req.OriginalName) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if req.Size > MaxUploadSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file exceeds the 10MB limit")
	}

	ext := strings.ToLower(filepath.Ext(req.OriginalName))
	fileType, ok := allowedExtensions[ext]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported file type")
	}

	role := req.UploadedByRole
	if !role.Valid() {
		role = models.RoleStudent
	}

	fileName := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	if _, err := s.store.SaveStream(fileName, io.LimitReader(req.Content, MaxUploadSize)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	doc := &models.Document{
		ApplicationID:  req.ApplicationID,
		StudentID:      req.StudentID,
		FileName:       fileName,
		OriginalName:   req.OriginalName,
		FilePath:       "/uploads/" + fileName,
		FileType:       fileType,
		FileSize:       req.Size,
		FileCategory:   req.FileCategory,
		UploadedByRole: role,
	}
	id, err := s.repo.Create(ctx, doc)
	if err != nil {
		if removeErr := s.store.Delete(fileName); removeErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("file", fileName), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record document")
	}
	doc.ID = id
	return doc, nil
}

// Get fetches a document's metadata.
func (s *DocumentService) Get(ctx context.Context, id int64) (*models.Document, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document id is required")
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch document")
	}
	return doc, nil
}

// ListByStudent returns a student's uploads, newest first.
func (s *DocumentService) ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	if studentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	docs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return docs, nil
}

// ListByApplication returns an application's uploads, newest first.
func (s *DocumentService) ListByApplication(ctx context.Context, applicationID int64) ([]models.Document, error) {
	if applicationID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "application id is required")
	}
	docs, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return docs, nil
}

// Delete removes the metadata row and then the blob. Students may only
// delete their own uploads; admins may delete any. A blob that fails to
// delete is logged, the row is gone regardless.
func (s *DocumentService) Delete(ctx context.Context, id, callerID int64, role models.Role) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin && doc.StudentID != callerID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another student's document")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}
	if err := s.store.Delete(doc.FileName); err != nil {
		s.logger.Warn("document row deleted but blob removal failed",
			zap.Int64("document_id", id), zap.String("file", doc.FileName), zap.Error(err))
	}
	return nil
}
