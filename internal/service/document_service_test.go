package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/storage"
)

type documentRepoStub struct {
	createID  int64
	createErr error
	created   []models.Document
	byID      *models.Document
	deleted   []int64
}

func (s *documentRepoStub) Create(ctx context.Context, doc *models.Document) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	s.created = append(s.created, *doc)
	return s.createID, nil
}

func (s *documentRepoStub) FindByID(ctx context.Context, id int64) (*models.Document, error) {
	if s.byID == nil {
		return nil, errors.New("not found")
	}
	return s.byID, nil
}

func (s *documentRepoStub) ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	return nil, nil
}

func (s *documentRepoStub) ListByApplication(ctx context.Context, applicationID int64) ([]models.Document, error) {
	return nil, nil
}

func (s *documentRepoStub) Delete(ctx context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newTestStore(t *testing.T) *storage.LocalStorage {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestDocumentServiceUploadWritesBlobAndRow(t *testing.T) {
	repo := &documentRepoStub{createID: 4}
	store := newTestStore(t)
	svc := NewDocumentService(repo, store, nil)

	doc, err := svc.Upload(context.Background(), UploadDocumentRequest{
		ApplicationID:  42,
		StudentID:      7,
		OriginalName:   "transcript.pdf",
		Size:           1024,
		FileCategory:   "transcript",
		UploadedByRole: models.RoleStudent,
		Content:        bytes.NewBufferString("%PDF-1.4 test"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), doc.ID)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.NotEqual(t, "transcript.pdf", doc.FileName)
	assert.Equal(t, "/uploads/"+doc.FileName, doc.FilePath)

	// The blob landed under the generated name.
	_, err = os.Stat(filepath.Join(store.BaseDir(), doc.FileName))
	require.NoError(t, err)
}

func TestDocumentServiceUploadRejectsUnsupportedType(t *testing.T) {
	svc := NewDocumentService(&documentRepoStub{}, newTestStore(t), nil)

	_, err := svc.Upload(context.Background(), UploadDocumentRequest{
		ApplicationID: 42,
		StudentID:     7,
		OriginalName:  "malware.exe",
		Size:          10,
		Content:       bytes.NewBufferString("MZ"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestDocumentServiceUploadRejectsOversizedFile(t *testing.T) {
	svc := NewDocumentService(&documentRepoStub{}, newTestStore(t), nil)

	_, err := svc.Upload(context.Background(), UploadDocumentRequest{
		ApplicationID: 42,
		StudentID:     7,
		OriginalName:  "huge.pdf",
		Size:          MaxUploadSize + 1,
		Content:       bytes.NewBufferString("x"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestDocumentServiceUploadRemovesBlobWhenInsertFails(t *testing.T) {
	repo := &documentRepoStub{createErr: errors.New("db down")}
	store := newTestStore(t)
	svc := NewDocumentService(repo, store, nil)

	_, err := svc.Upload(context.Background(), UploadDocumentRequest{
		ApplicationID: 42,
		StudentID:     7,
		OriginalName:  "transcript.pdf",
		Size:          10,
		Content:       bytes.NewBufferString("%PDF"),
	})
	require.Error(t, err)

	entries, err := os.ReadDir(store.BaseDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDocumentServiceDeleteEnforcesOwnership(t *testing.T) {
	repo := &documentRepoStub{byID: &models.Document{ID: 4, StudentID: 7, FileName: "abc.pdf"}}
	svc := NewDocumentService(repo, newTestStore(t), nil)

	err := svc.Delete(context.Background(), 4, 8, models.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
	assert.Empty(t, repo.deleted)
}

func TestDocumentServiceDeleteByOwner(t *testing.T) {
	repo := &documentRepoStub{byID: &models.Document{ID: 4, StudentID: 7, FileName: "abc.pdf"}}
	svc := NewDocumentService(repo, newTestStore(t), nil)

	err := svc.Delete(context.Background(), 4, 7, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, repo.deleted)
}

func TestDocumentServiceDeleteByAdmin(t *testing.T) {
	repo := &documentRepoStub{byID: &models.Document{ID: 4, StudentID: 7, FileName: "abc.pdf"}}
	svc := NewDocumentService(repo, newTestStore(t), nil)

	err := svc.Delete(context.Background(), 4, 5, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, repo.deleted)
}
