package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// DocumentRepository manages uploaded document metadata.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository constructs a DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a metadata row and returns the generated id.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) (int64, error) {
	const query = `INSERT INTO documents
        (application_id, student_id, file_name, original_name, file_path, file_type, file_size, file_category, uploaded_by_role)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING document_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		doc.ApplicationID, doc.StudentID, doc.FileName, doc.OriginalName,
		doc.FilePath, doc.FileType, doc.FileSize, doc.FileCategory, doc.UploadedByRole,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create document: %w", err)
	}
	return id, nil
}

// FindByID fetches a document row.
func (r *DocumentRepository) FindByID(ctx context.Context, id int64) (*models.Document, error) {
	const query = `SELECT * FROM documents WHERE document_id = $1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByStudent returns a student's documents, newest first.
func (r *DocumentRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	const query = `SELECT * FROM documents WHERE student_id = $1 ORDER BY uploaded_at DESC`
	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, query, studentID); err != nil {
		return nil, fmt.Errorf("list student documents: %w", err)
	}
	return docs, nil
}

// ListByApplication returns an application's documents, newest first.
func (r *DocumentRepository) ListByApplication(ctx context.Context, applicationID int64) ([]models.Document, error) {
	const query = `SELECT * FROM documents WHERE application_id = $1 ORDER BY uploaded_at DESC`
	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, query, applicationID); err != nil {
		return nil, fmt.Errorf("list application documents: %w", err)
	}
	return docs, nil
}

// Delete removes a metadata row.
func (r *DocumentRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM documents WHERE document_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
