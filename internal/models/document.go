package models

import "time"

// Document records metadata for an uploaded file. The bytes live in the
// blob store; this row is the only durable record of that mapping.
type Document struct {
	ID             int64     `db:"document_id" json:"document_id"`
	ApplicationID  int64     `db:"application_id" json:"application_id"`
	StudentID      int64     `db:"student_id" json:"student_id"`
	FileName       string    `db:"file_name" json:"file_name"`
	OriginalName   string    `db:"original_name" json:"original_name"`
	FilePath       string    `db:"file_path" json:"file_path"`
	FileType       string    `db:"file_type" json:"file_type"`
	FileSize       int64     `db:"file_size" json:"file_size"`
	FileCategory   string    `db:"file_category" json:"file_category"`
	UploadedByRole Role      `db:"uploaded_by_role" json:"uploaded_by_role"`
	UploadedAt     time.Time `db:"uploaded_at" json:"uploaded_at"`
}
