package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// StudentRepository manages persistence for student accounts.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a new student and returns the generated id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) (int64, error) {
	const query = `INSERT INTO students (full_name, email, password_hash, phone, institution, field_of_study, year_of_study)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING student_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		student.FullName, student.Email, student.PasswordHash,
		student.Phone, student.Institution, student.FieldOfStudy, student.YearOfStudy,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create student: %w", err)
	}
	return id, nil
}

// FindByEmail fetches the full account row for authentication.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	const query = `SELECT student_id, full_name, email, password_hash, phone, institution, field_of_study, year_of_study, created_at
        FROM students WHERE email = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, email); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindProfileByID returns the profile fields exposed to clients.
func (r *StudentRepository) FindProfileByID(ctx context.Context, id int64) (*models.StudentProfile, error) {
	const query = `SELECT full_name, email, phone, institution, field_of_study, year_of_study
        FROM students WHERE student_id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile overwrites the whitelisted mutable profile fields.
func (r *StudentRepository) UpdateProfile(ctx context.Context, id int64, phone, institution, fieldOfStudy, yearOfStudy string) error {
	const query = `UPDATE students SET phone = $1, institution = $2, field_of_study = $3, year_of_study = $4
        WHERE student_id = $5`
	if _, err := r.db.ExecContext(ctx, query, phone, institution, fieldOfStudy, yearOfStudy, id); err != nil {
		return fmt.Errorf("update student profile: %w", err)
	}
	return nil
}

// List returns every student ordered by display name.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentSummary, error) {
	const query = `SELECT student_id, full_name, email FROM students ORDER BY full_name ASC`
	students := make([]models.StudentSummary, 0)
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// ExistsByID reports whether a student row exists.
func (r *StudentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT 1 FROM students WHERE student_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student exists: %w", err)
	}
	return true, nil
}
