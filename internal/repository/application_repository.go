package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// ApplicationRepository manages applications and their status history.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// FindByPair returns the application for a (student, bursary) pair.
func (r *ApplicationRepository) FindByPair(ctx context.Context, studentID, bursaryID int64) (*models.Application, error) {
	const query = `SELECT application_id, student_id, bursary_id, application_date, current_status
        FROM applications WHERE student_id = $1 AND bursary_id = $2`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, studentID, bursaryID); err != nil {
		return nil, err
	}
	return &app, nil
}

// CreateWithInitialStatus inserts the application and its first history row
// in one transaction, so the register never shows an application without a
// Submitted entry. The pair's unique constraint closes the duplicate race.
func (r *ApplicationRepository) CreateWithInitialStatus(ctx context.Context, studentID, bursaryID int64) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin submit tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var applicationID int64
	const insertApp = `INSERT INTO applications (student_id, bursary_id, current_status)
        VALUES ($1, $2, $3) RETURNING application_id`
	if err := tx.QueryRowContext(ctx, insertApp, studentID, bursaryID, models.StatusSubmitted).Scan(&applicationID); err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}

	const insertStatus = `INSERT INTO status_updates
        (application_id, status, remarks, updated_by, updated_by_role, is_visible_to_student, action_type, attachment_url)
        VALUES ($1, $2, $3, $4, $5, TRUE, $6, '')`
	if _, err := tx.ExecContext(ctx, insertStatus,
		applicationID, models.StatusSubmitted, "Application submitted by student",
		studentID, models.RoleStudent, models.ActionInitialSubmission,
	); err != nil {
		return 0, fmt.Errorf("insert initial status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit submit tx: %w", err)
	}
	return applicationID, nil
}

// DeleteByPair removes the application row for a pair. History rows are
// retained as an audit trail. Returns the number of rows deleted; zero is
// not an error.
func (r *ApplicationRepository) DeleteByPair(ctx context.Context, studentID, bursaryID int64) (int64, error) {
	const query = `DELETE FROM applications WHERE student_id = $1 AND bursary_id = $2`
	res, err := r.db.ExecContext(ctx, query, studentID, bursaryID)
	if err != nil {
		return 0, fmt.Errorf("withdraw application: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("withdraw application rows: %w", err)
	}
	return affected, nil
}

// AppendStatus writes a history row and syncs the denormalized
// current_status inside the same transaction.
func (r *ApplicationRepository) AppendStatus(ctx context.Context, update *models.StatusUpdate) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertStatus = `INSERT INTO status_updates
        (application_id, status, remarks, updated_by, updated_by_role, is_visible_to_student, action_type, attachment_url)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING status_update_id, updated_at`
	if err := tx.QueryRowContext(ctx, insertStatus,
		update.ApplicationID, update.Status, update.Remarks, update.UpdatedBy,
		update.UpdatedByRole, update.IsVisibleToStudent, update.ActionType, update.AttachmentURL,
	).Scan(&update.ID, &update.UpdatedAt); err != nil {
		return fmt.Errorf("insert status update: %w", err)
	}

	const syncCurrent = `UPDATE applications SET current_status = $1 WHERE application_id = $2`
	if _, err := tx.ExecContext(ctx, syncCurrent, update.Status, update.ApplicationID); err != nil {
		return fmt.Errorf("sync current status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status tx: %w", err)
	}
	return nil
}

// ListOverviews returns every application joined with student and bursary
// summary fields, newest first. History is attached by the service.
func (r *ApplicationRepository) ListOverviews(ctx context.Context) ([]models.ApplicationOverview, error) {
	const query = `SELECT
            a.application_id, a.application_date, a.current_status,
            s.student_id, s.full_name AS student_name, s.email, s.phone,
            s.institution, s.field_of_study, s.year_of_study,
            b.bursary_id, b.title AS bursary_title, b.sponsor, b.amount, b.closing_date
        FROM applications a
        JOIN students s ON a.student_id = s.student_id
        JOIN bursaries b ON a.bursary_id = b.bursary_id
        ORDER BY a.application_date DESC`
	overviews := make([]models.ApplicationOverview, 0)
	if err := r.db.SelectContext(ctx, &overviews, query); err != nil {
		return nil, fmt.Errorf("list application overviews: %w", err)
	}
	return overviews, nil
}

// ListHistory returns the status history for the given applications in
// ascending timestamp order.
func (r *ApplicationRepository) ListHistory(ctx context.Context, applicationIDs []int64) ([]models.StatusUpdate, error) {
	const query = `SELECT status_update_id, application_id, status, remarks, updated_by, updated_by_role,
            is_visible_to_student, action_type, attachment_url, updated_at
        FROM status_updates
        WHERE application_id = ANY($1)
        ORDER BY updated_at ASC`
	updates := make([]models.StatusUpdate, 0)
	if err := r.db.SelectContext(ctx, &updates, query, pq.Array(applicationIDs)); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	return updates, nil
}

// ListBursaryIDsByStudent returns the bursaries a student has applied to.
func (r *ApplicationRepository) ListBursaryIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	const query = `SELECT bursary_id FROM applications WHERE student_id = $1`
	ids := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &ids, query, studentID); err != nil {
		return nil, fmt.Errorf("list student applications: %w", err)
	}
	return ids, nil
}

// FindContactByPair looks up the student's email and the bursary title for
// notification rendering.
func (r *ApplicationRepository) FindContactByPair(ctx context.Context, studentID, bursaryID int64) (*models.ApplicantContact, error) {
	const query = `SELECT s.full_name, s.email, b.title AS bursary_title
        FROM students s JOIN bursaries b ON b.bursary_id = $2
        WHERE s.student_id = $1`
	var contact models.ApplicantContact
	if err := r.db.GetContext(ctx, &contact, query, studentID, bursaryID); err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindContactByApplication resolves the applicant contact via the
// application row.
func (r *ApplicationRepository) FindContactByApplication(ctx context.Context, applicationID int64) (*models.ApplicantContact, error) {
	const query = `SELECT s.full_name, s.email, b.title AS bursary_title
        FROM applications a
        JOIN students s ON a.student_id = s.student_id
        JOIN bursaries b ON a.bursary_id = b.bursary_id
        WHERE a.application_id = $1`
	var contact models.ApplicantContact
	if err := r.db.GetContext(ctx, &contact, query, applicationID); err != nil {
		return nil, err
	}
	return &contact, nil
}
