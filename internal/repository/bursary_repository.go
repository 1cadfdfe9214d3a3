package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// BursaryRepository manages persistence for bursary listings.
type BursaryRepository struct {
	db *sqlx.DB
}

// NewBursaryRepository constructs a BursaryRepository.
func NewBursaryRepository(db *sqlx.DB) *BursaryRepository {
	return &BursaryRepository{db: db}
}

// Create inserts a bursary. New listings default to active and verified.
func (r *BursaryRepository) Create(ctx context.Context, b *models.Bursary) (int64, error) {
	const query = `INSERT INTO bursaries
        (title, description, eligibility, field_of_study, institution, sponsor, amount, closing_date, application_url, contact_email, tags, created_by, is_active, is_verified)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, TRUE)
        RETURNING bursary_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		b.Title, b.Description, b.Eligibility, b.FieldOfStudy, b.Institution,
		b.Sponsor, b.Amount, b.ClosingDate, b.ApplicationURL, b.ContactEmail,
		b.Tags, b.CreatedBy,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create bursary: %w", err)
	}
	return id, nil
}

// FindByID fetches a bursary by id.
func (r *BursaryRepository) FindByID(ctx context.Context, id int64) (*models.Bursary, error) {
	const query = `SELECT * FROM bursaries WHERE bursary_id = $1`
	var bursary models.Bursary
	if err := r.db.GetContext(ctx, &bursary, query, id); err != nil {
		return nil, err
	}
	return &bursary, nil
}

// Update overwrites the listing fields of a bursary.
func (r *BursaryRepository) Update(ctx context.Context, id int64, b *models.Bursary) error {
	const query = `UPDATE bursaries SET title = $1, description = $2, eligibility = $3, field_of_study = $4, institution = $5,
        sponsor = $6, amount = $7, closing_date = $8, application_url = $9, contact_email = $10, tags = $11
        WHERE bursary_id = $12`
	if _, err := r.db.ExecContext(ctx, query,
		b.Title, b.Description, b.Eligibility, b.FieldOfStudy, b.Institution,
		b.Sponsor, b.Amount, b.ClosingDate, b.ApplicationURL, b.ContactEmail,
		b.Tags, id,
	); err != nil {
		return fmt.Errorf("update bursary: %w", err)
	}
	return nil
}

// Delete removes a bursary listing.
func (r *BursaryRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM bursaries WHERE bursary_id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete bursary: %w", err)
	}
	return nil
}

// ListAll returns every bursary, newest first.
func (r *BursaryRepository) ListAll(ctx context.Context) ([]models.Bursary, error) {
	const query = `SELECT * FROM bursaries ORDER BY created_at DESC`
	bursaries := make([]models.Bursary, 0)
	if err := r.db.SelectContext(ctx, &bursaries, query); err != nil {
		return nil, fmt.Errorf("list bursaries: %w", err)
	}
	return bursaries, nil
}

// ListAvailable returns active, verified bursaries ordered by closing date.
func (r *BursaryRepository) ListAvailable(ctx context.Context) ([]models.Bursary, error) {
	const query = `SELECT * FROM bursaries WHERE is_active = TRUE AND is_verified = TRUE ORDER BY closing_date ASC`
	bursaries := make([]models.Bursary, 0)
	if err := r.db.SelectContext(ctx, &bursaries, query); err != nil {
		return nil, fmt.Errorf("list available bursaries: %w", err)
	}
	return bursaries, nil
}
