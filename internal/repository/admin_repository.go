package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// AdminRepository manages persistence for admin accounts.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin and returns the generated id.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) (int64, error) {
	const query = `INSERT INTO admins (full_name, email, password_hash, role, profile_photo_url, address, phone, department, position_title, bio)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING admin_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query,
		admin.FullName, admin.Email, admin.PasswordHash, admin.Role,
		admin.ProfilePhotoURL, admin.Address, admin.Phone,
		admin.Department, admin.PositionTitle, admin.Bio,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("create admin: %w", err)
	}
	return id, nil
}

// FindByEmail fetches the full account row for authentication.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const query = `SELECT admin_id, full_name, email, password_hash, role, profile_photo_url, address, phone, department, position_title, bio, created_at
        FROM admins WHERE email = $1`
	var admin models.Admin
	if err := r.db.GetContext(ctx, &admin, query, email); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindProfileByID returns the profile fields exposed to clients.
func (r *AdminRepository) FindProfileByID(ctx context.Context, id int64) (*models.AdminProfile, error) {
	const query = `SELECT full_name, email, role FROM admins WHERE admin_id = $1`
	var profile models.AdminProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile overwrites the mutable profile fields.
func (r *AdminRepository) UpdateProfile(ctx context.Context, id int64, fullName, email, role string) error {
	const query = `UPDATE admins SET full_name = $1, email = $2, role = $3 WHERE admin_id = $4`
	if _, err := r.db.ExecContext(ctx, query, fullName, email, role, id); err != nil {
		return fmt.Errorf("update admin profile: %w", err)
	}
	return nil
}

// List returns every admin ordered by display name.
func (r *AdminRepository) List(ctx context.Context) ([]models.AdminSummary, error) {
	const query = `SELECT admin_id, full_name, email FROM admins ORDER BY full_name ASC`
	admins := make([]models.AdminSummary, 0)
	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// ExistsByID reports whether an admin row exists.
func (r *AdminRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT 1 FROM admins WHERE admin_id = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admin exists: %w", err)
	}
	return true, nil
}
