package models

import "time"

// Admin is a bursary-office staff account.
type Admin struct {
	ID              int64     `db:"admin_id" json:"admin_id"`
	FullName        string    `db:"full_name" json:"full_name"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	Role            string    `db:"role" json:"role"`
	ProfilePhotoURL string    `db:"profile_photo_url" json:"profile_photo_url"`
	Address         string    `db:"address" json:"address"`
	Phone           string    `db:"phone" json:"phone"`
	Department      string    `db:"department" json:"department"`
	PositionTitle   string    `db:"position_title" json:"position_title"`
	Bio             string    `db:"bio" json:"bio"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// AdminProfile is the read shape exposed on the profile endpoint.
type AdminProfile struct {
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
	Role     string `db:"role" json:"role"`
}

// AdminSummary is the compact listing row used by student dropdowns and chat.
type AdminSummary struct {
	ID       int64  `db:"admin_id" json:"admin_id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
