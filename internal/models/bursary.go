package models

import "time"

// Bursary is a funding opportunity published by an admin.
type Bursary struct {
	ID             int64     `db:"bursary_id" json:"bursary_id"`
	Title          string    `db:"title" json:"title"`
	Description    string    `db:"description" json:"description"`
	Eligibility    string    `db:"eligibility" json:"eligibility"`
	FieldOfStudy   string    `db:"field_of_study" json:"field_of_study"`
	Institution    string    `db:"institution" json:"institution"`
	Sponsor        string    `db:"sponsor" json:"sponsor"`
	Amount         float64   `db:"amount" json:"amount"`
	ClosingDate    time.Time `db:"closing_date" json:"closing_date"`
	ApplicationURL string    `db:"application_url" json:"application_url"`
	ContactEmail   string    `db:"contact_email" json:"contact_email"`
	Tags           string    `db:"tags" json:"tags"`
	CreatedBy      int64     `db:"created_by" json:"created_by"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
