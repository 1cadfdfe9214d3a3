package models

import "time"

// Student is a bursary applicant account.
type Student struct {
	ID           int64     `db:"student_id" json:"student_id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	Institution  string    `db:"institution" json:"institution"`
	FieldOfStudy string    `db:"field_of_study" json:"field_of_study"`
	YearOfStudy  string    `db:"year_of_study" json:"year_of_study"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentProfile is the read shape exposed on the profile endpoint.
type StudentProfile struct {
	FullName     string `db:"full_name" json:"full_name"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone"`
	Institution  string `db:"institution" json:"institution"`
	FieldOfStudy string `db:"field_of_study" json:"field_of_study"`
	YearOfStudy  string `db:"year_of_study" json:"year_of_study"`
}

// StudentSummary is the compact listing row used by admin dropdowns and chat.
type StudentSummary struct {
	ID       int64  `db:"student_id" json:"student_id"`
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}
