package models

import "time"

// Application statuses used by the workflow. Admins may record other labels;
// these are the ones the system itself writes.
const (
	StatusSubmitted = "Submitted"

	ActionInitialSubmission = "Initial Submission"
)

// Application links one student to one bursary. CurrentStatus is a
// denormalized copy of the latest history entry, kept in sync inside the
// same transaction as each history append.
type Application struct {
	ID              int64     `db:"application_id" json:"application_id"`
	StudentID       int64     `db:"student_id" json:"student_id"`
	BursaryID       int64     `db:"bursary_id" json:"bursary_id"`
	ApplicationDate time.Time `db:"application_date" json:"application_date"`
	CurrentStatus   string    `db:"current_status" json:"current_status"`
}

// StatusUpdate is an immutable, timestamped entry in an application's
// status history.
type StatusUpdate struct {
	ID                 int64     `db:"status_update_id" json:"status_update_id"`
	ApplicationID      int64     `db:"application_id" json:"application_id"`
	Status             string    `db:"status" json:"status"`
	Remarks            string    `db:"remarks" json:"remarks"`
	UpdatedBy          int64     `db:"updated_by" json:"updated_by"`
	UpdatedByRole      Role      `db:"updated_by_role" json:"updated_by_role"`
	IsVisibleToStudent bool      `db:"is_visible_to_student" json:"is_visible_to_student"`
	ActionType         string    `db:"action_type" json:"action_type"`
	AttachmentURL      string    `db:"attachment_url" json:"attachment_url"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// ApplicationOverview is the admin register row: application joined with
// student and bursary summary fields.
type ApplicationOverview struct {
	ApplicationID   int64     `db:"application_id" json:"application_id"`
	ApplicationDate time.Time `db:"application_date" json:"application_date"`
	CurrentStatus   string    `db:"current_status" json:"current_status"`

	StudentID    int64  `db:"student_id" json:"student_id"`
	StudentName  string `db:"student_name" json:"student_name"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone"`
	Institution  string `db:"institution" json:"institution"`
	FieldOfStudy string `db:"field_of_study" json:"field_of_study"`
	YearOfStudy  string `db:"year_of_study" json:"year_of_study"`

	BursaryID    int64     `db:"bursary_id" json:"bursary_id"`
	BursaryTitle string    `db:"bursary_title" json:"bursary_title"`
	Sponsor      string    `db:"sponsor" json:"sponsor"`
	Amount       float64   `db:"amount" json:"amount"`
	ClosingDate  time.Time `db:"closing_date" json:"closing_date"`

	StatusHistory []StatusUpdate `json:"status_history"`
}

// ApplicantContact holds the fields looked up when notifying a student.
type ApplicantContact struct {
	FullName     string `db:"full_name"`
	Email        string `db:"email"`
	BursaryTitle string `db:"bursary_title"`
}
