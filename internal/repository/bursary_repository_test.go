package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursary-portal/bursary-api/internal/models"
)

func newBursaryMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func bursaryColumns() []string {
	return []string{"bursary_id", "title", "description", "eligibility", "field_of_study", "institution",
		"sponsor", "amount", "closing_date", "application_url", "contact_email", "tags",
		"created_by", "is_active", "is_verified", "created_at"}
}

func TestBursaryRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newBursaryMock(t)
	defer cleanup()
	repo := NewBursaryRepository(db)

	mock.ExpectQuery("INSERT INTO bursaries").
		WithArgs("Engineering Excellence Bursary", "Full tuition", "Year 2+", "Engineering", "UCT",
			"Acme Mining", 85000.0, sqlmock.AnyArg(), "", "bursaries@acme.example", "engineering,tuition", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"bursary_id"}).AddRow(3))

	id, err := repo.Create(context.Background(), &models.Bursary{
		Title:        "Engineering Excellence Bursary",
		Description:  "Full tuition",
		Eligibility:  "Year 2+",
		FieldOfStudy: "Engineering",
		Institution:  "UCT",
		Sponsor:      "Acme Mining",
		Amount:       85000,
		ClosingDate:  time.Now().AddDate(0, 3, 0),
		ContactEmail: "bursaries@acme.example",
		Tags:         "engineering,tuition",
		CreatedBy:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBursaryRepositoryListAvailable(t *testing.T) {
	db, mock, cleanup := newBursaryMock(t)
	defer cleanup()
	repo := NewBursaryRepository(db)

	rows := sqlmock.NewRows(bursaryColumns()).
		AddRow(3, "Engineering Excellence Bursary", "Full tuition", "", "Engineering", "UCT",
			"Acme Mining", 85000.0, time.Now().AddDate(0, 1, 0), "", "", "",
			5, true, true, time.Now())
	mock.ExpectQuery("SELECT \\* FROM bursaries WHERE is_active = TRUE AND is_verified = TRUE").
		WillReturnRows(rows)

	bursaries, err := repo.ListAvailable(context.Background())
	require.NoError(t, err)
	require.Len(t, bursaries, 1)
	assert.True(t, bursaries[0].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBursaryRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newBursaryMock(t)
	defer cleanup()
	repo := NewBursaryRepository(db)

	mock.ExpectExec("DELETE FROM bursaries").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
