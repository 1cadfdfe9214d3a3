package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursary-portal/bursary-api/internal/models"
)

func newApplicationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestApplicationRepositoryCreateWithInitialStatus(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO applications").
		WithArgs(int64(7), int64(3), models.StatusSubmitted).
		WillReturnRows(sqlmock.NewRows([]string{"application_id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO status_updates").
		WithArgs(int64(42), models.StatusSubmitted, "Application submitted by student",
			int64(7), models.RoleStudent, models.ActionInitialSubmission).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := repo.CreateWithInitialStatus(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryCreateWithInitialStatusRollsBack(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO applications").
		WithArgs(int64(7), int64(3), models.StatusSubmitted).
		WillReturnRows(sqlmock.NewRows([]string{"application_id"}).AddRow(42))
	mock.ExpectExec("INSERT INTO status_updates").
		WillReturnError(errors.New("constraint failure"))
	mock.ExpectRollback()

	_, err := repo.CreateWithInitialStatus(context.Background(), 7, 3)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryDeleteByPair(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("DELETE FROM applications").
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteByPair(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryDeleteByPairNoRows(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectExec("DELETE FROM applications").
		WithArgs(int64(7), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.DeleteByPair(context.Background(), 7, 99)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryAppendStatus(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO status_updates").
		WithArgs(int64(42), "Approved", "Congratulations", int64(5), models.RoleAdmin, true, "Decision", "").
		WillReturnRows(sqlmock.NewRows([]string{"status_update_id", "updated_at"}).AddRow(9, now))
	mock.ExpectExec("UPDATE applications SET current_status").
		WithArgs("Approved", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	update := &models.StatusUpdate{
		ApplicationID:      42,
		Status:             "Approved",
		Remarks:            "Congratulations",
		UpdatedBy:          5,
		UpdatedByRole:      models.RoleAdmin,
		IsVisibleToStudent: true,
		ActionType:         "Decision",
	}
	err := repo.AppendStatus(context.Background(), update)
	require.NoError(t, err)
	assert.Equal(t, int64(9), update.ID)
	assert.Equal(t, now, update.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryAppendStatusSyncFailureRollsBack(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO status_updates").
		WillReturnRows(sqlmock.NewRows([]string{"status_update_id", "updated_at"}).AddRow(9, time.Now()))
	mock.ExpectExec("UPDATE applications SET current_status").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.AppendStatus(context.Background(), &models.StatusUpdate{
		ApplicationID: 42, Status: "Approved", UpdatedBy: 5, UpdatedByRole: models.RoleAdmin,
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryListHistory(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	rows := sqlmock.NewRows([]string{"status_update_id", "application_id", "status", "remarks", "updated_by", "updated_by_role", "is_visible_to_student", "action_type", "attachment_url", "updated_at"}).
		AddRow(1, 42, models.StatusSubmitted, "Application submitted by student", 7, "student", true, models.ActionInitialSubmission, "", time.Now()).
		AddRow(2, 42, "Under Review", "", 5, "admin", true, "Review", "", time.Now())
	mock.ExpectQuery("SELECT status_update_id, application_id, status").
		WillReturnRows(rows)

	history, err := repo.ListHistory(context.Background(), []int64{42})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.StatusSubmitted, history[0].Status)
	assert.Equal(t, "Under Review", history[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationRepositoryFindContactByApplication(t *testing.T) {
	db, mock, cleanup := newApplicationMock(t)
	defer cleanup()
	repo := NewApplicationRepository(db)

	mock.ExpectQuery("SELECT s.full_name, s.email, b.title AS bursary_title").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"full_name", "email", "bursary_title"}).
			AddRow("Thabo Mokoena", "thabo@example.com", "Engineering Excellence Bursary"))

	contact, err := repo.FindContactByApplication(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "thabo@example.com", contact.Email)
	assert.Equal(t, "Engineering Excellence Bursary", contact.BursaryTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}
