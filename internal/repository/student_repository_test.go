package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursary-portal/bursary-api/internal/models"
)

func newStudentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Thabo Mokoena", "thabo@example.com", sqlmock.AnyArg(), "0821234567", "UCT", "Engineering", "2").
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow(7))

	id, err := repo.Create(context.Background(), &models.Student{
		FullName:     "Thabo Mokoena",
		Email:        "thabo@example.com",
		PasswordHash: "hashed",
		Phone:        "0821234567",
		Institution:  "UCT",
		FieldOfStudy: "Engineering",
		YearOfStudy:  "2",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("INSERT INTO students").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Student{
		FullName: "Thabo Mokoena", Email: "thabo@example.com", PasswordHash: "hashed",
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByEmail(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "full_name", "email", "password_hash", "phone", "institution", "field_of_study", "year_of_study", "created_at"}).
		AddRow(7, "Thabo Mokoena", "thabo@example.com", "hashed", "", "UCT", "Engineering", "2", time.Now())
	mock.ExpectQuery("SELECT student_id, full_name, email, password_hash").
		WithArgs("thabo@example.com").
		WillReturnRows(rows)

	student, err := repo.FindByEmail(context.Background(), "thabo@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), student.ID)
	assert.Equal(t, "hashed", student.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateProfile(t *testing.T) {
	db, mock, cleanup := newStudentMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET phone").
		WithArgs("0829999999", "Wits", "Computer Science", "3", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProfile(context.Background(), 7, "0829999999", "Wits", "Computer Science", "3")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
