package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestConversationRepositoryFindByPair(t *testing.T) {
	db, mock, cleanup := newConversationMock(t)
	defer cleanup()
	repo := NewConversationRepository(db)

	mock.ExpectQuery("SELECT conversation_id FROM conversations").
		WithArgs(int64(7), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"conversation_id"}).AddRow(11))

	id, err := repo.FindByPair(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepositoryFindByPairMissing(t *testing.T) {
	db, mock, cleanup := newConversationMock(t)
	defer cleanup()
	repo := NewConversationRepository(db)

	mock.ExpectQuery("SELECT conversation_id FROM conversations").
		WithArgs(int64(7), int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByPair(context.Background(), 7, 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newConversationMock(t)
	defer cleanup()
	repo := NewConversationRepository(db)

	mock.ExpectQuery("INSERT INTO conversations").
		WithArgs(int64(7), int64(5)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), 7, 5)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepositoryListByAdmin(t *testing.T) {
	db, mock, cleanup := newConversationMock(t)
	defer cleanup()
	repo := NewConversationRepository(db)

	rows := sqlmock.NewRows([]string{"conversation_id", "partner_id", "full_name", "email"}).
		AddRow(11, 7, "Thabo Mokoena", "thabo@example.com")
	mock.ExpectQuery("SELECT c.conversation_id, s.student_id AS partner_id").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	partners, err := repo.ListByAdmin(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, int64(7), partners[0].PartnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
