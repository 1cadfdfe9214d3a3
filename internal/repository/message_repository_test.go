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

func newMessageMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestMessageRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMessageMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(int64(11), int64(7), int64(5), models.RoleStudent, "Hello", models.MessageTypeText, "").
		WillReturnRows(sqlmock.NewRows([]string{"message_id"}).AddRow(99))

	id, err := repo.Create(context.Background(), &models.Message{
		ConversationID: 11,
		SenderID:       7,
		ReceiverID:     5,
		SenderRole:     models.RoleStudent,
		Message:        "Hello",
		MessageType:    models.MessageTypeText,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryListByConversation(t *testing.T) {
	db, mock, cleanup := newMessageMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	rows := sqlmock.NewRows([]string{"message_id", "conversation_id", "sender_id", "receiver_id", "sender_role", "message", "message_type", "attachment_url", "is_read", "sender_deleted", "receiver_deleted", "sent_at"}).
		AddRow(1, 11, 7, 5, "student", "Hello", "text", "", false, false, false, time.Now()).
		AddRow(2, 11, 5, 7, "admin", "Hi there", "text", "", false, false, false, time.Now())
	mock.ExpectQuery("SELECT \\* FROM messages").
		WithArgs(int64(11)).
		WillReturnRows(rows)

	messages, err := repo.ListByConversation(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello", messages[0].Message)
	assert.Equal(t, models.RoleAdmin, messages[1].SenderRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryMarkRead(t *testing.T) {
	db, mock, cleanup := newMessageMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	mock.ExpectExec("UPDATE messages SET is_read = TRUE").
		WithArgs(int64(11), int64(7), models.RoleStudent).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.MarkRead(context.Background(), 11, 7, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryMarkReadIdempotent(t *testing.T) {
	db, mock, cleanup := newMessageMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	mock.ExpectExec("UPDATE messages SET is_read = TRUE").
		WithArgs(int64(11), int64(7), models.RoleStudent).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkRead(context.Background(), 11, 7, models.RoleStudent)
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
