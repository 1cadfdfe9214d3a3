package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/bursary-portal/bursary-api/internal/models"
)

// ConversationRepository manages student/admin conversation pairs.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository constructs a ConversationRepository.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// FindByPair returns the conversation id for a (student, admin) pair.
func (r *ConversationRepository) FindByPair(ctx context.Context, studentID, adminID int64) (int64, error) {
	const query = `SELECT conversation_id FROM conversations WHERE student_id = $1 AND admin_id = $2`
	var id int64
	if err := r.db.GetContext(ctx, &id, query, studentID, adminID); err != nil {
		return 0, err
	}
	return id, nil
}

// Create inserts a conversation pair. The pair carries a unique constraint,
// so a concurrent duplicate insert surfaces as a unique violation.
func (r *ConversationRepository) Create(ctx context.Context, studentID, adminID int64) (int64, error) {
	const query = `INSERT INTO conversations (student_id, admin_id) VALUES ($1, $2) RETURNING conversation_id`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, studentID, adminID).Scan(&id); err != nil {
		return 0, fmt.Errorf("create conversation: %w", err)
	}
	return id, nil
}

// ListByStudent returns the admins a student has conversed with.
func (r *ConversationRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.ConversationPartner, error) {
	const query = `SELECT c.conversation_id, a.admin_id AS partner_id, a.full_name, a.email
        FROM conversations c
        JOIN admins a ON a.admin_id = c.admin_id
        WHERE c.student_id = $1`
	partners := make([]models.ConversationPartner, 0)
	if err := r.db.SelectContext(ctx, &partners, query, studentID); err != nil {
		return nil, fmt.Errorf("list student conversations: %w", err)
	}
	return partners, nil
}

// ListByAdmin returns the students an admin has conversed with.
func (r *ConversationRepository) ListByAdmin(ctx context.Context, adminID int64) ([]models.ConversationPartner, error) {
	const query = `SELECT c.conversation_id, s.student_id AS partner_id, s.full_name, s.email
        FROM conversations c
        JOIN students s ON s.student_id = c.student_id
        WHERE c.admin_id = $1`
	partners := make([]models.ConversationPartner, 0)
	if err := r.db.SelectContext(ctx, &partners, query, adminID); err != nil {
		return nil, fmt.Errorf("list admin conversations: %w", err)
	}
	return partners, nil
}
