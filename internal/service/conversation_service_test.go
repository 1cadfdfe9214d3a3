package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
)

type conversationRepoStub struct {
	pairs       map[[2]int64]int64
	createID    int64
	createErr   error
	createCalls int
	byStudent   []models.ConversationPartner
	byAdmin     []models.ConversationPartner
}

func (s *conversationRepoStub) FindByPair(ctx context.Context, studentID, adminID int64) (int64, error) {
	if id, ok := s.pairs[[2]int64{studentID, adminID}]; ok {
		return id, nil
	}
	return 0, sql.ErrNoRows
}

func (s *conversationRepoStub) Create(ctx context.Context, studentID, adminID int64) (int64, error) {
	s.createCalls++
	if s.createErr != nil {
		err := s.createErr
		// A unique violation means a concurrent create won; make the
		// follow-up lookup find that row.
		if s.pairs == nil {
			s.pairs = map[[2]int64]int64{}
		}
		s.pairs[[2]int64{studentID, adminID}] = s.createID
		s.createErr = nil
		return 0, err
	}
	return s.createID, nil
}

func (s *conversationRepoStub) ListByStudent(ctx context.Context, studentID int64) ([]models.ConversationPartner, error) {
	return s.byStudent, nil
}

func (s *conversationRepoStub) ListByAdmin(ctx context.Context, adminID int64) ([]models.ConversationPartner, error) {
	return s.byAdmin, nil
}

func TestConversationServiceResolveExisting(t *testing.T) {
	repo := &conversationRepoStub{pairs: map[[2]int64]int64{{7, 5}: 11}}
	svc := NewConversationService(repo, nil)

	id, created, err := svc.Resolve(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.False(t, created)
	assert.Zero(t, repo.createCalls)
}

func TestConversationServiceResolveCreatesOnFirstContact(t *testing.T) {
	repo := &conversationRepoStub{createID: 11}
	svc := NewConversationService(repo, nil)

	id, created, err := svc.Resolve(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.True(t, created)
	assert.Equal(t, 1, repo.createCalls)
}

func TestConversationServiceResolveLosesCreateRace(t *testing.T) {
	repo := &conversationRepoStub{createID: 11, createErr: &pq.Error{Code: "23505"}}
	svc := NewConversationService(repo, nil)

	id, created, err := svc.Resolve(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)
	assert.False(t, created)
}

func TestConversationServiceResolveRejectsMissingIDs(t *testing.T) {
	svc := NewConversationService(&conversationRepoStub{}, nil)

	_, _, err := svc.Resolve(context.Background(), 0, 5)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestConversationServiceListByStudent(t *testing.T) {
	repo := &conversationRepoStub{
		byStudent: []models.ConversationPartner{{ConversationID: 11, PartnerID: 5, FullName: "Naledi Khumalo"}},
	}
	svc := NewConversationService(repo, nil)

	partners, err := svc.ListByStudent(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, int64(5), partners[0].PartnerID)
}

func TestConversationServiceListByAdmin(t *testing.T) {
	repo := &conversationRepoStub{
		byAdmin: []models.ConversationPartner{{ConversationID: 11, PartnerID: 7, FullName: "Thabo Mokoena"}},
	}
	svc := NewConversationService(repo, nil)

	partners, err := svc.ListByAdmin(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, int64(7), partners[0].PartnerID)
}

func TestConversationServiceListRejectsMissingID(t *testing.T) {
	svc := NewConversationService(&conversationRepoStub{}, nil)

	_, err := svc.ListByStudent(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
