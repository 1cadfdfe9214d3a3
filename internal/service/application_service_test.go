package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bursary-portal/bursary-api/internal/models"
	appErrors "github.com/bursary-portal/bursary-api/pkg/errors"
	"github.com/bursary-portal/bursary-api/pkg/mailer"
)

type applicationRepoStub struct {
	existing       *models.Application
	findErr        error
	createID       int64
	createErr      error
	deleteAffected int64
	deleteErr      error
	appendErr      error
	overviews      []models.ApplicationOverview
	history        []models.StatusUpdate
	bursaryIDs     []int64
	contact        *models.ApplicantContact
	contactErr     error

	appended []models.StatusUpdate
}

func (s *applicationRepoStub) FindByPair(ctx context.Context, studentID, bursaryID int64) (*models.Application, error) {
	if s.existing != nil {
		return s.existing, nil
	}
	if s.findErr != nil {
		return nil, s.findErr
	}
	return nil, sql.ErrNoRows
}

func (s *applicationRepoStub) CreateWithInitialStatus(ctx context.Context, studentID, bursaryID int64) (int64, error) {
	return s.createID, s.createErr
}

func (s *applicationRepoStub) DeleteByPair(ctx context.Context, studentID, bursaryID int64) (int64, error) {
	return s.deleteAffected, s.deleteErr
}

func (s *applicationRepoStub) AppendStatus(ctx context.Context, update *models.StatusUpdate) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	update.ID = int64(len(s.appended) + 1)
	s.appended = append(s.appended, *update)
	return nil
}

func (s *applicationRepoStub) ListOverviews(ctx context.Context) ([]models.ApplicationOverview, error) {
	return s.overviews, nil
}

func (s *applicationRepoStub) ListHistory(ctx context.Context, applicationIDs []int64) ([]models.StatusUpdate, error) {
	return s.history, nil
}

func (s *applicationRepoStub) ListBursaryIDsByStudent(ctx context.Context, studentID int64) ([]int64, error) {
	return s.bursaryIDs, nil
}

func (s *applicationRepoStub) FindContactByPair(ctx context.Context, studentID, bursaryID int64) (*models.ApplicantContact, error) {
	if s.contact == nil {
		return nil, s.contactErr
	}
	return s.contact, nil
}

func (s *applicationRepoStub) FindContactByApplication(ctx context.Context, applicationID int64) (*models.ApplicantContact, error) {
	if s.contact == nil {
		return nil, s.contactErr
	}
	return s.contact, nil
}

type dispatcherStub struct {
	enqueued []mailer.Message
	sent     []mailer.Message
	sendErr  error
}

func (s *dispatcherStub) Enqueue(msg mailer.Message) {
	s.enqueued = append(s.enqueued, msg)
}

func (s *dispatcherStub) Send(msg mailer.Message) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newApplicationService(repo *applicationRepoStub, notifier *dispatcherStub) *ApplicationService {
	return NewApplicationService(repo, notifier, nil, nil, nil)
}

func TestApplicationServiceSubmit(t *testing.T) {
	repo := &applicationRepoStub{
		createID: 42,
		contact:  &models.ApplicantContact{FullName: "Thabo Mokoena", Email: "thabo@example.com", BursaryTitle: "Engineering Excellence Bursary"},
	}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	id, err := svc.Submit(context.Background(), SubmitApplicationRequest{StudentID: 7, BursaryID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.Len(t, notifier.enqueued, 1)
	assert.Equal(t, "thabo@example.com", notifier.enqueued[0].To)
	assert.Contains(t, notifier.enqueued[0].Subject, "Application Received")
}

func TestApplicationServiceSubmitDuplicate(t *testing.T) {
	repo := &applicationRepoStub{
		existing: &models.Application{ID: 42, StudentID: 7, BursaryID: 3},
	}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	_, err := svc.Submit(context.Background(), SubmitApplicationRequest{StudentID: 7, BursaryID: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Empty(t, notifier.enqueued)
}

func TestApplicationServiceSubmitRaceLosesToConstraint(t *testing.T) {
	repo := &applicationRepoStub{
		createErr: &pq.Error{Code: "23505"},
	}
	svc := newApplicationService(repo, &dispatcherStub{})

	_, err := svc.Submit(context.Background(), SubmitApplicationRequest{StudentID: 7, BursaryID: 3})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestApplicationServiceSubmitContactLookupFailureStillSucceeds(t *testing.T) {
	repo := &applicationRepoStub{
		createID:   42,
		contactErr: sql.ErrNoRows,
	}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	id, err := svc.Submit(context.Background(), SubmitApplicationRequest{StudentID: 7, BursaryID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Empty(t, notifier.enqueued)
}

func TestApplicationServiceSubmitMissingFields(t *testing.T) {
	svc := newApplicationService(&applicationRepoStub{}, &dispatcherStub{})

	_, err := svc.Submit(context.Background(), SubmitApplicationRequest{StudentID: 7})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestApplicationServiceWithdraw(t *testing.T) {
	repo := &applicationRepoStub{
		deleteAffected: 1,
		contact:        &models.ApplicantContact{FullName: "Thabo Mokoena", Email: "thabo@example.com", BursaryTitle: "Engineering Excellence Bursary"},
	}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	err := svc.Withdraw(context.Background(), WithdrawApplicationRequest{StudentID: 7, BursaryID: 3})
	require.NoError(t, err)
	require.Len(t, notifier.enqueued, 1)
	assert.Contains(t, notifier.enqueued[0].Subject, "Withdrawn")
}

func TestApplicationServiceWithdrawNoMatchIsSuccess(t *testing.T) {
	repo := &applicationRepoStub{deleteAffected: 0}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	err := svc.Withdraw(context.Background(), WithdrawApplicationRequest{StudentID: 7, BursaryID: 99})
	require.NoError(t, err)
	assert.Empty(t, notifier.enqueued)
}

func TestApplicationServiceUpdateStatusSendsEmail(t *testing.T) {
	repo := &applicationRepoStub{
		contact: &models.ApplicantContact{FullName: "Thabo Mokoena", Email: "thabo@example.com", BursaryTitle: "Engineering Excellence Bursary"},
	}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	result, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		ApplicationID: 42,
		Status:        "Approved",
		Remarks:       "Congratulations",
		UpdatedBy:     5,
		UpdatedByRole: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "status updated and email sent", result.Message)
	require.Len(t, repo.appended, 1)
	assert.True(t, repo.appended[0].IsVisibleToStudent)
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].Subject, "Bursary Status Update")
}

func TestApplicationServiceUpdateStatusContactLookupFailureDegrades(t *testing.T) {
	repo := &applicationRepoStub{contactErr: sql.ErrNoRows}
	notifier := &dispatcherStub{}
	svc := newApplicationService(repo, notifier)

	result, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		ApplicationID: 42,
		Status:        "Approved",
		UpdatedBy:     5,
		UpdatedByRole: models.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "status updated but notification skipped", result.Message)
	assert.Len(t, repo.appended, 1)
	assert.Empty(t, notifier.sent)
}

func TestApplicationServiceUpdateStatusEmailFailureIsPartialSuccess(t *testing.T) {
	repo := &applicationRepoStub{
		contact: &models.ApplicantContact{FullName: "Thabo Mokoena", Email: "thabo@example.com", BursaryTitle: "Engineering Excellence Bursary"},
	}
	notifier := &dispatcherStub{sendErr: errors.New("smtp timeout")}
	svc := newApplicationService(repo, notifier)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		ApplicationID: 42,
		Status:        "Approved",
		UpdatedBy:     5,
		UpdatedByRole: models.RoleAdmin,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmailDelivery.Code, appErrors.FromError(err).Code)
	// The history write landed even though the notification did not.
	assert.Len(t, repo.appended, 1)
}

func TestApplicationServiceUpdateStatusVisibilityOverride(t *testing.T) {
	repo := &applicationRepoStub{
		contact: &models.ApplicantContact{FullName: "Thabo Mokoena", Email: "thabo@example.com", BursaryTitle: "Engineering Excellence Bursary"},
	}
	svc := newApplicationService(repo, &dispatcherStub{})

	hidden := false
	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		ApplicationID:      42,
		Status:             "Internal Review",
		UpdatedBy:          5,
		UpdatedByRole:      models.RoleAdmin,
		IsVisibleToStudent: &hidden,
	})
	require.NoError(t, err)
	require.Len(t, repo.appended, 1)
	assert.False(t, repo.appended[0].IsVisibleToStudent)
}

func TestApplicationServiceListWithHistory(t *testing.T) {
	repo := &applicationRepoStub{
		overviews: []models.ApplicationOverview{
			{ApplicationID: 42},
			{ApplicationID: 43},
		},
		history: []models.StatusUpdate{
			{ID: 1, ApplicationID: 42, Status: models.StatusSubmitted},
			{ID: 2, ApplicationID: 42, Status: "Approved"},
		},
	}
	svc := newApplicationService(repo, &dispatcherStub{})

	overviews, err := svc.ListWithHistory(context.Background())
	require.NoError(t, err)
	require.Len(t, overviews, 2)
	assert.Len(t, overviews[0].StatusHistory, 2)
	// Applications without history still carry a non-nil slice.
	assert.NotNil(t, overviews[1].StatusHistory)
	assert.Empty(t, overviews[1].StatusHistory)
}

func TestApplicationServiceExportRegisterUnknownFormat(t *testing.T) {
	svc := newApplicationService(&applicationRepoStub{}, &dispatcherStub{})

	_, _, err := svc.ExportRegister(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}

func TestApplicationServiceExportRegisterCSV(t *testing.T) {
	repo := &applicationRepoStub{
		overviews: []models.ApplicationOverview{
			{ApplicationID: 42, StudentName: "Thabo Mokoena", Email: "thabo@example.com",
				BursaryTitle: "Engineering Excellence Bursary", Sponsor: "Acme Mining",
				Amount: 85000, CurrentStatus: "Approved"},
		},
	}
	svc := newApplicationService(repo, &dispatcherStub{})

	data, contentType, err := svc.ExportRegister(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, string(data), "Thabo Mokoena")
	assert.Contains(t, string(data), "85000.00")
}
