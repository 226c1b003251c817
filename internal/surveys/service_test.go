package surveys

import (
	"context"
	"testing"

	"eventhub/internal/shared/validation"
	"eventhub/internal/tickets"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository enforces the unique ticket_id index like the database does.
type MockRepository struct {
	surveys map[uuid.UUID]*Survey
	// skipExistsCheck simulates a concurrent insert that the pre-check missed.
	skipExistsCheck bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{surveys: make(map[uuid.UUID]*Survey)}
}

func (m *MockRepository) Create(ctx context.Context, survey *Survey) error {
	if _, exists := m.surveys[survey.TicketID]; exists {
		return gorm.ErrDuplicatedKey
	}
	copied := *survey
	m.surveys[survey.TicketID] = &copied
	return nil
}

func (m *MockRepository) GetByTicket(ctx context.Context, ticketID uuid.UUID) (*Survey, error) {
	s, ok := m.surveys[ticketID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *MockRepository) ExistsForTicket(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	if m.skipExistsCheck {
		return false, nil
	}
	_, exists := m.surveys[ticketID]
	return exists, nil
}

type stubTickets map[uuid.UUID]*tickets.Ticket

func (s stubTickets) FindActive(ctx context.Context, code uuid.UUID) (*tickets.Ticket, error) {
	t, ok := s[code]
	if !ok {
		return nil, tickets.ErrTicketNotFound
	}
	return t, nil
}

type fixture struct {
	repo   *MockRepository
	svc    Service
	owner  uuid.UUID
	code   uuid.UUID
	ticket *tickets.Ticket
}

func newFixture() *fixture {
	repo := NewMockRepository()
	owner, code := uuid.New(), uuid.New()
	ticket := &tickets.Ticket{ID: uuid.New(), Code: code, UserID: owner, Quantity: 1, State: tickets.TicketStateActive}
	return &fixture{
		repo:   repo,
		svc:    NewService(repo, stubTickets{code: ticket}, logger.Discard()),
		owner:  owner,
		code:   code,
		ticket: ticket,
	}
}

func TestSubmit_Success(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Submit(context.Background(), f.owner, f.code, SurveyRequest{Score: 5, Comment: " smooth entry "})

	require.NoError(t, err)
	assert.Equal(t, 5, resp.Score)
	assert.Equal(t, "smooth entry", resp.Comment)
	assert.Equal(t, f.code.String(), resp.TicketCode)
	assert.Contains(t, f.repo.surveys, f.ticket.ID)
}

func TestSubmit_OncePerTicket(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Submit(context.Background(), f.owner, f.code, SurveyRequest{Score: 4})
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), f.owner, f.code, SurveyRequest{Score: 1})
	assert.ErrorIs(t, err, ErrSurveyExists)

	f.repo.skipExistsCheck = true
	_, err = f.svc.Submit(context.Background(), f.owner, f.code, SurveyRequest{Score: 1})
	assert.ErrorIs(t, err, ErrSurveyExists)

	assert.Equal(t, 4, f.repo.surveys[f.ticket.ID].Score)
}

func TestSubmit_ScoreOutOfRange(t *testing.T) {
	for _, score := range []int{0, 6} {
		f := newFixture()

		_, err := f.svc.Submit(context.Background(), f.owner, f.code, SurveyRequest{Score: score})

		errs, ok := validation.As(err)
		require.True(t, ok)
		assert.Contains(t, errs, "score")
		assert.Empty(t, f.repo.surveys)
	}
}

func TestSubmit_OnlyOwner(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Submit(context.Background(), uuid.New(), f.code, SurveyRequest{Score: 3})
	assert.ErrorIs(t, err, ErrNotTicketOwner)

	_, err = f.svc.Submit(context.Background(), f.owner, uuid.New(), SurveyRequest{Score: 3})
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestGetForTicket(t *testing.T) {
	f := newFixture()

	_, err := f.svc.GetForTicket(context.Background(), f.owner, f.code)
	assert.ErrorIs(t, err, ErrSurveyNotFound)

	_, err = f.svc.Submit(context.Background(), f.owner, f.code, SurveyRequest{Score: 2, Comment: "queue too long"})
	require.NoError(t, err)

	resp, err := f.svc.GetForTicket(context.Background(), f.owner, f.code)
	require.NoError(t, err)
	assert.Equal(t, "queue too long", resp.Comment)
}
