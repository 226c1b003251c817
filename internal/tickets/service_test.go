package tickets

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"eventhub/internal/events"
	"eventhub/internal/notifications"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository keeps tickets in memory. Transaction stages writes and
// discards them when fn fails.
type MockRepository struct {
	tickets   map[uuid.UUID]*Ticket
	events    map[uuid.UUID]*EventSnapshot
	locked    []uuid.UUID
	createErr error

	// onLockEvent runs while LockEvent waits, standing in for a commit by
	// another session.
	onLockEvent func()
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		tickets: make(map[uuid.UUID]*Ticket),
		events:  make(map[uuid.UUID]*EventSnapshot),
	}
}

func (m *MockRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	snapshot := make(map[uuid.UUID]Ticket, len(m.tickets))
	for id, t := range m.tickets {
		snapshot[id] = *t
	}
	if err := fn(m); err != nil {
		m.tickets = make(map[uuid.UUID]*Ticket, len(snapshot))
		for id, t := range snapshot {
			t := t
			m.tickets[id] = &t
		}
		return err
	}
	return nil
}

func (m *MockRepository) LockEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	e, ok := m.events[eventID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.onLockEvent != nil {
		m.onLockEvent()
		m.onLockEvent = nil
	}
	m.locked = append(m.locked, eventID)
	copied := *e
	return &copied, nil
}

func (m *MockRepository) LockTicket(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	t, ok := m.tickets[id]
	if !ok || !t.IsActive() {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *MockRepository) SoldUnits(ctx context.Context, eventID uuid.UUID) (int, error) {
	sold := 0
	for _, t := range m.tickets {
		if t.EventID == eventID && t.IsActive() {
			sold += t.Quantity
		}
	}
	return sold, nil
}

func (m *MockRepository) HeldByUser(ctx context.Context, userID, eventID uuid.UUID) ([]Ticket, error) {
	var out []Ticket
	for _, t := range m.tickets {
		if t.UserID == userID && t.EventID == eventID && t.IsActive() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MockRepository) Create(ctx context.Context, ticket *Ticket) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *ticket
	m.tickets[ticket.ID] = &copied
	return nil
}

func (m *MockRepository) UpdateQuantityAndType(ctx context.Context, ticket *Ticket) error {
	stored := m.tickets[ticket.ID]
	stored.Quantity = ticket.Quantity
	stored.Type = ticket.Type
	return nil
}

func (m *MockRepository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	m.tickets[id].State = TicketStateDeleted
	return nil
}

func (m *MockRepository) GetByCode(ctx context.Context, code uuid.UUID) (*Ticket, error) {
	for _, t := range m.tickets {
		if t.Code == code && t.IsActive() {
			copied := *t
			if e, ok := m.events[t.EventID]; ok {
				copied.Event = &events.Event{ID: e.ID, Title: e.Title, OrganizerID: e.OrganizerID}
			}
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var out []Ticket
	for _, t := range m.tickets {
		if t.UserID == userID && t.IsActive() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MockRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	var out []Ticket
	for _, t := range m.tickets {
		if t.EventID == eventID && t.IsActive() {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MockRepository) userUnits(userID, eventID uuid.UUID) int {
	held, _ := m.HeldByUser(context.Background(), userID, eventID)
	total := 0
	for _, t := range held {
		total += t.Quantity
	}
	return total
}

func (m *MockRepository) byCode(code uuid.UUID) *Ticket {
	for _, t := range m.tickets {
		if t.Code == code {
			return t
		}
	}
	return nil
}

type stubEvents map[uuid.UUID]*events.Event

func (s stubEvents) Find(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	e, ok := s[id]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	return e, nil
}

type recordingPublisher struct {
	published []*notifications.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, n *notifications.Notification) error {
	p.published = append(p.published, n)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	repo      *MockRepository
	publisher *recordingPublisher
	svc       Service
	eventID   uuid.UUID
	organizer uuid.UUID
}

func newFixture(capacity int) *fixture {
	repo := NewMockRepository()
	eventID, organizer := uuid.New(), uuid.New()
	repo.events[eventID] = &EventSnapshot{
		ID:          eventID,
		Title:       "Recital",
		Status:      string(events.StatusActive),
		OrganizerID: organizer,
		Capacity:    capacity,
	}
	publisher := &recordingPublisher{}
	svc := NewService(repo,
		stubEvents{eventID: {ID: eventID, OrganizerID: organizer, Title: "Recital"}},
		publisher, logger.Discard())
	return &fixture{repo: repo, publisher: publisher, svc: svc, eventID: eventID, organizer: organizer}
}

func general(q int) TicketRequest {
	return TicketRequest{Quantity: q, Type: TicketTypeGeneral}
}

func TestPurchase_Success(t *testing.T) {
	f := newFixture(100)
	user := uuid.New()

	resp, err := f.svc.Purchase(context.Background(), user, f.eventID, general(2))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Quantity)
	assert.Equal(t, "Recital", resp.EventTitle)
	_, err = uuid.Parse(resp.Code)
	assert.NoError(t, err)

	assert.Equal(t, []uuid.UUID{f.eventID}, f.repo.locked)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, notifications.NotificationTypeTicketPurchased, f.publisher.published[0].Type)
	assert.Equal(t, user, f.publisher.published[0].RecipientID)
}

func TestPurchase_UserQuota(t *testing.T) {
	f := newFixture(100)
	user := uuid.New()
	_, err := f.svc.Purchase(context.Background(), user, f.eventID, general(3))
	require.NoError(t, err)

	_, err = f.svc.Purchase(context.Background(), user, f.eventID, general(2))
	assert.ErrorIs(t, err, ErrUserQuotaExceeded)
	assert.Equal(t, 3, f.repo.userUnits(user, f.eventID))

	_, err = f.svc.Purchase(context.Background(), user, f.eventID, general(1))
	require.NoError(t, err)
	assert.Equal(t, 4, f.repo.userUnits(user, f.eventID))
}

func TestPurchase_Capacity(t *testing.T) {
	f := newFixture(1)
	_, err := f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(1))
	require.NoError(t, err)

	_, err = f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(1))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Len(t, f.repo.tickets, 1)
	assert.Len(t, f.publisher.published, 1)
}

func TestPurchase_Validation(t *testing.T) {
	f := newFixture(10)

	_, err := f.svc.Purchase(context.Background(), uuid.New(), f.eventID, TicketRequest{Quantity: 0, Type: "BALCONY"})
	fieldErrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "quantity")
	assert.Contains(t, fieldErrs, "type")
	assert.Empty(t, f.repo.locked)
}

func TestPurchase_EventState(t *testing.T) {
	f := newFixture(10)

	_, err := f.svc.Purchase(context.Background(), uuid.New(), uuid.New(), general(1))
	assert.ErrorIs(t, err, ErrEventNotFound)

	for _, status := range []events.Status{events.StatusCancelled, events.StatusSoldOut, events.StatusFinished} {
		f.repo.events[f.eventID].Status = string(status)
		_, err = f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(1))
		assert.ErrorIs(t, err, ErrEventNotOnSale, status)
	}

	f.repo.events[f.eventID].Status = string(events.StatusRescheduled)
	_, err = f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(1))
	assert.NoError(t, err)
}

func TestPurchase_WriteFailureLeavesNothing(t *testing.T) {
	f := newFixture(10)
	f.repo.createErr = errors.New("connection reset")

	_, err := f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(1))
	assert.ErrorIs(t, err, f.repo.createErr)
	assert.Empty(t, f.repo.tickets)
	assert.Empty(t, f.publisher.published)
}

func TestEdit_QuotaSubstitutesOwnQuantity(t *testing.T) {
	f := newFixture(100)
	user := uuid.New()
	first, err := f.svc.Purchase(context.Background(), user, f.eventID, general(3))
	require.NoError(t, err)
	_, err = f.svc.Purchase(context.Background(), user, f.eventID, general(1))
	require.NoError(t, err)

	code := uuid.MustParse(first.Code)
	_, err = f.svc.Edit(context.Background(), user, code, general(4))
	assert.ErrorIs(t, err, ErrUserQuotaExceeded)

	edited, err := f.svc.Edit(context.Background(), user, code, TicketRequest{Quantity: 2, Type: TicketTypeVIP})
	require.NoError(t, err)
	assert.Equal(t, first.Code, edited.Code)
	assert.Equal(t, TicketTypeVIP, edited.Type)
	assert.Equal(t, 3, f.repo.userUnits(user, f.eventID))
}

func TestEdit_CapacityNetOfOwnQuantity(t *testing.T) {
	f := newFixture(4)
	user := uuid.New()
	resp, err := f.svc.Purchase(context.Background(), user, f.eventID, general(2))
	require.NoError(t, err)
	_, err = f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(2))
	require.NoError(t, err)

	code := uuid.MustParse(resp.Code)
	_, err = f.svc.Edit(context.Background(), user, code, general(2))
	assert.NoError(t, err)

	_, err = f.svc.Edit(context.Background(), user, code, general(3))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestEdit_UsesQuantityCommittedBeforeLock(t *testing.T) {
	f := newFixture(10)
	user := uuid.New()
	mine, err := f.svc.Purchase(context.Background(), user, f.eventID, general(3))
	require.NoError(t, err)
	_, err = f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(4))
	require.NoError(t, err)
	_, err = f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(3))
	require.NoError(t, err)

	code := uuid.MustParse(mine.Code)
	stored := f.repo.byCode(code)
	// a parallel edit lowers the ticket to 1 after Edit has read it as 3
	f.repo.onLockEvent = func() { stored.Quantity = 1 }

	_, err = f.svc.Edit(context.Background(), user, code, general(4))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	sold, _ := f.repo.SoldUnits(context.Background(), f.eventID)
	assert.LessOrEqual(t, sold, 10)
}

func TestEdit_TicketDeletedBeforeLock(t *testing.T) {
	f := newFixture(10)
	user := uuid.New()
	mine, err := f.svc.Purchase(context.Background(), user, f.eventID, general(1))
	require.NoError(t, err)

	stored := f.repo.byCode(uuid.MustParse(mine.Code))
	f.repo.onLockEvent = func() { stored.State = TicketStateDeleted }

	_, err = f.svc.Edit(context.Background(), user, uuid.MustParse(mine.Code), general(2))
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestEdit_OwnerOnly(t *testing.T) {
	f := newFixture(10)
	resp, err := f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(1))
	require.NoError(t, err)

	_, err = f.svc.Edit(context.Background(), uuid.New(), uuid.MustParse(resp.Code), general(1))
	assert.ErrorIs(t, err, ErrNotTicketOwner)

	_, err = f.svc.Edit(context.Background(), uuid.New(), uuid.New(), general(1))
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestDelete_OwnerOrOrganizer(t *testing.T) {
	f := newFixture(10)
	owner := uuid.New()
	a, err := f.svc.Purchase(context.Background(), owner, f.eventID, general(1))
	require.NoError(t, err)
	b, err := f.svc.Purchase(context.Background(), owner, f.eventID, general(1))
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), uuid.New(), uuid.MustParse(a.Code))
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.svc.Delete(context.Background(), owner, uuid.MustParse(a.Code)))
	require.NoError(t, f.svc.Delete(context.Background(), f.organizer, uuid.MustParse(b.Code)))
	assert.Equal(t, 0, f.repo.userUnits(owner, f.eventID))

	err = f.svc.Delete(context.Background(), owner, uuid.MustParse(a.Code))
	assert.ErrorIs(t, err, ErrTicketNotFound)

	// deleted units free up quota
	_, err = f.svc.Purchase(context.Background(), owner, f.eventID, general(4))
	assert.NoError(t, err)
}

func TestListByEvent_OrganizerOnly(t *testing.T) {
	f := newFixture(10)
	_, err := f.svc.Purchase(context.Background(), uuid.New(), f.eventID, general(2))
	require.NoError(t, err)

	_, err = f.svc.ListByEvent(context.Background(), uuid.New(), f.eventID)
	assert.ErrorIs(t, err, ErrNotEventOrganizer)

	list, err := f.svc.ListByEvent(context.Background(), f.organizer, f.eventID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Recital", list[0].EventTitle)

	_, err = f.svc.ListByEvent(context.Background(), f.organizer, uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestGetByCode(t *testing.T) {
	f := newFixture(10)
	owner := uuid.New()
	resp, err := f.svc.Purchase(context.Background(), owner, f.eventID, general(1))
	require.NoError(t, err)
	code := uuid.MustParse(resp.Code)

	got, err := f.svc.GetByCode(context.Background(), owner, code)
	require.NoError(t, err)
	assert.Equal(t, resp.Code, got.Code)

	_, err = f.svc.GetByCode(context.Background(), f.organizer, code)
	assert.NoError(t, err)

	_, err = f.svc.GetByCode(context.Background(), uuid.New(), code)
	assert.ErrorIs(t, err, ErrForbidden)

	mine, err := f.svc.ListMine(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

// TestRandomSequences drives purchases, edits and deletes from three users
// and checks both unit bounds after every step.
func TestRandomSequences(t *testing.T) {
	const capacity = 10

	for seed := int64(1); seed <= 20; seed++ {
		f := newFixture(capacity)
		rng := rand.New(rand.NewSource(seed))
		users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		owners := map[uuid.UUID]uuid.UUID{}
		var codes []uuid.UUID
		accepted := 0

		for step := 0; step < 60; step++ {
			req := TicketRequest{Quantity: rng.Intn(4) + 1, Type: TicketTypeGeneral}
			if rng.Intn(2) == 0 {
				req.Type = TicketTypeVIP
			}

			var err error
			switch op := rng.Intn(3); {
			case op == 0 || len(codes) == 0:
				user := users[rng.Intn(len(users))]
				var resp *TicketResponse
				resp, err = f.svc.Purchase(context.Background(), user, f.eventID, req)
				if err == nil {
					code := uuid.MustParse(resp.Code)
					codes = append(codes, code)
					owners[code] = user
				}
			case op == 1:
				code := codes[rng.Intn(len(codes))]
				_, err = f.svc.Edit(context.Background(), owners[code], code, req)
			default:
				code := codes[rng.Intn(len(codes))]
				err = f.svc.Delete(context.Background(), owners[code], code)
			}
			if err == nil {
				accepted++
			} else {
				assert.True(t,
					errors.Is(err, ErrCapacityExceeded) || errors.Is(err, ErrUserQuotaExceeded) || errors.Is(err, ErrTicketNotFound),
					"seed %d step %d: unexpected error %v", seed, step, err)
			}

			sold, _ := f.repo.SoldUnits(context.Background(), f.eventID)
			require.LessOrEqual(t, sold, capacity, "seed %d step %d", seed, step)
			for _, user := range users {
				require.LessOrEqual(t, f.repo.userUnits(user, f.eventID), MaxTicketsPerUser, "seed %d step %d", seed, step)
			}
		}
		assert.Positive(t, accepted, "seed %d", seed)
	}
}
