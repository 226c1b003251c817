package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventhub/internal/categories"
	"eventhub/internal/shared/validation"
	"eventhub/internal/venues"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRepository struct {
	events    map[uuid.UUID]*Event
	venues    map[uuid.UUID]*venues.Venue
	sold      map[uuid.UUID]int
	updateErr error

	// writes records every UpdateFields call
	writes []map[string]interface{}
	// onLock runs inside LockByID, standing in for a commit by another session
	onLock func()
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		events: make(map[uuid.UUID]*Event),
		venues: make(map[uuid.UUID]*venues.Venue),
		sold:   make(map[uuid.UUID]int),
	}
}

func (m *MockRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	snapshot := make(map[uuid.UUID]Event, len(m.events))
	for id, e := range m.events {
		snapshot[id] = *e
	}
	if err := fn(m); err != nil {
		m.events = make(map[uuid.UUID]*Event, len(snapshot))
		for id, e := range snapshot {
			e := e
			m.events[id] = &e
		}
		return err
	}
	return nil
}

func (m *MockRepository) Create(ctx context.Context, event *Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *MockRepository) LockByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	if m.onLock != nil {
		m.onLock()
		m.onLock = nil
	}
	return m.GetByID(ctx, id)
}

func (m *MockRepository) LockVenue(ctx context.Context, venueID uuid.UUID) (*venues.Venue, error) {
	v, ok := m.venues[venueID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *MockRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.writes = append(m.writes, fields)
	e := m.events[id]
	for column, value := range fields {
		switch column {
		case "title":
			e.Title = value.(string)
		case "description":
			e.Description = value.(string)
		case "scheduled_at":
			e.ScheduledAt = value.(time.Time)
		case "status":
			e.Status = value.(Status)
		case "venue_id":
			e.VenueID = value.(uuid.UUID)
		}
	}
	return nil
}

func (m *MockRepository) ReplaceCategories(ctx context.Context, id uuid.UUID, cats []categories.Category) error {
	m.events[id].Categories = cats
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.events, id)
	return nil
}

func (m *MockRepository) List(ctx context.Context, query EventListQuery) ([]Event, error) {
	var out []Event
	for _, e := range m.events {
		if query.Status != "" && string(e.Status) != query.Status {
			continue
		}
		if query.OrganizerID != nil && e.OrganizerID != *query.OrganizerID {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *MockRepository) SoldUnits(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int)
	for _, id := range ids {
		out[id] = m.sold[id]
	}
	return out, nil
}

type stubCategories map[uuid.UUID]categories.Category

func (s stubCategories) ResolveActive(ctx context.Context, ids []uuid.UUID) ([]categories.Category, error) {
	var out []categories.Category
	for _, id := range ids {
		c, ok := s[id]
		if !ok {
			return nil, categories.ErrCategoryNotFound
		}
		out = append(out, c)
	}
	return out, nil
}

type stubRatings struct {
	avg   float64
	count int64
	mine  map[uuid.UUID]*UserRating
}

func (s stubRatings) Stats(ctx context.Context, eventID uuid.UUID) (float64, int64, error) {
	return s.avg, s.count, nil
}

func (s stubRatings) UserRating(ctx context.Context, userID, eventID uuid.UUID) (*UserRating, error) {
	return s.mine[userID], nil
}

type fixture struct {
	repo      *MockRepository
	svc       Service
	venueID   uuid.UUID
	category  categories.Category
	organizer uuid.UUID
}

func newFixture() *fixture {
	venueID := uuid.New()
	cat := categories.Category{ID: uuid.New(), Name: "Rock", Slug: "rock", IsActive: true}
	repo := NewMockRepository()
	repo.venues[venueID] = &venues.Venue{ID: venueID, Capacity: 100, State: venues.VenueStateActive}
	svc := NewService(repo,
		stubCategories{cat.ID: cat},
		cache.NewNoop(),
		logger.Discard(),
	)
	return &fixture{repo: repo, svc: svc, venueID: venueID, category: cat, organizer: uuid.New()}
}

func (f *fixture) create(t *testing.T) *EventResponse {
	t.Helper()
	resp, err := f.svc.Create(context.Background(), f.organizer, CreateEventRequest{
		Title:       "Recital",
		Description: "Una noche de rock",
		ScheduledAt: time.Now().Add(48 * time.Hour),
		VenueID:     f.venueID,
		CategoryIDs: []uuid.UUID{f.category.ID},
	})
	require.NoError(t, err)
	return resp
}

func TestCreate(t *testing.T) {
	f := newFixture()
	resp := f.create(t)

	assert.Equal(t, StatusActive, resp.Status)
	assert.Equal(t, f.organizer.String(), resp.OrganizerID)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "rock", resp.Categories[0].Slug)
}

func TestCreate_RequiredFields(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), f.organizer, CreateEventRequest{Title: "  "})
	fieldErrs, ok := validation.As(err)
	require.True(t, ok)
	for _, field := range []string{"title", "description", "scheduled_at", "venue_id", "category_ids"} {
		assert.Contains(t, fieldErrs, field)
	}
}

func TestCreate_VenueAndCategoryMustBeUsable(t *testing.T) {
	f := newFixture()
	req := CreateEventRequest{
		Title:       "Recital",
		Description: "desc",
		ScheduledAt: time.Now(),
		VenueID:     uuid.New(),
		CategoryIDs: []uuid.UUID{f.category.ID},
	}

	_, err := f.svc.Create(context.Background(), f.organizer, req)
	fieldErrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, msgVenueNotAttachable, fieldErrs["venue_id"])

	req.VenueID = f.venueID
	req.CategoryIDs = []uuid.UUID{uuid.New()}
	_, err = f.svc.Create(context.Background(), f.organizer, req)
	fieldErrs, ok = validation.As(err)
	require.True(t, ok)
	assert.Equal(t, msgCategoryNotAvailable, fieldErrs["category_ids"])
}

func TestUpdate_FinishedLock(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)

	finished := StatusFinished
	_, err := f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{Status: &finished})
	require.NoError(t, err)

	active := StatusActive
	_, err = f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{Status: &active})
	assert.ErrorIs(t, err, ErrEventFinished)
	assert.Equal(t, StatusFinished, f.repo.events[id].Status)

	// other fields remain editable
	title := "Recital (grabado)"
	updated, err := f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
}

func TestUpdate_TitleOnlyWritesTitle(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)

	title := "Recital acústico"
	_, err := f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{Title: &title})
	require.NoError(t, err)

	require.Len(t, f.repo.writes, 1)
	assert.Equal(t, map[string]interface{}{"title": title}, f.repo.writes[0])
}

func TestUpdate_SeesStatusCommittedBeforeLock(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)

	// another request finishes the event after this one started
	f.repo.onLock = func() { f.repo.events[id].Status = StatusFinished }
	title := "Recital (grabado)"
	_, err := f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, StatusFinished, f.repo.events[id].Status)
	assert.Equal(t, title, f.repo.events[id].Title)

	f.repo.events[id].Status = StatusActive
	f.repo.onLock = func() { f.repo.events[id].Status = StatusFinished }
	cancelled := StatusCancelled
	_, err = f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{Status: &cancelled})
	assert.ErrorIs(t, err, ErrEventFinished)
	assert.Len(t, f.repo.writes, 1)
}

func TestUpdate_VenueMustHoldSoldUnits(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)
	f.repo.sold[id] = 7

	small, fits, gone := uuid.New(), uuid.New(), uuid.New()
	f.repo.venues[small] = &venues.Venue{ID: small, Capacity: 5, State: venues.VenueStateActive}
	f.repo.venues[fits] = &venues.Venue{ID: fits, Capacity: 7, State: venues.VenueStateActive}
	f.repo.venues[gone] = &venues.Venue{ID: gone, Capacity: 500, State: venues.VenueStateDeleted}

	_, err := f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{VenueID: &small})
	assert.ErrorIs(t, err, ErrVenueTooSmall)
	assert.Equal(t, f.venueID, f.repo.events[id].VenueID)

	_, err = f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{VenueID: &gone})
	fieldErrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Equal(t, msgVenueNotAttachable, fieldErrs["venue_id"])

	_, err = f.svc.Update(context.Background(), f.organizer, id, UpdateEventRequest{VenueID: &fits})
	require.NoError(t, err)
	assert.Equal(t, fits, f.repo.events[id].VenueID)
}

func TestUpdate_OnlyOwner(t *testing.T) {
	f := newFixture()
	resp := f.create(t)

	title := "x"
	_, err := f.svc.Update(context.Background(), uuid.New(), uuid.MustParse(resp.ID), UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, ErrNotEventOrganizer)

	err = f.svc.Delete(context.Background(), uuid.New(), uuid.MustParse(resp.ID))
	assert.ErrorIs(t, err, ErrNotEventOrganizer)
}

func TestUpdate_EmptyCategoryList(t *testing.T) {
	f := newFixture()
	resp := f.create(t)

	empty := []uuid.UUID{}
	_, err := f.svc.Update(context.Background(), f.organizer, uuid.MustParse(resp.ID), UpdateEventRequest{CategoryIDs: &empty})
	fieldErrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "category_ids")
}

func TestUpdate_RepositoryError(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	f.repo.updateErr = errors.New("deadlock detected")

	title := "y"
	_, err := f.svc.Update(context.Background(), f.organizer, uuid.MustParse(resp.ID), UpdateEventRequest{Title: &title})
	assert.ErrorIs(t, err, f.repo.updateErr)
}

func TestGet_WithRatingsAndTotals(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)
	f.repo.sold[id] = 7

	viewer := uuid.New()
	f.svc.SetRatingReader(stubRatings{
		avg:   3.666666,
		count: 3,
		mine:  map[uuid.UUID]*UserRating{viewer: {Title: "Bueno", Score: 4}},
	})

	detail, err := f.svc.Get(context.Background(), &viewer, id)
	require.NoError(t, err)
	assert.Equal(t, 7, detail.TicketsSold)
	assert.Equal(t, 3.7, detail.RatingAverage)
	assert.Equal(t, int64(3), detail.RatingCount)
	require.NotNil(t, detail.MyRating)
	assert.Equal(t, 4, detail.MyRating.Score)

	anonymous, err := f.svc.Get(context.Background(), nil, id)
	require.NoError(t, err)
	assert.Nil(t, anonymous.MyRating)
}

func TestGet_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), nil, uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestCountdown(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	id := uuid.MustParse(resp.ID)

	_, err := f.svc.Countdown(context.Background(), true, id)
	assert.ErrorIs(t, err, ErrCountdownOrganizer)

	s := f.svc.(*service)
	s.now = func() time.Time { return f.repo.events[id].ScheduledAt.Add(-25 * time.Hour) }
	countdown, err := f.svc.Countdown(context.Background(), false, id)
	require.NoError(t, err)
	assert.Equal(t, Countdown{Days: 1, Hours: 1}, *countdown)
}

func TestList_FillsTotalsAndValidatesFilters(t *testing.T) {
	f := newFixture()
	resp := f.create(t)
	f.repo.sold[uuid.MustParse(resp.ID)] = 2

	list, err := f.svc.List(context.Background(), EventListQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].TicketsSold)

	_, err = f.svc.List(context.Background(), EventListQuery{Status: "DRAFT"})
	_, ok := validation.As(err)
	assert.True(t, ok)
}

func TestEventResponse_Venue(t *testing.T) {
	e := &Event{ID: uuid.New(), Venue: &venues.Venue{ID: uuid.New(), Name: "Luna Park", Capacity: 8000}}
	resp := e.ToResponse()
	require.NotNil(t, resp.Venue)
	assert.Equal(t, 8000, resp.Venue.Capacity)
}
