package ratings

import (
	"context"
	"testing"

	"eventhub/internal/events"
	"eventhub/internal/shared/constants"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockRepository struct {
	ratings     map[uuid.UUID]*Rating
	lockedUsers []uuid.UUID
	uniqueIndex bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{ratings: make(map[uuid.UUID]*Rating), uniqueIndex: true}
}

func (m *MockRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	saved := make(map[uuid.UUID]Rating, len(m.ratings))
	for id, r := range m.ratings {
		saved[id] = *r
	}
	if err := fn(m); err != nil {
		m.ratings = make(map[uuid.UUID]*Rating, len(saved))
		for id, r := range saved {
			r := r
			m.ratings[id] = &r
		}
		return err
	}
	return nil
}

func (m *MockRepository) LockUser(ctx context.Context, userID uuid.UUID) error {
	m.lockedUsers = append(m.lockedUsers, userID)
	return nil
}

func (m *MockRepository) LockRating(ctx context.Context, id uuid.UUID) (*Rating, error) {
	return m.GetByID(ctx, id)
}

// Create enforces the partial unique index on CURRENT rows.
func (m *MockRepository) Create(ctx context.Context, rating *Rating) error {
	if m.uniqueIndex && rating.IsCurrent() {
		for _, r := range m.ratings {
			if r.IsCurrent() && r.UserID == rating.UserID && r.EventID == rating.EventID {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	copied := *rating
	m.ratings[rating.ID] = &copied
	return nil
}

func (m *MockRepository) SetState(ctx context.Context, id uuid.UUID, state RatingState) error {
	m.ratings[id].State = state
	return nil
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Rating, error) {
	r, ok := m.ratings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *MockRepository) CurrentFor(ctx context.Context, userID, eventID uuid.UUID) (*Rating, error) {
	for _, r := range m.ratings {
		if r.IsCurrent() && r.UserID == userID && r.EventID == eventID {
			copied := *r
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) ListCurrentByEvent(ctx context.Context, eventID uuid.UUID) ([]Rating, error) {
	var out []Rating
	for _, r := range m.ratings {
		if r.IsCurrent() && r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockRepository) Stats(ctx context.Context, eventID uuid.UUID) (Stats, error) {
	list, _ := m.ListCurrentByEvent(ctx, eventID)
	return Stats{Average: AverageRating(list), Count: int64(len(list))}, nil
}

func (m *MockRepository) countByState(eventID uuid.UUID, state RatingState) int {
	n := 0
	for _, r := range m.ratings {
		if r.EventID == eventID && r.State == state {
			n++
		}
	}
	return n
}

type stubEvents map[uuid.UUID]*events.Event

func (s stubEvents) Find(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	e, ok := s[id]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	return e, nil
}

type fixture struct {
	repo      *MockRepository
	svc       Service
	eventID   uuid.UUID
	organizer uuid.UUID
}

func newFixture(cacheService cache.Service) *fixture {
	repo := NewMockRepository()
	eventID, organizer := uuid.New(), uuid.New()
	svc := NewService(repo, stubEvents{eventID: {ID: eventID, OrganizerID: organizer}}, cacheService, logger.Discard())
	return &fixture{repo: repo, svc: svc, eventID: eventID, organizer: organizer}
}

func rate(score int) RatingRequest {
	return RatingRequest{Title: "Muy bueno", Text: "Gran show", Score: score}
}

func TestCreate_SecondCurrentRatingRejected(t *testing.T) {
	f := newFixture(cache.NewNoop())
	user := uuid.New()

	first, err := f.svc.Create(context.Background(), user, f.eventID, rate(5))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{user}, f.repo.lockedUsers)

	_, err = f.svc.Create(context.Background(), user, f.eventID, rate(1))
	assert.ErrorIs(t, err, ErrRatingExists)

	stored := f.repo.ratings[uuid.MustParse(first.ID)]
	assert.Equal(t, 5, stored.Score)
	assert.Equal(t, RatingStateCurrent, stored.State)
	assert.Equal(t, 1, f.repo.countByState(f.eventID, RatingStateCurrent))
}

func TestCreate_UniqueIndexBackstop(t *testing.T) {
	f := newFixture(cache.NewNoop())
	user := uuid.New()
	existing := &Rating{ID: uuid.New(), UserID: user, EventID: f.eventID, Title: "x", Score: 3, State: RatingStateCurrent}
	f.repo.ratings[existing.ID] = existing

	// a racing writer that slipped past the pre-check still hits the index
	err := f.repo.Create(context.Background(), &Rating{ID: uuid.New(), UserID: user, EventID: f.eventID, State: RatingStateCurrent})
	assert.Equal(t, ErrRatingExists, mapWriteError(err, "x"))
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(cache.NewNoop())

	_, err := f.svc.Create(context.Background(), uuid.New(), f.eventID, RatingRequest{Title: "  ", Score: 6})
	fieldErrs, ok := validation.As(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "title")
	assert.Contains(t, fieldErrs, "score")

	_, err = f.svc.Create(context.Background(), uuid.New(), f.eventID, RatingRequest{Title: "ok", Score: 0})
	fieldErrs, ok = validation.As(err)
	require.True(t, ok)
	assert.Contains(t, fieldErrs, "score")

	_, err = f.svc.Create(context.Background(), uuid.New(), uuid.New(), rate(3))
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUpdate_SupersedesPreviousRow(t *testing.T) {
	f := newFixture(cache.NewNoop())
	user := uuid.New()
	first, err := f.svc.Create(context.Background(), user, f.eventID, rate(2))
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), user, uuid.MustParse(first.ID), rate(4))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, updated.ID)
	assert.Equal(t, 4, updated.Score)

	assert.Equal(t, RatingStateSuperseded, f.repo.ratings[uuid.MustParse(first.ID)].State)
	assert.Equal(t, 1, f.repo.countByState(f.eventID, RatingStateCurrent))

	// the superseded row can no longer be edited
	_, err = f.svc.Update(context.Background(), user, uuid.MustParse(first.ID), rate(1))
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestUpdate_OwnerOnly(t *testing.T) {
	f := newFixture(cache.NewNoop())
	first, err := f.svc.Create(context.Background(), uuid.New(), f.eventID, rate(2))
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), uuid.New(), uuid.MustParse(first.ID), rate(4))
	assert.ErrorIs(t, err, ErrNotRatingOwner)
	assert.Equal(t, RatingStateCurrent, f.repo.ratings[uuid.MustParse(first.ID)].State)
}

func TestSoftDelete(t *testing.T) {
	f := newFixture(cache.NewNoop())
	user := uuid.New()
	r, err := f.svc.Create(context.Background(), user, f.eventID, rate(2))
	require.NoError(t, err)
	id := uuid.MustParse(r.ID)

	// stored content is not re-validated on delete
	f.repo.ratings[id].Title = ""

	assert.ErrorIs(t, f.svc.SoftDelete(context.Background(), uuid.New(), id), ErrForbidden)
	require.NoError(t, f.svc.SoftDelete(context.Background(), f.organizer, id))
	assert.Equal(t, RatingStateDeleted, f.repo.ratings[id].State)
	assert.ErrorIs(t, f.svc.SoftDelete(context.Background(), user, id), ErrRatingNotFound)

	// a deleted rating frees the slot
	_, err = f.svc.Create(context.Background(), user, f.eventID, rate(5))
	assert.NoError(t, err)
}

func TestListByEvent(t *testing.T) {
	f := newFixture(cache.NewNoop())
	viewer := uuid.New()
	_, err := f.svc.Create(context.Background(), viewer, f.eventID, rate(5))
	require.NoError(t, err)
	other, err := f.svc.Create(context.Background(), uuid.New(), f.eventID, rate(3))
	require.NoError(t, err)
	_, err = f.svc.Update(context.Background(), uuid.MustParse(other.UserID), uuid.MustParse(other.ID), rate(4))
	require.NoError(t, err)

	list, err := f.svc.ListByEvent(context.Background(), &viewer, f.eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Count)
	assert.Equal(t, 4.5, list.Average)
	require.NotNil(t, list.Mine)
	assert.Equal(t, 5, list.Mine.Score)

	anonymous, err := f.svc.ListByEvent(context.Background(), nil, f.eventID)
	require.NoError(t, err)
	assert.Nil(t, anonymous.Mine)
}

func TestEventRatingReader(t *testing.T) {
	f := newFixture(cache.NewNoop())
	user := uuid.New()
	_, err := f.svc.Create(context.Background(), user, f.eventID, rate(3))
	require.NoError(t, err)

	reader := NewEventRatingReader(f.svc)
	avg, count, err := reader.Stats(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)
	assert.Equal(t, int64(1), count)

	mine, err := reader.UserRating(context.Background(), user, f.eventID)
	require.NoError(t, err)
	require.NotNil(t, mine)
	assert.Equal(t, 3, mine.Score)

	none, err := reader.UserRating(context.Background(), uuid.New(), f.eventID)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStats_CachedAndInvalidated(t *testing.T) {
	client, mock := redismock.NewClientMock()
	f := newFixture(cache.NewService(client, logger.Discard()))
	statsKey := constants.BuildRatingStatsKey(f.eventID.String())
	detailKey := constants.BuildEventDetailKey(f.eventID.String())

	mock.ExpectGet(statsKey).SetVal(`{"average":4.25,"count":4}`)
	stats, err := f.svc.Stats(context.Background(), f.eventID)
	require.NoError(t, err)
	assert.Equal(t, Stats{Average: 4.25, Count: 4}, stats)

	mock.ExpectDel(statsKey, detailKey).SetVal(2)
	_, err = f.svc.Create(context.Background(), uuid.New(), f.eventID, rate(5))
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
