package analytics

import (
	"context"
	"errors"
	"testing"

	"eventhub/internal/shared/constants"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	rows  []EventRow
	err   error
	calls int
}

func (s *stubRepository) OrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]EventRow, error) {
	s.calls++
	return s.rows, s.err
}

func TestOrganizerDashboard_Aggregates(t *testing.T) {
	repo := &stubRepository{rows: []EventRow{
		{EventID: uuid.New(), Title: "Opening", Capacity: 3, SoldUnits: 1, RatingAverage: 3.666666, RatingCount: 3, PendingRefunds: 1},
		{EventID: uuid.New(), Title: "Closing", Capacity: 0, SoldUnits: 0},
		{EventID: uuid.New(), Title: "Encore", Capacity: 200, SoldUnits: 50, RatingAverage: 4.25, RatingCount: 4, PendingRefunds: 2},
	}}
	svc := NewService(repo, cache.NewNoop(), logger.Discard())
	organizer := uuid.New()

	dashboard, err := svc.OrganizerDashboard(context.Background(), organizer)

	require.NoError(t, err)
	require.Len(t, dashboard.Events, 3)
	assert.Equal(t, organizer.String(), dashboard.OrganizerID)

	assert.Equal(t, 33.33, dashboard.Events[0].Utilization)
	assert.Equal(t, 3.7, dashboard.Events[0].RatingAverage)
	assert.Equal(t, 0.0, dashboard.Events[1].Utilization)
	assert.Equal(t, 25.0, dashboard.Events[2].Utilization)
	assert.Equal(t, 4.3, dashboard.Events[2].RatingAverage)

	assert.Equal(t, 3, dashboard.Totals.Events)
	assert.Equal(t, int64(51), dashboard.Totals.SoldUnits)
	assert.Equal(t, int64(203), dashboard.Totals.Capacity)
	assert.Equal(t, 25.12, dashboard.Totals.Utilization)
	assert.Equal(t, int64(3), dashboard.Totals.PendingRefunds)
}

func TestOrganizerDashboard_NoEvents(t *testing.T) {
	svc := NewService(&stubRepository{}, cache.NewNoop(), logger.Discard())

	dashboard, err := svc.OrganizerDashboard(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, dashboard.Events)
	assert.Equal(t, 0.0, dashboard.Totals.Utilization)
}

func TestOrganizerDashboard_RepositoryError(t *testing.T) {
	svc := NewService(&stubRepository{err: errors.New("db down")}, cache.NewNoop(), logger.Discard())

	_, err := svc.OrganizerDashboard(context.Background(), uuid.New())

	assert.ErrorContains(t, err, "db down")
}

func TestOrganizerDashboard_ServedFromCache(t *testing.T) {
	client, mock := redismock.NewClientMock()
	organizer := uuid.New()
	key := constants.BuildOrganizerDashboardKey(organizer.String())
	mock.ExpectGet(key).SetVal(`{"organizer_id":"` + organizer.String() + `","totals":{"events":2,"sold_units":7}}`)

	repo := &stubRepository{}
	svc := NewService(repo, cache.NewService(client, logger.Discard()), logger.Discard())

	dashboard, err := svc.OrganizerDashboard(context.Background(), organizer)

	require.NoError(t, err)
	assert.Equal(t, 2, dashboard.Totals.Events)
	assert.Equal(t, int64(7), dashboard.Totals.SoldUnits)
	assert.Zero(t, repo.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
