package analytics

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/shared/constants"
	"eventhub/internal/shared/utils/numbers"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
)

type Service interface {
	OrganizerDashboard(ctx context.Context, organizerID uuid.UUID) (*OrganizerDashboard, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
	now   func() time.Time
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, log: log, now: time.Now}
}

// OrganizerDashboard is cached for a few minutes; ticket and rating writes
// do not invalidate it.
func (s *service) OrganizerDashboard(ctx context.Context, organizerID uuid.UUID) (*OrganizerDashboard, error) {
	var dashboard OrganizerDashboard
	err := s.cache.GetOrSet(ctx,
		constants.BuildOrganizerDashboardKey(organizerID.String()),
		constants.TTL_ANALYTICS_ORGANIZER,
		func() (interface{}, error) {
			rows, err := s.repo.OrganizerEvents(ctx, organizerID)
			if err != nil {
				return nil, err
			}
			return buildDashboard(organizerID, rows, s.now().UTC()), nil
		},
		&dashboard,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build organizer dashboard: %w", err)
	}
	return &dashboard, nil
}

func buildDashboard(organizerID uuid.UUID, rows []EventRow, generatedAt time.Time) *OrganizerDashboard {
	dashboard := &OrganizerDashboard{
		OrganizerID: organizerID.String(),
		Events:      make([]EventMetrics, 0, len(rows)),
		GeneratedAt: generatedAt,
	}

	for _, row := range rows {
		dashboard.Events = append(dashboard.Events, EventMetrics{
			EventID:        row.EventID.String(),
			Title:          row.Title,
			Status:         row.Status,
			ScheduledAt:    row.ScheduledAt,
			SoldUnits:      row.SoldUnits,
			Capacity:       row.Capacity,
			Utilization:    numbers.Percent(row.SoldUnits, row.Capacity),
			RatingAverage:  numbers.Round(row.RatingAverage, 1),
			RatingCount:    row.RatingCount,
			PendingRefunds: row.PendingRefunds,
		})

		dashboard.Totals.SoldUnits += row.SoldUnits
		dashboard.Totals.Capacity += row.Capacity
		dashboard.Totals.PendingRefunds += row.PendingRefunds
	}

	dashboard.Totals.Events = len(rows)
	dashboard.Totals.Utilization = numbers.Percent(dashboard.Totals.SoldUnits, dashboard.Totals.Capacity)
	return dashboard
}
