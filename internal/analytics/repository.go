package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	OrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]EventRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const organizerEventsQuery = `
	SELECT
		e.id AS event_id,
		e.title,
		e.status,
		e.scheduled_at,
		v.capacity,
		COALESCE((
			SELECT SUM(t.quantity) FROM tickets t
			WHERE t.event_id = e.id AND t.state = 'ACTIVE'
		), 0) AS sold_units,
		COALESCE((
			SELECT AVG(r.score) FROM ratings r
			WHERE r.event_id = e.id AND r.state = 'CURRENT'
		), 0) AS rating_average,
		(
			SELECT COUNT(*) FROM ratings r
			WHERE r.event_id = e.id AND r.state = 'CURRENT'
		) AS rating_count,
		(
			SELECT COUNT(*) FROM refund_requests rr
			JOIN tickets t ON t.code::text = rr.ticket_code
			WHERE t.event_id = e.id AND rr.status = 'PENDING'
		) AS pending_refunds
	FROM events e
	JOIN venues v ON v.id = e.venue_id
	WHERE e.organizer_id = ? AND e.deleted_at IS NULL
	ORDER BY e.scheduled_at ASC
`

func (r *repository) OrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]EventRow, error) {
	var rows []EventRow
	if err := r.db.WithContext(ctx).Raw(organizerEventsQuery, organizerID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate organizer events: %w", err)
	}
	return rows, nil
}
