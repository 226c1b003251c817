package analytics

import (
	"time"

	"github.com/google/uuid"
)

// EventRow is the raw per-event aggregate read from the database.
type EventRow struct {
	EventID        uuid.UUID
	Title          string
	Status         string
	ScheduledAt    time.Time
	Capacity       int64
	SoldUnits      int64
	RatingAverage  float64
	RatingCount    int64
	PendingRefunds int64
}

type EventMetrics struct {
	EventID        string    `json:"event_id"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	SoldUnits      int64     `json:"sold_units"`
	Capacity       int64     `json:"capacity"`
	Utilization    float64   `json:"utilization_percent"`
	RatingAverage  float64   `json:"rating_average"`
	RatingCount    int64     `json:"rating_count"`
	PendingRefunds int64     `json:"pending_refunds"`
}

type DashboardTotals struct {
	Events         int     `json:"events"`
	SoldUnits      int64   `json:"sold_units"`
	Capacity       int64   `json:"capacity"`
	Utilization    float64 `json:"utilization_percent"`
	PendingRefunds int64   `json:"pending_refunds"`
}

// OrganizerDashboard summarizes every event owned by one organizer.
type OrganizerDashboard struct {
	OrganizerID string          `json:"organizer_id"`
	Totals      DashboardTotals `json:"totals"`
	Events      []EventMetrics  `json:"events"`
	GeneratedAt time.Time       `json:"generated_at"`
}
