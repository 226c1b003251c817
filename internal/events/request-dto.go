package events

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ScheduledAt time.Time   `json:"scheduled_at"`
	VenueID     uuid.UUID   `json:"venue_id"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

// UpdateEventRequest is a partial update. Nil fields are left unchanged.
type UpdateEventRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	ScheduledAt *time.Time   `json:"scheduled_at"`
	VenueID     *uuid.UUID   `json:"venue_id"`
	Status      *Status      `json:"status"`
	CategoryIDs *[]uuid.UUID `json:"category_ids"`
}

type EventListQuery struct {
	Status     string `form:"status"`
	CategoryID string `form:"category_id"`
	Upcoming   bool   `form:"upcoming"`
	Mine       bool   `form:"mine"`

	OrganizerID *uuid.UUID `form:"-"`
}
