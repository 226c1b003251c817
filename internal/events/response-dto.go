package events

import (
	"time"

	"eventhub/internal/venues"
)

// CategoryInfo represents basic category information for event responses
type CategoryInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type EventResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	ScheduledAt time.Time             `json:"scheduled_at"`
	Status      Status                `json:"status"`
	OrganizerID string                `json:"organizer_id"`
	Venue       *venues.VenueResponse `json:"venue,omitempty"`
	Categories  []CategoryInfo        `json:"categories"`
	TicketsSold int                   `json:"tickets_sold"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// UserRating is the viewer's own current rating of an event.
type UserRating struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type EventDetail struct {
	EventResponse
	RatingAverage float64     `json:"rating_average"`
	RatingCount   int64       `json:"rating_count"`
	MyRating      *UserRating `json:"my_rating,omitempty"`
}

func (e *Event) ToResponse() EventResponse {
	resp := EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Description: e.Description,
		ScheduledAt: e.ScheduledAt,
		Status:      e.Status,
		OrganizerID: e.OrganizerID.String(),
		Categories:  make([]CategoryInfo, 0, len(e.Categories)),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Venue != nil {
		v := e.Venue.ToResponse()
		resp.Venue = &v
	}
	for _, c := range e.Categories {
		resp.Categories = append(resp.Categories, CategoryInfo{ID: c.ID.String(), Name: c.Name, Slug: c.Slug})
	}
	return resp
}
