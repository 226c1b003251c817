package ratings

import (
	"strings"
	"time"
)

type RatingRequest struct {
	Title string `json:"title" validate:"required,max=100"`
	Text  string `json:"text"`
	Score int    `json:"score" validate:"min=1,max=5"`
}

func (r *RatingRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Text = strings.TrimSpace(r.Text)
}

type RatingResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// EventRatings is the rating section of an event page
type EventRatings struct {
	Average float64          `json:"average"`
	Count   int64            `json:"count"`
	Ratings []RatingResponse `json:"ratings"`
	Mine    *RatingResponse  `json:"mine,omitempty"`
}

// Stats is the cached aggregate for one event
type Stats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func (r *Rating) ToResponse() RatingResponse {
	resp := RatingResponse{
		ID:        r.ID.String(),
		EventID:   r.EventID.String(),
		UserID:    r.UserID.String(),
		Title:     r.Title,
		Text:      r.Text,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		resp.Username = r.User.Username
	}
	return resp
}
