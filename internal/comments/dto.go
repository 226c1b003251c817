package comments

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"eventhub/internal/shared/validation"
)

type CommentRequest struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (r *CommentRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Text = strings.TrimSpace(r.Text)
}

func (r CommentRequest) validate() error {
	errs := validation.Errors{}

	switch {
	case r.Title == "":
		errs.Add("title", "is required")
	case utf8.RuneCountInString(r.Title) < MinTitleLength:
		errs.Add("title", fmt.Sprintf("must be at least %d characters", MinTitleLength))
	case utf8.RuneCountInString(r.Title) > 100:
		errs.Add("title", "must be at most 100 characters")
	}
	if word, found := FindBannedWord(r.Title); found {
		errs.Add("title", fmt.Sprintf("contains an inappropriate word: '%s'", word))
	}

	if r.Text == "" {
		errs.Add("text", "is required")
	}
	if word, found := FindBannedWord(r.Text); found {
		errs.Add("text", fmt.Sprintf("contains an inappropriate word: '%s'", word))
	}

	return errs.OrNil()
}

type CommentResponse struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title,omitempty"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

func (c *Comment) ToResponse() CommentResponse {
	resp := CommentResponse{
		ID:        c.ID.String(),
		EventID:   c.EventID.String(),
		UserID:    c.UserID.String(),
		Title:     c.Title,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
	if c.User != nil {
		resp.Username = c.User.Username
	}
	if c.Event != nil {
		resp.EventTitle = c.Event.Title
	}
	return resp
}

func toResponses(list []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToResponse())
	}
	return out
}
