package surveys

import (
	"time"

	"github.com/google/uuid"
)

// Survey is the satisfaction survey answered once per ticket.
type Survey struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TicketID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"ticket_id"`
	Score     int       `gorm:"not null;check:score BETWEEN 1 AND 5" json:"score"`
	Comment   string    `gorm:"type:text;not null;default:''" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (Survey) TableName() string {
	return "satisfaction_surveys"
}

type SurveyRequest struct {
	Score   int    `json:"score" validate:"min=1,max=5"`
	Comment string `json:"comment"`
}

type SurveyResponse struct {
	ID         string    `json:"id"`
	TicketCode string    `json:"ticket_code"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func (s *Survey) toResponse(ticketCode uuid.UUID) *SurveyResponse {
	return &SurveyResponse{
		ID:         s.ID.String(),
		TicketCode: ticketCode.String(),
		Score:      s.Score,
		Comment:    s.Comment,
		CreatedAt:  s.CreatedAt,
	}
}
