package ratings

import (
	"time"

	"eventhub/internal/users"

	"github.com/google/uuid"
)

type RatingState string

const (
	RatingStateCurrent    RatingState = "CURRENT"
	RatingStateSuperseded RatingState = "SUPERSEDED"
	RatingStateDeleted    RatingState = "DELETED"
)

// Rating is one version of a user's rating of an event. Editing supersedes
// the row and writes a new one, so history is kept.
type Rating struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"event_id"`
	Title     string      `gorm:"size:100;not null" json:"title"`
	Text      string      `gorm:"type:text" json:"text"`
	Score     int         `gorm:"not null;check:score BETWEEN 1 AND 5" json:"score"`
	State     RatingState `gorm:"type:varchar(12);not null;default:'CURRENT';check:state IN ('CURRENT', 'SUPERSEDED', 'DELETED')" json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	User      *users.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}

func (r *Rating) IsCurrent() bool {
	return r.State == RatingStateCurrent
}

// AverageRating is the mean score over CURRENT ratings, 0 for none.
// Presentation rounds; this does not.
func AverageRating(ratings []Rating) float64 {
	sum, count := 0, 0
	for _, r := range ratings {
		if !r.IsCurrent() {
			continue
		}
		sum += r.Score
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
