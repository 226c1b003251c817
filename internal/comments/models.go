package comments

import (
	"time"

	"eventhub/internal/events"
	"eventhub/internal/users"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;index" json:"event_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  *users.User   `gorm:"foreignKey:UserID" json:"-"`
	Event *events.Event `gorm:"foreignKey:EventID" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CanDelete allows the author and the organizer of the commented event.
func (c *Comment) CanDelete(actorID uuid.UUID) bool {
	if c.UserID == actorID {
		return true
	}
	return c.Event != nil && c.Event.IsOrganizedBy(actorID)
}
