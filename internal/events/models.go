package events

import (
	"time"

	"eventhub/internal/categories"
	"eventhub/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID          uuid.UUID             `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title       string                `json:"title" gorm:"not null;size:200"`
	Description string                `json:"description" gorm:"type:text;not null"`
	ScheduledAt time.Time             `json:"scheduled_at" gorm:"not null;index"`
	OrganizerID uuid.UUID             `json:"organizer_id" gorm:"type:uuid;not null;index"`
	VenueID     uuid.UUID             `json:"venue_id" gorm:"type:uuid;not null;index"`
	Venue       *venues.Venue         `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:RESTRICT;"`
	Categories  []categories.Category `json:"categories,omitempty" gorm:"many2many:event_categories;constraint:OnDelete:CASCADE;"`
	Status      Status                `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	CreatedAt   time.Time             `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time             `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt        `json:"-" gorm:"index"`
}

func (Event) TableName() string {
	return "events"
}

// IsOrganizedBy reports whether userID owns the event.
func (e *Event) IsOrganizedBy(userID uuid.UUID) bool {
	return e.OrganizerID == userID
}

// Countdown is the time left until an event starts.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// CountdownTo splits the time between now and scheduledAt into whole days,
// hours and minutes. Everything is zero once the event has started.
func CountdownTo(scheduledAt, now time.Time) Countdown {
	if !scheduledAt.After(now) {
		return Countdown{}
	}
	total := int(scheduledAt.Sub(now).Seconds())
	return Countdown{
		Days:    total / 86400,
		Hours:   (total % 86400) / 3600,
		Minutes: (total % 3600) / 60,
	}
}
