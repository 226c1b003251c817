package categories

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null;size:120"`
	Description string    `json:"description" gorm:"type:text;not null"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryWithCount is a category plus the number of live events attached to it.
type CategoryWithCount struct {
	Category
	EventCount int64 `json:"event_count"`
}

// EventSummary is the slice of an event shown in a category listing.
type EventSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
}
