package venues

import (
	"time"

	"github.com/google/uuid"
)

type VenueState string

const (
	VenueStateActive  VenueState = "ACTIVE"
	VenueStateDeleted VenueState = "DELETED"
)

type Venue struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name      string     `json:"name" gorm:"not null;size:200"`
	Address   string     `json:"address" gorm:"not null;size:200"`
	City      string     `json:"city" gorm:"not null;size:200"`
	Capacity  int        `json:"capacity" gorm:"not null;check:capacity > 0"`
	Contact   string     `json:"contact" gorm:"not null;size:200"`
	State     VenueState `json:"state" gorm:"type:varchar(10);not null;default:'ACTIVE';index"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Venue) TableName() string {
	return "venues"
}

// IsActive reports whether the venue can host new events.
func (v *Venue) IsActive() bool {
	return v.State == VenueStateActive
}
