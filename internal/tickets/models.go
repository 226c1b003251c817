package tickets

import (
	"time"

	"eventhub/internal/events"

	"github.com/google/uuid"
)

type TicketType string

const (
	TicketTypeGeneral TicketType = "GENERAL"
	TicketTypeVIP     TicketType = "VIP"
)

func (t TicketType) IsValid() bool {
	return t == TicketTypeGeneral || t == TicketTypeVIP
}

type TicketState string

const (
	TicketStateActive  TicketState = "ACTIVE"
	TicketStateDeleted TicketState = "DELETED"
)

type Ticket struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code      uuid.UUID     `gorm:"type:uuid;uniqueIndex;not null" json:"code"`
	UserID    uuid.UUID     `gorm:"type:uuid;index:idx_tickets_user_event;not null" json:"user_id"`
	EventID   uuid.UUID     `gorm:"type:uuid;index:idx_tickets_user_event;index;not null" json:"event_id"`
	Quantity  int           `gorm:"not null;check:quantity > 0" json:"quantity"`
	Type      TicketType    `gorm:"type:varchar(10);check:type IN ('GENERAL', 'VIP');not null" json:"type"`
	State     TicketState   `gorm:"type:varchar(10);check:state IN ('ACTIVE', 'DELETED');default:'ACTIVE';not null" json:"state"`
	BuyDate   time.Time     `gorm:"not null" json:"buy_date"`
	UpdatedAt time.Time     `json:"updated_at"`
	Event     *events.Event `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT;" json:"event,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsActive() bool {
	return t.State == TicketStateActive
}

// EventSnapshot is the locked events row plus its venue capacity.
type EventSnapshot struct {
	ID          uuid.UUID `gorm:"column:id"`
	Title       string    `gorm:"column:title"`
	Status      string    `gorm:"column:status"`
	OrganizerID uuid.UUID `gorm:"column:organizer_id"`
	VenueID     uuid.UUID `gorm:"column:venue_id"`
	Capacity    int       `gorm:"-"`
}
