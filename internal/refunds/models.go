package refunds

import (
	"time"

	"github.com/google/uuid"
)

type Reason string

const (
	ReasonNoAttendance  Reason = "NO_ATTENDANCE"
	ReasonEventChanged  Reason = "EVENT_CHANGED"
	ReasonPurchaseError Reason = "PURCHASE_ERROR"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// RefundRequest references its ticket by code only. The code is free text
// so a request survives the ticket being deleted.
type RefundRequest struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RequesterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"requester_id"`
	TicketCode  string     `gorm:"size:255;not null;index" json:"ticket_code"`
	Reason      Reason     `gorm:"type:varchar(20);not null;check:reason IN ('NO_ATTENDANCE', 'EVENT_CHANGED', 'PURCHASE_ERROR')" json:"reason"`
	Details     string     `gorm:"type:text;not null;default:''" json:"details"`
	Status      Status     `gorm:"type:varchar(10);not null;default:'PENDING';check:status IN ('PENDING', 'APPROVED', 'REJECTED')" json:"status"`
	DecidedAt   *time.Time `json:"decided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (RefundRequest) TableName() string {
	return "refund_requests"
}

func (r *RefundRequest) IsPending() bool {
	return r.Status == StatusPending
}

// OrganizerRefund is a refund request joined with its ticket and event.
type OrganizerRefund struct {
	RefundRequest
	EventID        uuid.UUID `json:"event_id"`
	EventTitle     string    `json:"event_title"`
	TicketQuantity int       `json:"ticket_quantity"`
}

// TicketOwnership links a ticket code to its event and organizer.
type TicketOwnership struct {
	EventID     uuid.UUID
	OrganizerID uuid.UUID
}
