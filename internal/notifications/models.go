package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeTicketPurchased NotificationType = "TICKET_PURCHASED"
	NotificationTypeRefundRequested NotificationType = "REFUND_REQUESTED"
	NotificationTypeRefundApproved  NotificationType = "REFUND_APPROVED"
	NotificationTypeRefundRejected  NotificationType = "REFUND_REJECTED"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// Notification is the message carried on the notifications topic. Recipient
// email and name may be left empty by the publisher; the consumer resolves
// them from the recipient id.
type Notification struct {
	ID       uuid.UUID            `json:"id"`
	Type     NotificationType     `json:"type"`
	Priority NotificationPriority `json:"priority"`

	RecipientID    uuid.UUID `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	RecipientName  string    `json:"recipient_name,omitempty"`

	Subject string                 `json:"subject"`
	Data    map[string]interface{} `json:"data,omitempty"`

	EventID    *uuid.UUID `json:"event_id,omitempty"`
	RefundID   *uuid.UUID `json:"refund_id,omitempty"`
	TicketCode string     `json:"ticket_code,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *Notification
}

func NewNotificationBuilder() *NotificationBuilder {
	return &NotificationBuilder{
		notification: &Notification{
			ID:         uuid.New(),
			Status:     NotificationStatusPending,
			CreatedAt:  time.Now().UTC(),
			MaxRetries: 3,
			Data:       make(map[string]interface{}),
		},
	}
}

func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	nb.notification.Priority = GetDefaultPriority(notType)
	return nb
}

func (nb *NotificationBuilder) WithRecipient(userID uuid.UUID) *NotificationBuilder {
	nb.notification.RecipientID = userID
	return nb
}

func (nb *NotificationBuilder) WithEventContext(eventID uuid.UUID) *NotificationBuilder {
	nb.notification.EventID = &eventID
	return nb
}

func (nb *NotificationBuilder) WithRefundContext(refundID uuid.UUID) *NotificationBuilder {
	nb.notification.RefundID = &refundID
	return nb
}

func (nb *NotificationBuilder) WithTicketCode(code string) *NotificationBuilder {
	nb.notification.TicketCode = code
	return nb
}

func (nb *NotificationBuilder) WithData(key string, value interface{}) *NotificationBuilder {
	nb.notification.Data[key] = value
	return nb
}

// Build fills the subject from the type and collected data.
func (nb *NotificationBuilder) Build() *Notification {
	if nb.notification.Subject == "" {
		nb.notification.Subject = subjectFor(nb.notification)
	}
	return nb.notification
}

func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeRefundApproved, NotificationTypeRefundRejected:
		return NotificationPriorityHigh
	case NotificationTypeTicketPurchased, NotificationTypeRefundRequested:
		return NotificationPriorityMedium
	default:
		return NotificationPriorityLow
	}
}

func subjectFor(n *Notification) string {
	title, hasTitle := n.Data["event_title"]
	switch n.Type {
	case NotificationTypeTicketPurchased:
		if hasTitle {
			return fmt.Sprintf("Your tickets for %v", title)
		}
		return "Your tickets are confirmed"
	case NotificationTypeRefundRequested:
		return fmt.Sprintf("New refund request for ticket %s", n.TicketCode)
	case NotificationTypeRefundApproved:
		return "Your refund request was approved"
	case NotificationTypeRefundRejected:
		return "Your refund request was rejected"
	default:
		return "Notification from EventHub"
	}
}

func (n *Notification) GetPartitionKey() string {
	return n.RecipientID.String()
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) MarkSent() {
	now := time.Now().UTC()
	n.Status = NotificationStatusSent
	n.SentAt = &now
}

func (n *Notification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	msg := err.Error()
	n.LastError = &msg
}
