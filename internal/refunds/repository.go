package refunds

import (
	"context"
	"time"

	"eventhub/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// LockUser serializes refund creation per requester.
	LockUser(ctx context.Context, userID uuid.UUID) error
	LockRefund(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	HasPending(ctx context.Context, userID uuid.UUID) (bool, error)

	Create(ctx context.Context, refund *RefundRequest) error
	UpdateDetails(ctx context.Context, refund *RefundRequest) error
	SetDecision(ctx context.Context, id uuid.UUID, status Status, decidedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error)
	ListByRequester(ctx context.Context, userID uuid.UUID) ([]RefundRequest, error)
	ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]OrganizerRefund, error)
	TicketOwnership(ctx context.Context, ticketCode string) (*TicketOwnership, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) LockUser(ctx context.Context, userID uuid.UUID) error {
	var user users.User
	return r.db.WithContext(ctx).
		Select("id").
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&user, "id = ?", userID).Error
}

func (r *repository) LockRefund(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	var refund RefundRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&refund, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *repository) HasPending(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("requester_id = ? AND status = ?", userID, StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Create(ctx context.Context, refund *RefundRequest) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *repository) UpdateDetails(ctx context.Context, refund *RefundRequest) error {
	return r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("id = ?", refund.ID).
		Updates(map[string]interface{}{
			"reason":  refund.Reason,
			"details": refund.Details,
		}).Error
}

func (r *repository) SetDecision(ctx context.Context, id uuid.UUID, status Status, decidedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&RefundRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_at": decidedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&RefundRequest{}, "id = ?", id).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*RefundRequest, error) {
	var refund RefundRequest
	if err := r.db.WithContext(ctx).First(&refund, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *repository) ListByRequester(ctx context.Context, userID uuid.UUID) ([]RefundRequest, error) {
	var list []RefundRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]OrganizerRefund, error) {
	var list []OrganizerRefund
	err := r.db.WithContext(ctx).
		Table("refund_requests").
		Select("refund_requests.*, events.id AS event_id, events.title AS event_title, tickets.quantity AS ticket_quantity").
		Joins("JOIN tickets ON tickets.code::text = refund_requests.ticket_code").
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("events.organizer_id = ?", organizerID).
		Order("refund_requests.created_at DESC").
		Scan(&list).Error
	return list, err
}

func (r *repository) TicketOwnership(ctx context.Context, ticketCode string) (*TicketOwnership, error) {
	var ownership TicketOwnership
	err := r.db.WithContext(ctx).
		Table("tickets").
		Select("events.id AS event_id, events.organizer_id AS organizer_id").
		Joins("JOIN events ON events.id = tickets.event_id").
		Where("tickets.code::text = ?", ticketCode).
		Take(&ownership).Error
	if err != nil {
		return nil, err
	}
	return &ownership, nil
}
