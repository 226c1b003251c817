package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// LockEvent selects the event row FOR UPDATE, then reads its venue capacity.
	LockEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error)
	// LockTicket selects an ACTIVE ticket row FOR UPDATE.
	LockTicket(ctx context.Context, id uuid.UUID) (*Ticket, error)
	SoldUnits(ctx context.Context, eventID uuid.UUID) (int, error)
	HeldByUser(ctx context.Context, userID, eventID uuid.UUID) ([]Ticket, error)

	Create(ctx context.Context, ticket *Ticket) error
	UpdateQuantityAndType(ctx context.Context, ticket *Ticket) error
	MarkDeleted(ctx context.Context, id uuid.UUID) error

	GetByCode(ctx context.Context, code uuid.UUID) (*Ticket, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error)
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

func (r *repository) LockEvent(ctx context.Context, eventID uuid.UUID) (*EventSnapshot, error) {
	var snapshot EventSnapshot
	err := r.db.WithContext(ctx).
		Table("events").
		Select("id, title, status, organizer_id, venue_id").
		Where("id = ? AND deleted_at IS NULL", eventID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&snapshot).Error
	if err != nil {
		return nil, err
	}

	// separate statement so a capacity change committed while we waited is seen
	err = r.db.WithContext(ctx).
		Table("venues").
		Select("capacity").
		Where("id = ?", snapshot.VenueID).
		Scan(&snapshot.Capacity).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *repository) LockTicket(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Where("id = ? AND state = ?", id, TicketStateActive).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) SoldUnits(ctx context.Context, eventID uuid.UUID) (int, error) {
	var sold int
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("event_id = ? AND state = ?", eventID, TicketStateActive).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sold).Error
	return sold, err
}

func (r *repository) HeldByUser(ctx context.Context, userID, eventID uuid.UUID) ([]Ticket, error) {
	var held []Ticket
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND state = ?", userID, eventID, TicketStateActive).
		Find(&held).Error
	return held, err
}

func (r *repository) Create(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).Omit("Event").Create(ticket).Error
}

// UpdateQuantityAndType never touches the code, owner or event.
func (r *repository) UpdateQuantityAndType(ctx context.Context, ticket *Ticket) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", ticket.ID).
		Updates(map[string]interface{}{
			"quantity": ticket.Quantity,
			"type":     ticket.Type,
		}).Error
}

func (r *repository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Update("state", TicketStateDeleted).Error
}

func (r *repository) GetByCode(ctx context.Context, code uuid.UUID) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("code = ? AND state = ?", code, TicketStateActive).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Ticket, error) {
	var list []Ticket
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ? AND state = ?", userID, TicketStateActive).
		Order("buy_date ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Ticket, error) {
	var list []Ticket
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND state = ?", eventID, TicketStateActive).
		Order("buy_date ASC").
		Find(&list).Error
	return list, err
}
