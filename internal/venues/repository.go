package venues

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository interface for venue operations
type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	// LockByID selects the venue row FOR UPDATE. Events attaching to the
	// venue take the same lock.
	LockByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	// MaxSoldUnits locks the venue's events FOR UPDATE and returns the
	// largest active ticket total among them.
	MaxSoldUnits(ctx context.Context, id uuid.UUID) (int, error)
	ListActive(ctx context.Context) ([]Venue, error)
	Update(ctx context.Context, venue *Venue) error
	MarkDeleted(ctx context.Context, id uuid.UUID) error
	CountEvents(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new venue repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) Create(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	if err := r.db.WithContext(ctx).First(&venue, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&venue, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// Ticket purchases lock their event row, so locking the events here waits
// for in-flight purchases and holds off new ones until commit.
func (r *repository) MaxSoldUnits(ctx context.Context, id uuid.UUID) (int, error) {
	var eventIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("events").
		Where("venue_id = ? AND deleted_at IS NULL", id).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("id", &eventIDs).Error
	if err != nil || len(eventIDs) == 0 {
		return 0, err
	}

	var totals []int
	err = r.db.WithContext(ctx).
		Table("tickets").
		Where("event_id IN ? AND state = ?", eventIDs, "ACTIVE").
		Group("event_id").
		Pluck("SUM(quantity)", &totals).Error
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, total := range totals {
		if total > highest {
			highest = total
		}
	}
	return highest, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Venue, error) {
	var venues []Venue
	err := r.db.WithContext(ctx).
		Where("state = ?", VenueStateActive).
		Order("name ASC").
		Find(&venues).Error
	return venues, err
}

func (r *repository) Update(ctx context.Context, venue *Venue) error {
	return r.db.WithContext(ctx).Save(venue).Error
}

func (r *repository) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Venue{}).
		Where("id = ?", id).
		Update("state", VenueStateDeleted).Error
}

// CountEvents counts events (not soft-deleted) hosted at the venue.
func (r *repository) CountEvents(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("events").
		Where("venue_id = ? AND deleted_at IS NULL", id).
		Count(&count).Error
	return count, err
}
