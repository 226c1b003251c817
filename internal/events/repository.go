package events

import (
	"context"
	"time"

	"eventhub/internal/categories"
	"eventhub/internal/venues"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)

	// LockByID selects the live event row FOR UPDATE, without associations.
	LockByID(ctx context.Context, id uuid.UUID) (*Event, error)
	// LockVenue selects the venue row FOR UPDATE. Venue deletion and
	// capacity changes take the same lock.
	LockVenue(ctx context.Context, venueID uuid.UUID) (*venues.Venue, error)
	// UpdateFields writes only the named columns.
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	ReplaceCategories(ctx context.Context, id uuid.UUID, cats []categories.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query EventListQuery) ([]Event, error)
	SoldUnits(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error)
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

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Categories").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) LockVenue(ctx context.Context, venueID uuid.UUID) (*venues.Venue, error) {
	var venue venues.Venue
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&venue, "id = ?", venueID).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) ReplaceCategories(ctx context.Context, id uuid.UUID, cats []categories.Category) error {
	return r.db.WithContext(ctx).
		Model(&Event{ID: id}).
		Association("Categories").
		Replace(cats)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id).Error
}

func (r *repository) List(ctx context.Context, query EventListQuery) ([]Event, error) {
	db := r.db.WithContext(ctx).
		Model(&Event{}).
		Preload("Venue").
		Preload("Categories")

	if query.Status != "" {
		db = db.Where("events.status = ?", query.Status)
	}
	if query.CategoryID != "" {
		db = db.Where("events.id IN (?)",
			r.db.Table("event_categories").Select("event_id").Where("category_id = ?", query.CategoryID))
	}
	if query.Upcoming {
		db = db.Where("events.scheduled_at > ?", time.Now().UTC())
	}
	if query.OrganizerID != nil {
		db = db.Where("events.organizer_id = ?", *query.OrganizerID)
	}

	var events []Event
	err := db.Order("events.scheduled_at ASC").Find(&events).Error
	return events, err
}

// SoldUnits sums active ticket quantities per event.
func (r *repository) SoldUnits(ctx context.Context, eventIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		EventID uuid.UUID
		Total   int
	}
	err := r.db.WithContext(ctx).
		Table("tickets").
		Select("event_id, COALESCE(SUM(quantity), 0) AS total").
		Where("event_id IN ? AND state = ?", eventIDs, "ACTIVE").
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.EventID] = row.Total
	}
	return totals, nil
}
