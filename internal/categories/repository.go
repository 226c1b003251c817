package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error)
	NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListWithCounts(ctx context.Context) ([]CategoryWithCount, error)
	ListActive(ctx context.Context) ([]Category, error)
	CountEvents(ctx context.Context, id uuid.UUID) (int64, error)
	EventsOf(ctx context.Context, id uuid.UUID) ([]EventSummary, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	var category Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

func (r *repository) NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&Category{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Category{}, "id = ?", id).Error
}

func (r *repository) ListWithCounts(ctx context.Context) ([]CategoryWithCount, error) {
	var rows []CategoryWithCount
	err := r.db.WithContext(ctx).
		Table("categories c").
		Select("c.*, COUNT(e.id) AS event_count").
		Joins("LEFT JOIN event_categories ec ON ec.category_id = c.id").
		Joins("LEFT JOIN events e ON e.id = ec.event_id AND e.deleted_at IS NULL").
		Group("c.id").
		Order("c.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListActive(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

// CountEvents counts every event row linked to the category, soft-deleted
// ones included, since the link still exists.
func (r *repository) CountEvents(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("event_categories").
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

func (r *repository) EventsOf(ctx context.Context, id uuid.UUID) ([]EventSummary, error) {
	var events []EventSummary
	err := r.db.WithContext(ctx).
		Table("events e").
		Select("e.id, e.title, e.scheduled_at, e.status").
		Joins("JOIN event_categories ec ON ec.event_id = e.id").
		Where("ec.category_id = ? AND e.deleted_at IS NULL", id).
		Order("e.scheduled_at ASC").
		Scan(&events).Error
	return events, err
}
