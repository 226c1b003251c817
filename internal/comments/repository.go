package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Comment, error)
	ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Comment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).Omit("User", "Event").Create(comment).Error
}

func (r *repository) Update(ctx context.Context, comment *Comment) error {
	return r.db.WithContext(ctx).
		Model(&Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"title": comment.Title,
			"text":  comment.Text,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Comment{}, "id = ?", id).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var comment Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		First(&comment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]Comment, error) {
	var list []Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]Comment, error) {
	var list []Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Joins("JOIN events ON events.id = comments.event_id").
		Where("events.organizer_id = ? AND events.deleted_at IS NULL", organizerID).
		Order("comments.created_at DESC").
		Find(&list).Error
	return list, err
}
