package ratings

import (
	"context"

	"eventhub/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// LockUser serializes rating creation per user.
	LockUser(ctx context.Context, userID uuid.UUID) error
	LockRating(ctx context.Context, id uuid.UUID) (*Rating, error)

	Create(ctx context.Context, rating *Rating) error
	SetState(ctx context.Context, id uuid.UUID, state RatingState) error

	GetByID(ctx context.Context, id uuid.UUID) (*Rating, error)
	CurrentFor(ctx context.Context, userID, eventID uuid.UUID) (*Rating, error)
	ListCurrentByEvent(ctx context.Context, eventID uuid.UUID) ([]Rating, error)
	Stats(ctx context.Context, eventID uuid.UUID) (Stats, error)
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

func (r *repository) LockRating(ctx context.Context, id uuid.UUID) (*Rating, error) {
	var rating Rating
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Take(&rating, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repository) Create(ctx context.Context, rating *Rating) error {
	return r.db.WithContext(ctx).Omit("User").Create(rating).Error
}

func (r *repository) SetState(ctx context.Context, id uuid.UUID, state RatingState) error {
	return r.db.WithContext(ctx).
		Model(&Rating{}).
		Where("id = ?", id).
		Update("state", state).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Rating, error) {
	var rating Rating
	if err := r.db.WithContext(ctx).Preload("User").First(&rating, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repository) CurrentFor(ctx context.Context, userID, eventID uuid.UUID) (*Rating, error) {
	var rating Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND state = ?", userID, eventID, RatingStateCurrent).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repository) ListCurrentByEvent(ctx context.Context, eventID uuid.UUID) ([]Rating, error) {
	var list []Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ? AND state = ?", eventID, RatingStateCurrent).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) Stats(ctx context.Context, eventID uuid.UUID) (Stats, error) {
	var stats Stats
	err := r.db.WithContext(ctx).
		Model(&Rating{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS count").
		Where("event_id = ? AND state = ?", eventID, RatingStateCurrent).
		Scan(&stats).Error
	return stats, err
}
