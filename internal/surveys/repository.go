package surveys

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, survey *Survey) error
	GetByTicket(ctx context.Context, ticketID uuid.UUID) (*Survey, error)
	ExistsForTicket(ctx context.Context, ticketID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, survey *Survey) error {
	return r.db.WithContext(ctx).Create(survey).Error
}

func (r *repository) GetByTicket(ctx context.Context, ticketID uuid.UUID) (*Survey, error) {
	var survey Survey
	if err := r.db.WithContext(ctx).First(&survey, "ticket_id = ?", ticketID).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (r *repository) ExistsForTicket(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Survey{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error
	return count > 0, err
}
