package venues

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/shared/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrVenueNotFound     = errors.New("venue not found")
	ErrVenueInUse        = errors.New("venue has events and cannot be deleted")
	ErrCapacityBelowSold = errors.New("capacity is below the tickets already sold for an event at this venue")
)

type Service interface {
	Create(ctx context.Context, req VenueRequest) (*Venue, error)
	Update(ctx context.Context, id uuid.UUID, req VenueRequest) (*Venue, error)
	List(ctx context.Context) ([]Venue, error)
	Get(ctx context.Context, id uuid.UUID) (*Venue, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func normalize(req VenueRequest) VenueRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	req.City = strings.TrimSpace(req.City)
	req.Contact = strings.TrimSpace(req.Contact)
	return req
}

func (s *service) Create(ctx context.Context, req VenueRequest) (*Venue, error) {
	req = normalize(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	venue := &Venue{
		ID:       uuid.New(),
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Capacity: req.Capacity,
		Contact:  req.Contact,
		State:    VenueStateActive,
	}
	if err := s.repo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return venue, nil
}

// Update holds the venue row lock while it checks a lowered capacity
// against the tickets sold for the venue's events.
func (s *service) Update(ctx context.Context, id uuid.UUID, req VenueRequest) (*Venue, error) {
	req = normalize(req)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var venue *Venue
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		if venue, err = lockActive(ctx, tx, id); err != nil {
			return err
		}

		if req.Capacity < venue.Capacity {
			sold, err := tx.MaxSoldUnits(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to sum sold units: %w", err)
			}
			if sold > req.Capacity {
				return ErrCapacityBelowSold
			}
		}

		venue.Name = req.Name
		venue.Address = req.Address
		venue.City = req.City
		venue.Capacity = req.Capacity
		venue.Contact = req.Contact
		if err := tx.Update(ctx, venue); err != nil {
			return fmt.Errorf("failed to update venue: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return venue, nil
}

func (s *service) List(ctx context.Context) ([]Venue, error) {
	venues, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	return venues, nil
}

// Get returns an active venue. Deleted venues are reported as not found.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Venue, error) {
	venue, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to get venue: %w", err)
	}
	if !venue.IsActive() {
		return nil, ErrVenueNotFound
	}
	return venue, nil
}

// SoftDelete counts the venue's events under the venue row lock, which
// event creation also takes before attaching.
func (s *service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := lockActive(ctx, tx, id); err != nil {
			return err
		}

		count, err := tx.CountEvents(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to count venue events: %w", err)
		}
		if count > 0 {
			return ErrVenueInUse
		}

		if err := tx.MarkDeleted(ctx, id); err != nil {
			return fmt.Errorf("failed to delete venue: %w", err)
		}
		return nil
	})
}

func lockActive(ctx context.Context, tx Repository, id uuid.UUID) (*Venue, error) {
	venue, err := tx.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, fmt.Errorf("failed to lock venue: %w", err)
	}
	if !venue.IsActive() {
		return nil, ErrVenueNotFound
	}
	return venue, nil
}
