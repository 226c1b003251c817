package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/shared/constants"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category has events and cannot be deleted")
	ErrCategoryActive   = errors.New("active categories cannot be deleted")
)

type Service interface {
	Create(ctx context.Context, req CategoryRequest) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	List(ctx context.Context) ([]CategoryWithCount, error)
	ListActive(ctx context.Context) ([]Category, error)
	EventsOf(ctx context.Context, id uuid.UUID) ([]EventSummary, error)

	// ResolveActive loads the given categories for attachment to an event.
	// Unknown or inactive ids yield ErrCategoryNotFound.
	ResolveActive(ctx context.Context, ids []uuid.UUID) ([]Category, error)
}

type service struct {
	repo  Repository
	cache cache.Service
	log   *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, cache: cacheService, log: log}
}

// validate checks name and description, returning per-field messages.
func (s *service) validate(ctx context.Context, name, description string, excludeID *uuid.UUID) error {
	errs := validation.Errors{}

	if name == "" {
		errs.Add("name", "category name cannot be blank")
	} else if len(name) > 100 {
		errs.Add("name", "must be at most 100")
	} else {
		taken, err := s.repo.NameTaken(ctx, name, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check category name: %w", err)
		}
		if taken {
			errs.Add("name", "category name already exists")
		}
	}

	switch {
	case description == "":
		errs.Add("description", "description is required")
	case !isValidDescription(description):
		errs.Add("description", "description may only contain letters, numbers and spaces")
	}

	return errs.OrNil()
}

func (s *service) Create(ctx context.Context, req CategoryRequest) (*Category, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)

	if err := s.validate(ctx, name, description, nil); err != nil {
		return nil, err
	}

	category := &Category{
		ID:          uuid.New(),
		Name:        name,
		Slug:        generateSlug(name),
		Description: description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation.Errors{"name": "category name already exists"}
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidate(ctx)
	return category, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if err := s.validate(ctx, name, description, &id); err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = generateSlug(name)
	category.Description = description
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation.Errors{"name": "category name already exists"}
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidate(ctx)
	return category, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.CountEvents(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category events: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if category.IsActive {
		return ErrCategoryActive
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidate(ctx)
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *service) List(ctx context.Context) ([]CategoryWithCount, error) {
	rows, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return rows, nil
}

func (s *service) ListActive(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_CATEGORIES_ACTIVE, constants.TTL_CATEGORIES_ACTIVE,
		func() (interface{}, error) {
			return s.repo.ListActive(ctx)
		}, &categories)
	if err != nil {
		return nil, fmt.Errorf("failed to list active categories: %w", err)
	}
	return categories, nil
}

func (s *service) EventsOf(ctx context.Context, id uuid.UUID) ([]EventSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	events, err := s.repo.EventsOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list category events: %w", err)
	}
	return events, nil
}

func (s *service) ResolveActive(ctx context.Context, ids []uuid.UUID) ([]Category, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := s.repo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(found) != len(unique) {
		return nil, ErrCategoryNotFound
	}
	for _, c := range found {
		if !c.IsActive {
			return nil, ErrCategoryNotFound
		}
	}
	return found, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, constants.CACHE_KEY_CATEGORIES_ACTIVE); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate category cache", "error", err)
	}
}
