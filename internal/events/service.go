package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/categories"
	"eventhub/internal/shared/constants"
	"eventhub/internal/shared/utils/numbers"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrNotEventOrganizer  = errors.New("only the event organizer can perform this action")
	ErrCountdownOrganizer = errors.New("organizers cannot view the countdown")
	ErrVenueTooSmall      = errors.New("venue capacity is below the tickets already sold for this event")
)

const (
	msgVenueNotAttachable   = "venue does not exist or has been deleted"
	msgCategoryNotAvailable = "categories must exist and be active"
)

// CategoryResolver is the part of the categories service events depend on
type CategoryResolver interface {
	ResolveActive(ctx context.Context, ids []uuid.UUID) ([]categories.Category, error)
}

// RatingReader supplies the rating summary shown on an event detail
type RatingReader interface {
	Stats(ctx context.Context, eventID uuid.UUID) (float64, int64, error)
	UserRating(ctx context.Context, userID, eventID uuid.UUID) (*UserRating, error)
}

type Service interface {
	// SetRatingReader wires the rating summary. Ratings depend on events, so
	// the reader is attached after both services exist.
	SetRatingReader(ratings RatingReader)

	Create(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	Update(ctx context.Context, organizerID, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	Delete(ctx context.Context, organizerID, id uuid.UUID) error
	List(ctx context.Context, query EventListQuery) ([]EventResponse, error)
	Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*EventDetail, error)
	Countdown(ctx context.Context, viewerIsOrganizer bool, id uuid.UUID) (*Countdown, error)

	// Find returns the live event row, used by ticket, rating and comment services.
	Find(ctx context.Context, id uuid.UUID) (*Event, error)
}

type service struct {
	repo         Repository
	categories   CategoryResolver
	ratings      RatingReader
	cacheService cache.Service
	log          *logger.Logger
	now          func() time.Time
}

func NewService(repo Repository, categories CategoryResolver, cacheService cache.Service, log *logger.Logger) Service {
	return &service{
		repo:         repo,
		categories:   categories,
		cacheService: cacheService,
		log:          log,
		now:          time.Now,
	}
}

func (s *service) SetRatingReader(ratings RatingReader) {
	s.ratings = ratings
}

func (s *service) Create(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	errs := validation.Errors{}
	if req.Title == "" {
		errs.Add("title", "title is required")
	}
	if req.Description == "" {
		errs.Add("description", "description is required")
	}
	if req.ScheduledAt.IsZero() {
		errs.Add("scheduled_at", "scheduled_at is required")
	}
	if req.VenueID == uuid.Nil {
		errs.Add("venue_id", "venue is required")
	}
	if len(req.CategoryIDs) == 0 {
		errs.Add("category_ids", "at least one category is required")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	cats, err := s.resolveCategories(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	event := &Event{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt.UTC(),
		OrganizerID: organizerID,
		VenueID:     req.VenueID,
		Categories:  cats,
		Status:      StatusActive,
	}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := s.attachVenue(ctx, tx, req.VenueID, uuid.Nil); err != nil {
			return err
		}
		if err := tx.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.LogEventCreated(ctx, event.ID.String(), organizerID.String())

	created, err := s.Find(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	resp := created.ToResponse()
	return &resp, nil
}

// Update locks the event row and writes only the columns the request names,
// so a concurrent status change is never overwritten with a stale value.
func (s *service) Update(ctx context.Context, organizerID, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	fields := map[string]interface{}{}
	errs := validation.Errors{}
	if req.Status != nil && !req.Status.IsValid() {
		errs.Add("status", "must be one of [ACTIVE CANCELLED RESCHEDULED SOLD_OUT FINISHED]")
	}
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t == "" {
			errs.Add("title", "title is required")
		} else {
			fields["title"] = t
		}
	}
	if req.Description != nil {
		if d := strings.TrimSpace(*req.Description); d == "" {
			errs.Add("description", "description is required")
		} else {
			fields["description"] = d
		}
	}
	if req.CategoryIDs != nil && len(*req.CategoryIDs) == 0 {
		errs.Add("category_ids", "at least one category is required")
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if req.ScheduledAt != nil {
		fields["scheduled_at"] = req.ScheduledAt.UTC()
	}

	var replace []categories.Category
	if req.CategoryIDs != nil {
		var err error
		if replace, err = s.resolveCategories(ctx, *req.CategoryIDs); err != nil {
			return nil, err
		}
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		event, err := tx.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("failed to lock event: %w", err)
		}
		if !event.IsOrganizedBy(organizerID) {
			return ErrNotEventOrganizer
		}

		if req.Status != nil {
			if err := event.Status.CanTransitionTo(*req.Status); err != nil {
				return err
			}
			if *req.Status != event.Status {
				fields["status"] = *req.Status
			}
		}
		if req.VenueID != nil && *req.VenueID != event.VenueID {
			if err := s.attachVenue(ctx, tx, *req.VenueID, id); err != nil {
				return err
			}
			fields["venue_id"] = *req.VenueID
		}

		if len(fields) > 0 {
			if err := tx.UpdateFields(ctx, id, fields); err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}
		}
		if replace != nil {
			if err := tx.ReplaceCategories(ctx, id, replace); err != nil {
				return fmt.Errorf("failed to replace categories: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	updated, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, organizerID, id uuid.UUID) error {
	event, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if !event.IsOrganizedBy(organizerID) {
		return ErrNotEventOrganizer
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) List(ctx context.Context, query EventListQuery) ([]EventResponse, error) {
	if query.Status != "" && !Status(query.Status).IsValid() {
		return nil, validation.Errors{"status": "must be one of [ACTIVE CANCELLED RESCHEDULED SOLD_OUT FINISHED]"}
	}
	if query.CategoryID != "" {
		if _, err := uuid.Parse(query.CategoryID); err != nil {
			return nil, validation.Errors{"category_id": "must be a valid UUID"}
		}
	}

	events, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	sold, err := s.repo.SoldUnits(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket totals: %w", err)
	}

	out := make([]EventResponse, 0, len(events))
	for i := range events {
		resp := events[i].ToResponse()
		resp.TicketsSold = sold[events[i].ID]
		out = append(out, resp)
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, viewerID *uuid.UUID, id uuid.UUID) (*EventDetail, error) {
	var base EventResponse
	err := s.cacheService.GetOrSet(ctx, constants.BuildEventDetailKey(id.String()), constants.TTL_EVENT_DETAIL,
		func() (interface{}, error) {
			event, err := s.Find(ctx, id)
			if err != nil {
				return nil, err
			}
			return event.ToResponse(), nil
		}, &base)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	sold, err := s.repo.SoldUnits(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket totals: %w", err)
	}
	base.TicketsSold = sold[id]

	detail := &EventDetail{EventResponse: base}
	if s.ratings == nil {
		return detail, nil
	}

	avg, count, err := s.ratings.Stats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load rating stats: %w", err)
	}
	detail.RatingAverage = numbers.Round(avg, 1)
	detail.RatingCount = count

	if viewerID != nil {
		mine, err := s.ratings.UserRating(ctx, *viewerID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load viewer rating: %w", err)
		}
		detail.MyRating = mine
	}
	return detail, nil
}

func (s *service) Countdown(ctx context.Context, viewerIsOrganizer bool, id uuid.UUID) (*Countdown, error) {
	if viewerIsOrganizer {
		return nil, ErrCountdownOrganizer
	}
	event, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	countdown := CountdownTo(event.ScheduledAt, s.now())
	return &countdown, nil
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// attachVenue locks the venue and checks it can host the event: it must be
// ACTIVE and, for an existing event, hold the units already sold. The
// caller must already hold the event row lock when eventID is set.
func (s *service) attachVenue(ctx context.Context, tx Repository, venueID, eventID uuid.UUID) error {
	venue, err := tx.LockVenue(ctx, venueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return validation.Errors{"venue_id": msgVenueNotAttachable}
	}
	if err != nil {
		return fmt.Errorf("failed to lock venue: %w", err)
	}
	if !venue.IsActive() {
		return validation.Errors{"venue_id": msgVenueNotAttachable}
	}
	if eventID == uuid.Nil {
		return nil
	}

	sold, err := tx.SoldUnits(ctx, []uuid.UUID{eventID})
	if err != nil {
		return fmt.Errorf("failed to load ticket totals: %w", err)
	}
	if sold[eventID] > venue.Capacity {
		return ErrVenueTooSmall
	}
	return nil
}

func (s *service) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]categories.Category, error) {
	cats, err := s.categories.ResolveActive(ctx, ids)
	if errors.Is(err, categories.ErrCategoryNotFound) {
		return nil, validation.Errors{"category_ids": msgCategoryNotAvailable}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	return cats, nil
}

func (s *service) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cacheService.Delete(ctx, constants.BuildEventDetailKey(id.String())); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate event cache", "event_id", id.String(), "error", err)
	}
}
