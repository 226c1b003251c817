package ratings

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/events"
	"eventhub/internal/shared/constants"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/cache"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
	ErrRatingExists   = errors.New("you already rated this event")
	ErrNotRatingOwner = errors.New("only the author can edit a rating")
	ErrForbidden      = errors.New("only the author or the event organizer can delete a rating")
	ErrEventNotFound  = errors.New("event not found")
)

// EventFinder is the part of the events service ratings depend on
type EventFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

type Service interface {
	Create(ctx context.Context, userID, eventID uuid.UUID, req RatingRequest) (*RatingResponse, error)
	Update(ctx context.Context, userID, ratingID uuid.UUID, req RatingRequest) (*RatingResponse, error)
	SoftDelete(ctx context.Context, actorID, ratingID uuid.UUID) error
	ListByEvent(ctx context.Context, viewerID *uuid.UUID, eventID uuid.UUID) (*EventRatings, error)
	Stats(ctx context.Context, eventID uuid.UUID) (Stats, error)
	UserRating(ctx context.Context, userID, eventID uuid.UUID) (*Rating, error)
}

type service struct {
	repo   Repository
	events EventFinder
	cache  cache.Service
	log    *logger.Logger
}

func NewService(repo Repository, events EventFinder, cacheService cache.Service, log *logger.Logger) Service {
	return &service{repo: repo, events: events, cache: cacheService, log: log}
}

func (s *service) Create(ctx context.Context, userID, eventID uuid.UUID, req RatingRequest) (*RatingResponse, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}

	rating := &Rating{
		ID:      uuid.New(),
		UserID:  userID,
		EventID: eventID,
		Title:   req.Title,
		Text:    req.Text,
		Score:   req.Score,
		State:   RatingStateCurrent,
	}
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to lock user: %w", err)
		}

		_, err := tx.CurrentFor(ctx, userID, eventID)
		if err == nil {
			return ErrRatingExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing rating: %w", err)
		}

		return tx.Create(ctx, rating)
	})
	if err != nil {
		return nil, mapWriteError(err, "failed to create rating")
	}

	s.afterWrite(ctx, "create", rating)
	resp := rating.ToResponse()
	return &resp, nil
}

func (s *service) Update(ctx context.Context, userID, ratingID uuid.UUID, req RatingRequest) (*RatingResponse, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var next *Rating
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		previous, err := tx.LockRating(ctx, ratingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRatingNotFound
			}
			return fmt.Errorf("failed to lock rating: %w", err)
		}
		if !previous.IsCurrent() {
			return ErrRatingNotFound
		}
		if previous.UserID != userID {
			return ErrNotRatingOwner
		}

		if err := tx.SetState(ctx, previous.ID, RatingStateSuperseded); err != nil {
			return fmt.Errorf("failed to supersede rating: %w", err)
		}

		next = &Rating{
			ID:      uuid.New(),
			UserID:  previous.UserID,
			EventID: previous.EventID,
			Title:   req.Title,
			Text:    req.Text,
			Score:   req.Score,
			State:   RatingStateCurrent,
		}
		return tx.Create(ctx, next)
	})
	if err != nil {
		return nil, mapWriteError(err, "failed to update rating")
	}

	s.afterWrite(ctx, "update", next)
	resp := next.ToResponse()
	return &resp, nil
}

// SoftDelete marks the rating DELETED without re-validating its content.
func (s *service) SoftDelete(ctx context.Context, actorID, ratingID uuid.UUID) error {
	rating, err := s.repo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("failed to get rating: %w", err)
	}
	if rating.State == RatingStateDeleted {
		return ErrRatingNotFound
	}

	if rating.UserID != actorID {
		event, err := s.findEvent(ctx, rating.EventID)
		if err != nil {
			return err
		}
		if !event.IsOrganizedBy(actorID) {
			return ErrForbidden
		}
	}

	if err := s.repo.SetState(ctx, rating.ID, RatingStateDeleted); err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	s.afterWrite(ctx, "delete", rating)
	return nil
}

func (s *service) ListByEvent(ctx context.Context, viewerID *uuid.UUID, eventID uuid.UUID) (*EventRatings, error) {
	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}

	list, err := s.repo.ListCurrentByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}

	out := &EventRatings{
		Average: AverageRating(list),
		Count:   int64(len(list)),
		Ratings: make([]RatingResponse, 0, len(list)),
	}
	for i := range list {
		resp := list[i].ToResponse()
		out.Ratings = append(out.Ratings, resp)
		if viewerID != nil && list[i].UserID == *viewerID {
			mine := resp
			out.Mine = &mine
		}
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context, eventID uuid.UUID) (Stats, error) {
	var stats Stats
	err := s.cache.GetOrSet(ctx, constants.BuildRatingStatsKey(eventID.String()), constants.TTL_RATING_STATS,
		func() (interface{}, error) {
			return s.repo.Stats(ctx, eventID)
		}, &stats)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to load rating stats: %w", err)
	}
	return stats, nil
}

func (s *service) UserRating(ctx context.Context, userID, eventID uuid.UUID) (*Rating, error) {
	rating, err := s.repo.CurrentFor(ctx, userID, eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}
	return rating, nil
}

func (s *service) findEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error) {
	event, err := s.events.Find(ctx, eventID)
	if errors.Is(err, events.ErrEventNotFound) {
		return nil, ErrEventNotFound
	}
	return event, err
}

func (s *service) afterWrite(ctx context.Context, action string, rating *Rating) {
	metrics.RatingWrites.WithLabelValues(action).Inc()
	s.log.LogRatingWritten(ctx, action, rating.ID.String(), rating.EventID.String(), rating.UserID.String())

	keys := []string{
		constants.BuildRatingStatsKey(rating.EventID.String()),
		constants.BuildEventDetailKey(rating.EventID.String()),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WarnContext(ctx, "failed to invalidate rating cache", "event_id", rating.EventID.String(), "error", err)
	}
}

// mapWriteError turns a unique violation on the CURRENT index into ErrRatingExists.
func mapWriteError(err error, msg string) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrRatingExists
	case errors.Is(err, ErrRatingExists), errors.Is(err, ErrRatingNotFound), errors.Is(err, ErrNotRatingOwner):
		return err
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

// EventRatingReader exposes rating summaries to the events service.
type EventRatingReader struct {
	service Service
}

func NewEventRatingReader(service Service) *EventRatingReader {
	return &EventRatingReader{service: service}
}

func (r *EventRatingReader) Stats(ctx context.Context, eventID uuid.UUID) (float64, int64, error) {
	stats, err := r.service.Stats(ctx, eventID)
	if err != nil {
		return 0, 0, err
	}
	return stats.Average, stats.Count, nil
}

func (r *EventRatingReader) UserRating(ctx context.Context, userID, eventID uuid.UUID) (*events.UserRating, error) {
	rating, err := r.service.UserRating(ctx, userID, eventID)
	if err != nil || rating == nil {
		return nil, err
	}
	return &events.UserRating{
		ID:    rating.ID.String(),
		Title: rating.Title,
		Text:  rating.Text,
		Score: rating.Score,
	}, nil
}
