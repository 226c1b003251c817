package comments

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/events"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEventNotFound   = errors.New("event not found")
	ErrNotCommentOwner = errors.New("only the author can edit a comment")
	ErrForbidden       = errors.New("only the author or the event organizer can delete a comment")
)

// EventFinder is the part of the events service comments depend on
type EventFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

type Service interface {
	Create(ctx context.Context, userID, eventID uuid.UUID, req CommentRequest) (*CommentResponse, error)
	Update(ctx context.Context, userID, commentID uuid.UUID, req CommentRequest) (*CommentResponse, error)
	Delete(ctx context.Context, actorID, commentID uuid.UUID) error
	Get(ctx context.Context, commentID uuid.UUID) (*CommentResponse, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]CommentResponse, error)
	ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]CommentResponse, error)
}

type service struct {
	repo   Repository
	events EventFinder
	log    *logger.Logger
}

func NewService(repo Repository, events EventFinder, log *logger.Logger) Service {
	return &service{repo: repo, events: events, log: log}
}

func (s *service) Create(ctx context.Context, userID, eventID uuid.UUID, req CommentRequest) (*CommentResponse, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:      uuid.New(),
		Title:   req.Title,
		Text:    req.Text,
		UserID:  userID,
		EventID: eventID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.log.InfoContext(ctx, "Comment Created",
		"comment_id", comment.ID.String(),
		"event_id", eventID.String(),
		"user_id", userID.String(),
	)

	comment.Event = event
	resp := comment.ToResponse()
	return &resp, nil
}

func (s *service) Update(ctx context.Context, userID, commentID uuid.UUID, req CommentRequest) (*CommentResponse, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrNotCommentOwner
	}

	comment.Title = req.Title
	comment.Text = req.Text
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	resp := comment.ToResponse()
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, actorID, commentID uuid.UUID) error {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return err
	}
	if !comment.CanDelete(actorID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, commentID uuid.UUID) (*CommentResponse, error) {
	comment, err := s.find(ctx, commentID)
	if err != nil {
		return nil, err
	}
	resp := comment.ToResponse()
	return &resp, nil
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]CommentResponse, error) {
	if _, err := s.findEvent(ctx, eventID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return toResponses(list), nil
}

func (s *service) ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]CommentResponse, error) {
	list, err := s.repo.ListForOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return toResponses(list), nil
}

func (s *service) find(ctx context.Context, commentID uuid.UUID) (*Comment, error) {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

func (s *service) findEvent(ctx context.Context, eventID uuid.UUID) (*events.Event, error) {
	event, err := s.events.Find(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}
