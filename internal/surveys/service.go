package surveys

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/shared/validation"
	"eventhub/internal/tickets"
	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSurveyExists   = errors.New("a survey was already submitted for this ticket")
	ErrSurveyNotFound = errors.New("survey not found")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrNotTicketOwner = errors.New("only the ticket owner can answer its survey")
)

// TicketFinder is the part of the tickets service surveys depend on
type TicketFinder interface {
	FindActive(ctx context.Context, code uuid.UUID) (*tickets.Ticket, error)
}

type Service interface {
	Submit(ctx context.Context, userID, ticketCode uuid.UUID, req SurveyRequest) (*SurveyResponse, error)
	GetForTicket(ctx context.Context, userID, ticketCode uuid.UUID) (*SurveyResponse, error)
}

type service struct {
	repo    Repository
	tickets TicketFinder
	log     *logger.Logger
}

func NewService(repo Repository, tickets TicketFinder, log *logger.Logger) Service {
	return &service{repo: repo, tickets: tickets, log: log}
}

func (s *service) Submit(ctx context.Context, userID, ticketCode uuid.UUID, req SurveyRequest) (*SurveyResponse, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ticket, err := s.ownedTicket(ctx, userID, ticketCode)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForTicket(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check survey: %w", err)
	}
	if exists {
		return nil, ErrSurveyExists
	}

	survey := &Survey{
		ID:       uuid.New(),
		UserID:   userID,
		TicketID: ticket.ID,
		Score:    req.Score,
		Comment:  req.Comment,
	}
	if err := s.repo.Create(ctx, survey); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSurveyExists
		}
		return nil, fmt.Errorf("failed to save survey: %w", err)
	}

	s.log.InfoContext(ctx, "Survey Submitted",
		"ticket_code", ticketCode.String(),
		"user_id", userID.String(),
		"score", survey.Score,
	)
	return survey.toResponse(ticketCode), nil
}

func (s *service) GetForTicket(ctx context.Context, userID, ticketCode uuid.UUID) (*SurveyResponse, error) {
	ticket, err := s.ownedTicket(ctx, userID, ticketCode)
	if err != nil {
		return nil, err
	}

	survey, err := s.repo.GetByTicket(ctx, ticket.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("failed to get survey: %w", err)
	}
	return survey.toResponse(ticketCode), nil
}

func (s *service) ownedTicket(ctx context.Context, userID, ticketCode uuid.UUID) (*tickets.Ticket, error) {
	ticket, err := s.tickets.FindActive(ctx, ticketCode)
	if err != nil {
		if errors.Is(err, tickets.ErrTicketNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if ticket.UserID != userID {
		return nil, ErrNotTicketOwner
	}
	return ticket, nil
}
