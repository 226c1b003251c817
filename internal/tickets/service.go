package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/events"
	"eventhub/internal/notifications"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventNotOnSale    = errors.New("event is not on sale")
	ErrCapacityExceeded  = errors.New("venue capacity would be exceeded")
	ErrUserQuotaExceeded = errors.New("a user may hold at most 4 tickets per event")
	ErrNotTicketOwner    = errors.New("only the ticket owner can perform this action")
	ErrForbidden         = errors.New("only the ticket owner or the event organizer can perform this action")
	ErrNotEventOrganizer = errors.New("only the event organizer can list its tickets")
)

// EventFinder is the part of the events service tickets depend on
type EventFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

type Service interface {
	Purchase(ctx context.Context, userID, eventID uuid.UUID, req TicketRequest) (*TicketResponse, error)
	Edit(ctx context.Context, userID, code uuid.UUID, req TicketRequest) (*TicketResponse, error)
	Delete(ctx context.Context, actorID, code uuid.UUID) error
	ListMine(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error)
	GetByCode(ctx context.Context, actorID, code uuid.UUID) (*TicketResponse, error)
	ListByEvent(ctx context.Context, organizerID, eventID uuid.UUID) ([]TicketResponse, error)

	// FindActive returns the active ticket with the given code.
	FindActive(ctx context.Context, code uuid.UUID) (*Ticket, error)
}

type service struct {
	repo      Repository
	events    EventFinder
	publisher notifications.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, events EventFinder, publisher notifications.Publisher, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		events:    events,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func validateRequest(req TicketRequest) error {
	errs := validation.Errors{}
	if req.Quantity <= 0 {
		errs.Add("quantity", "quantity must be greater than zero")
	}
	if !req.Type.IsValid() {
		errs.Add("type", "type must be one of [GENERAL VIP]")
	}
	return errs.OrNil()
}

func (s *service) Purchase(ctx context.Context, userID, eventID uuid.UUID, req TicketRequest) (*TicketResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		ticket   *Ticket
		snapshot *EventSnapshot
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		snapshot, err = s.lockOnSaleEvent(ctx, tx, eventID)
		if err != nil {
			return err
		}

		sold, err := tx.SoldUnits(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to sum sold units: %w", err)
		}
		if WouldExceedVenueCapacity(snapshot.Capacity, sold, req.Quantity) {
			return ErrCapacityExceeded
		}

		held, err := tx.HeldByUser(ctx, userID, eventID)
		if err != nil {
			return fmt.Errorf("failed to load held tickets: %w", err)
		}
		if WouldExceedUserQuota(held, req.Quantity, nil) {
			return ErrUserQuotaExceeded
		}

		ticket = &Ticket{
			ID:       uuid.New(),
			Code:     uuid.New(),
			UserID:   userID,
			EventID:  eventID,
			Quantity: req.Quantity,
			Type:     req.Type,
			State:    TicketStateActive,
			BuyDate:  s.now().UTC(),
		}
		if err := tx.Create(ctx, ticket); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recordRejection(ctx, "purchase", eventID, userID, err)
		return nil, err
	}

	metrics.TicketOperations.WithLabelValues("purchase", metrics.OutcomeOK).Inc()
	metrics.TicketUnitsSold.Add(float64(ticket.Quantity))
	s.log.LogTicketPurchased(ctx, ticket.Code.String(), eventID.String(), userID.String(), ticket.Quantity)

	notifications.Notify(ctx, s.publisher, notifications.NewNotificationBuilder().
		WithType(notifications.NotificationTypeTicketPurchased).
		WithRecipient(userID).
		WithEventContext(eventID).
		WithTicketCode(ticket.Code.String()).
		WithData("event_title", snapshot.Title).
		WithData("quantity", ticket.Quantity).
		WithData("ticket_type", string(ticket.Type)).
		Build(), s.log)

	resp := ticket.ToResponse()
	resp.EventTitle = snapshot.Title
	return &resp, nil
}

func (s *service) Edit(ctx context.Context, userID, code uuid.UUID, req TicketRequest) (*TicketResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var ticket *Ticket
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		ticket, err = tx.GetByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return fmt.Errorf("failed to get ticket: %w", err)
		}
		if ticket.UserID != userID {
			return ErrNotTicketOwner
		}

		snapshot, err := s.lockOnSaleEvent(ctx, tx, ticket.EventID)
		if err != nil {
			return err
		}

		// the first read was unlocked; another edit or a delete may have committed since
		current, err := tx.LockTicket(ctx, ticket.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTicketNotFound
			}
			return fmt.Errorf("failed to lock ticket: %w", err)
		}

		sold, err := tx.SoldUnits(ctx, ticket.EventID)
		if err != nil {
			return fmt.Errorf("failed to sum sold units: %w", err)
		}
		if WouldExceedVenueCapacity(snapshot.Capacity, sold-current.Quantity, req.Quantity) {
			return ErrCapacityExceeded
		}

		held, err := tx.HeldByUser(ctx, userID, ticket.EventID)
		if err != nil {
			return fmt.Errorf("failed to load held tickets: %w", err)
		}
		if WouldExceedUserQuota(held, req.Quantity, &ticket.ID) {
			return ErrUserQuotaExceeded
		}

		ticket.Quantity = req.Quantity
		ticket.Type = req.Type
		if err := tx.UpdateQuantityAndType(ctx, ticket); err != nil {
			return fmt.Errorf("failed to update ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		eventID := uuid.Nil
		if ticket != nil {
			eventID = ticket.EventID
		}
		s.recordRejection(ctx, "edit", eventID, userID, err)
		return nil, err
	}

	metrics.TicketOperations.WithLabelValues("edit", metrics.OutcomeOK).Inc()
	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, actorID, code uuid.UUID) error {
	ticket, err := s.FindActive(ctx, code)
	if err != nil {
		return err
	}
	if !canAccess(ticket, actorID) {
		return ErrForbidden
	}

	if err := s.repo.MarkDeleted(ctx, ticket.ID); err != nil {
		metrics.TicketOperations.WithLabelValues("delete", metrics.OutcomeError).Inc()
		return fmt.Errorf("failed to delete ticket: %w", err)
	}
	metrics.TicketOperations.WithLabelValues("delete", metrics.OutcomeOK).Inc()
	return nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]TicketResponse, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return toResponses(list), nil
}

func (s *service) GetByCode(ctx context.Context, actorID, code uuid.UUID) (*TicketResponse, error) {
	ticket, err := s.FindActive(ctx, code)
	if err != nil {
		return nil, err
	}
	if !canAccess(ticket, actorID) {
		return nil, ErrForbidden
	}
	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) ListByEvent(ctx context.Context, organizerID, eventID uuid.UUID) ([]TicketResponse, error) {
	event, err := s.events.Find(ctx, eventID)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !event.IsOrganizedBy(organizerID) {
		return nil, ErrNotEventOrganizer
	}

	list, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event tickets: %w", err)
	}
	for i := range list {
		list[i].Event = event
	}
	return toResponses(list), nil
}

func (s *service) FindActive(ctx context.Context, code uuid.UUID) (*Ticket, error) {
	ticket, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return ticket, nil
}

func (s *service) lockOnSaleEvent(ctx context.Context, tx Repository, eventID uuid.UUID) (*EventSnapshot, error) {
	snapshot, err := tx.LockEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}
	if !events.Status(snapshot.Status).IsOnSale() {
		return nil, ErrEventNotOnSale
	}
	return snapshot, nil
}

func (s *service) recordRejection(ctx context.Context, operation string, eventID, userID uuid.UUID, err error) {
	switch {
	case errors.Is(err, ErrCapacityExceeded), errors.Is(err, ErrUserQuotaExceeded), errors.Is(err, ErrEventNotOnSale):
		metrics.TicketOperations.WithLabelValues(operation, metrics.OutcomeRejected).Inc()
		s.log.LogTicketRejected(ctx, eventID.String(), userID.String(), err.Error())
	case errors.Is(err, ErrTicketNotFound), errors.Is(err, ErrEventNotFound), errors.Is(err, ErrNotTicketOwner):
		metrics.TicketOperations.WithLabelValues(operation, metrics.OutcomeRejected).Inc()
	default:
		metrics.TicketOperations.WithLabelValues(operation, metrics.OutcomeError).Inc()
	}
}

// canAccess allows the ticket owner and the organizer of the ticket's event.
func canAccess(ticket *Ticket, actorID uuid.UUID) bool {
	if ticket.UserID == actorID {
		return true
	}
	return ticket.Event != nil && ticket.Event.IsOrganizedBy(actorID)
}
