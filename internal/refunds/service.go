package refunds

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/notifications"
	"eventhub/internal/shared/validation"
	"eventhub/pkg/logger"
	"eventhub/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRefundNotFound       = errors.New("refund request not found")
	ErrPendingRefundExists  = errors.New("you already have a pending refund request")
	ErrRefundAlreadyDecided = errors.New("refund request has already been decided")
	ErrNotRefundOwner       = errors.New("only the requester can perform this action")
	ErrNotEventOrganizer    = errors.New("only the organizer of the ticket's event can decide this request")
)

type Service interface {
	HasActivePendingRefund(ctx context.Context, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateRefundRequest) (*RefundRequest, error)
	Update(ctx context.Context, userID, refundID uuid.UUID, req UpdateRefundRequest) (*RefundRequest, error)
	Delete(ctx context.Context, userID, refundID uuid.UUID) error
	Approve(ctx context.Context, organizerID, refundID uuid.UUID) (*RefundRequest, error)
	Reject(ctx context.Context, organizerID, refundID uuid.UUID) (*RefundRequest, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]RefundRequest, error)
	ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]OrganizerRefund, error)
}

type service struct {
	repo      Repository
	publisher notifications.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher notifications.Publisher, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) HasActivePendingRefund(ctx context.Context, userID uuid.UUID) (bool, error) {
	pending, err := s.repo.HasPending(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check pending refunds: %w", err)
	}
	return pending, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRefundRequest) (*RefundRequest, error) {
	req.normalize()
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	refund := &RefundRequest{
		ID:          uuid.New(),
		RequesterID: userID,
		TicketCode:  req.TicketCode,
		Reason:      req.Reason,
		Details:     req.Details,
		Status:      StatusPending,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockUser(ctx, userID); err != nil {
			return fmt.Errorf("failed to lock requester: %w", err)
		}
		pending, err := tx.HasPending(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check pending refunds: %w", err)
		}
		if pending {
			return ErrPendingRefundExists
		}
		if err := tx.Create(ctx, refund); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPendingRefundExists
			}
			return fmt.Errorf("failed to create refund request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RefundDecisions.WithLabelValues(string(StatusPending)).Inc()
	s.log.LogRefundRequested(ctx, refund.ID.String(), refund.TicketCode, userID.String())

	// Unknown codes are still accepted; they just have nobody to notify.
	if ownership, err := s.repo.TicketOwnership(ctx, refund.TicketCode); err == nil {
		notifications.Notify(ctx, s.publisher, notifications.NewNotificationBuilder().
			WithType(notifications.NotificationTypeRefundRequested).
			WithRecipient(ownership.OrganizerID).
			WithEventContext(ownership.EventID).
			WithRefundContext(refund.ID).
			WithTicketCode(refund.TicketCode).
			WithData("reason", string(refund.Reason)).
			Build(), s.log)
	}

	return refund, nil
}

func (s *service) Update(ctx context.Context, userID, refundID uuid.UUID, req UpdateRefundRequest) (*RefundRequest, error) {
	req.Details = strings.TrimSpace(req.Details)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var refund *RefundRequest
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		refund, err = s.lockOwned(ctx, tx, userID, refundID)
		if err != nil {
			return err
		}
		if !refund.IsPending() {
			return ErrRefundAlreadyDecided
		}
		refund.Reason = req.Reason
		refund.Details = req.Details
		if err := tx.UpdateDetails(ctx, refund); err != nil {
			return fmt.Errorf("failed to update refund request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

func (s *service) Delete(ctx context.Context, userID, refundID uuid.UUID) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := s.lockOwned(ctx, tx, userID, refundID); err != nil {
			return err
		}
		if err := tx.Delete(ctx, refundID); err != nil {
			return fmt.Errorf("failed to delete refund request: %w", err)
		}
		return nil
	})
}

func (s *service) Approve(ctx context.Context, organizerID, refundID uuid.UUID) (*RefundRequest, error) {
	return s.decide(ctx, organizerID, refundID, StatusApproved)
}

func (s *service) Reject(ctx context.Context, organizerID, refundID uuid.UUID) (*RefundRequest, error) {
	return s.decide(ctx, organizerID, refundID, StatusRejected)
}

// decide moves a PENDING request to status. The row lock makes concurrent
// decisions on the same request serialize, so only the first one wins.
func (s *service) decide(ctx context.Context, organizerID, refundID uuid.UUID, status Status) (*RefundRequest, error) {
	var (
		refund    *RefundRequest
		ownership *TicketOwnership
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		refund, err = tx.LockRefund(ctx, refundID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefundNotFound
			}
			return fmt.Errorf("failed to lock refund request: %w", err)
		}

		ownership, err = tx.TicketOwnership(ctx, refund.TicketCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotEventOrganizer
			}
			return fmt.Errorf("failed to resolve ticket event: %w", err)
		}
		if ownership.OrganizerID != organizerID {
			return ErrNotEventOrganizer
		}

		if !refund.IsPending() {
			return ErrRefundAlreadyDecided
		}

		decidedAt := s.now().UTC()
		if err := tx.SetDecision(ctx, refund.ID, status, decidedAt); err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}
		refund.Status = status
		refund.DecidedAt = &decidedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RefundDecisions.WithLabelValues(string(status)).Inc()
	s.log.LogRefundDecided(ctx, refund.ID.String(), string(status), organizerID.String())

	notificationType := notifications.NotificationTypeRefundApproved
	if status == StatusRejected {
		notificationType = notifications.NotificationTypeRefundRejected
	}
	notifications.Notify(ctx, s.publisher, notifications.NewNotificationBuilder().
		WithType(notificationType).
		WithRecipient(refund.RequesterID).
		WithEventContext(ownership.EventID).
		WithRefundContext(refund.ID).
		WithTicketCode(refund.TicketCode).
		Build(), s.log)

	return refund, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]RefundRequest, error) {
	list, err := s.repo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refund requests: %w", err)
	}
	return list, nil
}

func (s *service) ListForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]OrganizerRefund, error) {
	list, err := s.repo.ListForOrganizer(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refund requests: %w", err)
	}
	return list, nil
}

func (s *service) lockOwned(ctx context.Context, tx Repository, userID, refundID uuid.UUID) (*RefundRequest, error) {
	refund, err := tx.LockRefund(ctx, refundID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefundNotFound
		}
		return nil, fmt.Errorf("failed to lock refund request: %w", err)
	}
	if refund.RequesterID != userID {
		return nil, ErrNotRefundOwner
	}
	return refund, nil
}
