package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventhub/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	failures int
	sent     []*Notification
}

func (s *recordingSender) Send(_ context.Context, n *Notification) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("smtp timeout")
	}
	s.sent = append(s.sent, n)
	return nil
}

type stubDirectory map[uuid.UUID][2]string

func (d stubDirectory) Lookup(_ context.Context, id uuid.UUID) (string, string, error) {
	entry, ok := d[id]
	if !ok {
		return "", "", errors.New("user not found")
	}
	return entry[0], entry[1], nil
}

func newTestHandler(sender Sender, dir Directory) *groupHandler {
	h := newGroupHandler(sender, dir, logger.Discard())
	h.backoff = time.Millisecond
	return h
}

func encode(t *testing.T, n *Notification) []byte {
	t.Helper()
	raw, err := n.ToJSON()
	require.NoError(t, err)
	return raw
}

func TestProcess_ResolvesRecipient(t *testing.T) {
	recipient := uuid.New()
	sender := &recordingSender{}
	h := newTestHandler(sender, stubDirectory{recipient: {"ana@example.com", "Ana"}})

	n := NewNotificationBuilder().WithType(NotificationTypeRefundApproved).WithRecipient(recipient).WithTicketCode("T-1").Build()
	require.NoError(t, h.process(context.Background(), encode(t, n)))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].RecipientEmail)
	assert.Equal(t, NotificationStatusSent, sender.sent[0].Status)
}

func TestProcess_RetriesThenSucceeds(t *testing.T) {
	recipient := uuid.New()
	sender := &recordingSender{failures: 2}
	h := newTestHandler(sender, stubDirectory{recipient: {"a@b.c", "A"}})

	n := NewNotificationBuilder().WithType(NotificationTypeTicketPurchased).WithRecipient(recipient).Build()
	require.NoError(t, h.process(context.Background(), encode(t, n)))
	assert.Len(t, sender.sent, 1)
}

func TestProcess_GivesUp(t *testing.T) {
	recipient := uuid.New()
	sender := &recordingSender{failures: 10}
	h := newTestHandler(sender, stubDirectory{recipient: {"a@b.c", "A"}})

	n := NewNotificationBuilder().WithType(NotificationTypeTicketPurchased).WithRecipient(recipient).Build()
	err := h.process(context.Background(), encode(t, n))
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestProcess_BadPayloadAndUnknownRecipient(t *testing.T) {
	h := newTestHandler(&recordingSender{}, stubDirectory{})

	assert.Error(t, h.process(context.Background(), []byte("{not json")))

	n := NewNotificationBuilder().WithType(NotificationTypeRefundRejected).WithRecipient(uuid.New()).Build()
	assert.Error(t, h.process(context.Background(), encode(t, n)))
}

func TestRenderContent(t *testing.T) {
	n := NewNotificationBuilder().
		WithType(NotificationTypeTicketPurchased).
		WithTicketCode("code-1").
		WithData("quantity", 2).
		WithData("ticket_type", "VIP").
		WithData("event_title", "Recital").
		Build()
	n.RecipientName = "Ana"

	html, text := renderContent(n)
	assert.Contains(t, text, "Hi Ana")
	assert.Contains(t, text, "2 VIP ticket(s) for Recital")
	assert.Contains(t, html, "code-1")
}
