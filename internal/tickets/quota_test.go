package tickets

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func held(quantities ...int) []Ticket {
	out := make([]Ticket, 0, len(quantities))
	for _, q := range quantities {
		out = append(out, Ticket{ID: uuid.New(), Quantity: q, State: TicketStateActive})
	}
	return out
}

func TestWouldExceedUserQuota_AddPath(t *testing.T) {
	tests := []struct {
		name     string
		held     []Ticket
		proposed int
		want     bool
	}{
		{"empty, four", nil, 4, false},
		{"empty, five", nil, 5, true},
		{"held 3, plus 1", held(3), 1, false},
		{"held 3, plus 2", held(3), 2, true},
		{"held 2+2, plus 1", held(2, 2), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WouldExceedUserQuota(tt.held, tt.proposed, nil))
		})
	}
}

func TestWouldExceedUserQuota_IgnoresDeleted(t *testing.T) {
	h := held(3)
	h = append(h, Ticket{ID: uuid.New(), Quantity: 4, State: TicketStateDeleted})
	assert.False(t, WouldExceedUserQuota(h, 1, nil))
}

func TestWouldExceedUserQuota_EditSubstitutes(t *testing.T) {
	h := held(3, 1)
	edited := h[0].ID

	assert.False(t, WouldExceedUserQuota(h, 3, &edited))
	assert.True(t, WouldExceedUserQuota(h, 4, &edited))

	// an id not among held falls back to adding
	stranger := uuid.New()
	assert.True(t, WouldExceedUserQuota(h, 1, &stranger))
}

func TestWouldExceedVenueCapacity(t *testing.T) {
	assert.True(t, WouldExceedVenueCapacity(1, 1, 1))
	assert.False(t, WouldExceedVenueCapacity(100, 3, 1))
	assert.False(t, WouldExceedVenueCapacity(10, 8, 2))
	assert.True(t, WouldExceedVenueCapacity(10, 8, 3))
}
