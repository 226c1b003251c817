package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_FinishedIsTerminal(t *testing.T) {
	for _, next := range []Status{StatusActive, StatusCancelled, StatusRescheduled, StatusSoldOut} {
		assert.ErrorIs(t, StatusFinished.CanTransitionTo(next), ErrEventFinished, next)
	}
	assert.NoError(t, StatusFinished.CanTransitionTo(StatusFinished))
	assert.NoError(t, StatusActive.CanTransitionTo(StatusFinished))
	assert.NoError(t, StatusCancelled.CanTransitionTo(StatusActive))
}

func TestStatus_IsOnSale(t *testing.T) {
	assert.True(t, StatusActive.IsOnSale())
	assert.True(t, StatusRescheduled.IsOnSale())
	assert.False(t, StatusCancelled.IsOnSale())
	assert.False(t, StatusSoldOut.IsOnSale())
	assert.False(t, StatusFinished.IsOnSale())
	assert.False(t, Status("DRAFT").IsValid())
}

func TestCountdownTo(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	got := CountdownTo(now.Add(2*24*time.Hour+3*time.Hour+15*time.Minute+40*time.Second), now)
	assert.Equal(t, Countdown{Days: 2, Hours: 3, Minutes: 15}, got)

	assert.Equal(t, Countdown{}, CountdownTo(now, now))
	assert.Equal(t, Countdown{}, CountdownTo(now.Add(-time.Hour), now))
	assert.Equal(t, Countdown{Minutes: 0}, CountdownTo(now.Add(30*time.Second), now))
}
