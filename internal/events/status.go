package events

import "errors"

type Status string

const (
	StatusActive      Status = "ACTIVE"
	StatusCancelled   Status = "CANCELLED"
	StatusRescheduled Status = "RESCHEDULED"
	StatusSoldOut     Status = "SOLD_OUT"
	StatusFinished    Status = "FINISHED"
)

var ErrEventFinished = errors.New("event is finished and its status can no longer change")

// IsValid checks if the event status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCancelled, StatusRescheduled, StatusSoldOut, StatusFinished:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsOnSale reports whether tickets may be bought or edited.
func (s Status) IsOnSale() bool {
	return s == StatusActive || s == StatusRescheduled
}

// CanTransitionTo rejects any change away from FINISHED. Keeping the same
// status is not a transition.
func (s Status) CanTransitionTo(next Status) error {
	if s == StatusFinished && next != s {
		return ErrEventFinished
	}
	return nil
}
