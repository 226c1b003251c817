package tickets

import "github.com/google/uuid"

// MaxTicketsPerUser caps the active units one user may hold for one event.
const MaxTicketsPerUser = 4

// WouldExceedUserQuota sums the active quantities in held, replacing the
// quantity of the ticket identified by excluding with proposed. When
// excluding is nil or not among held, proposed is added on top.
func WouldExceedUserQuota(held []Ticket, proposed int, excluding *uuid.UUID) bool {
	total := 0
	replaced := false
	for _, t := range held {
		if !t.IsActive() {
			continue
		}
		if excluding != nil && t.ID == *excluding {
			total += proposed
			replaced = true
			continue
		}
		total += t.Quantity
	}
	if !replaced {
		total += proposed
	}
	return total > MaxTicketsPerUser
}

// WouldExceedVenueCapacity reports whether adding units to sold passes the
// venue capacity. Filling the venue exactly is allowed.
func WouldExceedVenueCapacity(capacity, sold, added int) bool {
	return sold+added > capacity
}
