package database

import (
	"fmt"

	"eventhub/internal/categories"
	"eventhub/internal/comments"
	"eventhub/internal/events"
	"eventhub/internal/ratings"
	"eventhub/internal/refunds"
	"eventhub/internal/surveys"
	"eventhub/internal/tickets"
	"eventhub/internal/users"
	"eventhub/internal/venues"

	"gorm.io/gorm"
)

// Migrate creates or updates every table. Order follows foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	return db.AutoMigrate(
		&users.User{},
		&venues.Venue{},
		&categories.Category{},
		&events.Event{},
		&tickets.Ticket{},
		&ratings.Rating{},
		&comments.Comment{},
		&refunds.RefundRequest{},
		&surveys.Survey{},
	)
}
