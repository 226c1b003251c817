package database

import (
	"fmt"

	"gorm.io/gorm"
)

// constraintStatements back the transactional checks with indexes the
// database enforces even under concurrent writers.
var constraintStatements = []struct {
	name string
	sql  string
}{
	{
		name: "one current rating per user and event",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS uniq_ratings_current_user_event
			ON ratings (user_id, event_id) WHERE state = 'CURRENT'`,
	},
	{
		name: "one pending refund per requester",
		sql: `CREATE UNIQUE INDEX IF NOT EXISTS uniq_refund_requests_pending_requester
			ON refund_requests (requester_id) WHERE status = 'PENDING'`,
	},
	{
		name: "active tickets by event",
		sql: `CREATE INDEX IF NOT EXISTS idx_tickets_event_active
			ON tickets (event_id) WHERE state = 'ACTIVE'`,
	},
	{
		name: "active tickets by user and event",
		sql: `CREATE INDEX IF NOT EXISTS idx_tickets_user_event_active
			ON tickets (user_id, event_id) WHERE state = 'ACTIVE'`,
	},
}

// MigrateConstraints adds the partial indexes AutoMigrate cannot express.
func MigrateConstraints(db *gorm.DB) error {
	for _, stmt := range constraintStatements {
		if err := db.Exec(stmt.sql).Error; err != nil {
			return fmt.Errorf("failed to apply %s: %w", stmt.name, err)
		}
	}
	return nil
}
