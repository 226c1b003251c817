package constants

import (
	"time"
)

// Redis cache keys and TTLs
// Pattern: eventhub:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_STATIC_LONG        = 24 * time.Hour
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute
	TTL_DYNAMIC_MEDIUM     = 10 * time.Minute
	TTL_DYNAMIC_SHORT      = 5 * time.Minute
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "eventhub"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== RATINGS MODULE ==================

const (
	CACHE_KEY_RATING_STATS = CACHE_PREFIX + ":ratings:stats:event:" // + event-id
)

const (
	TTL_RATING_STATS = TTL_SEMI_STATIC_QUICK // 15 minutes
)

// ================== CATEGORIES MODULE ==================

const (
	CACHE_KEY_CATEGORIES_ACTIVE = CACHE_PREFIX + ":categories:active:all"
)

const (
	TTL_CATEGORIES_ACTIVE = TTL_STATIC_LONG // 24 hours
)

// ================== ANALYTICS MODULE ==================

const (
	CACHE_KEY_ANALYTICS_ORGANIZER = CACHE_PREFIX + ":analytics:organizer:uuid:" // + organizer-id
)

const (
	TTL_ANALYTICS_ORGANIZER = TTL_DYNAMIC_SHORT // 5 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_EVENT_ALL = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_ANALYTICS = CACHE_PREFIX + ":analytics:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildRatingStatsKey(eventID string) string {
	return CACHE_KEY_RATING_STATS + eventID
}

func BuildOrganizerDashboardKey(organizerID string) string {
	return CACHE_KEY_ANALYTICS_ORGANIZER + organizerID
}
