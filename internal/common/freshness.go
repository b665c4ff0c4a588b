// Package common provides shared utilities for Ollie
package common

import "time"

// Freshness TTLs for cached market-data components
const (
	FreshnessEOD          = 1 * time.Hour
	FreshnessFundamentals = 7 * 24 * time.Hour // slow-moving, weekly is enough
	FreshnessNews         = 6 * time.Hour
	FreshnessInsider      = 24 * time.Hour
	FreshnessEarnings     = 24 * time.Hour
	FreshnessMacro        = 1 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
