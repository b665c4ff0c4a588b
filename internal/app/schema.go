package app

import (
	"context"

	"github.com/bobmcallan/ollie/internal/common"
	"github.com/bobmcallan/ollie/internal/interfaces"
)

const schemaVersionKey = "ollie_schema_version"

// checkSchemaVersion compares the stored schema version against the code's
// SchemaVersion constant. On mismatch (or missing version), it purges the
// market data cache and stores the new version. The internal store (watchlist,
// prompt history) is never purged. Returns true if a purge occurred.
func checkSchemaVersion(ctx context.Context, sm interfaces.StorageManager, logger *common.Logger) bool {
	store := sm.InternalStore()

	stored, err := store.GetSystemKV(ctx, schemaVersionKey)
	if err == nil && stored == common.SchemaVersion {
		logger.Debug().
			Str("version", common.SchemaVersion).
			Msg("Schema version matches — no purge needed")
		return false
	}

	firstRun := stored == ""
	if firstRun {
		logger.Info().
			Str("current", common.SchemaVersion).
			Msg("Schema version not found — initializing")
	} else {
		logger.Warn().
			Str("stored", stored).
			Str("current", common.SchemaVersion).
			Msg("Schema version mismatch — purging market data cache")
	}

	purged := 0
	if !firstRun {
		purged, err = sm.PurgeMarketData(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to purge market data during schema migration")
			return false
		}
		logger.Info().
			Int("purged", purged).
			Str("new_version", common.SchemaVersion).
			Msg("Schema migration complete")
	}

	if err := store.SetSystemKV(ctx, schemaVersionKey, common.SchemaVersion); err != nil {
		logger.Error().Err(err).Msg("Failed to store new schema version")
	}

	return !firstRun
}
