package ports

import (
	"context"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// ManualEntryRepository stores and reads self-reported logs
type ManualEntryRepository interface {
	// ListActivity returns the day's logged activity sessions
	ListActivity(ctx context.Context, userID core.UserID, day core.Day) ([]metrics.ManualEntry, error)

	// GetEntry returns the day's single entry of the given kind, or nil
	// when none was logged. Activity uses ListActivity instead.
	GetEntry(ctx context.Context, userID core.UserID, day core.Day, kind metrics.EntryKind) (*metrics.ManualEntry, error)

	// SaveEntry upserts an entry by (user, day, kind); activity entries
	// append instead.
	SaveEntry(ctx context.Context, entry metrics.ManualEntry) error
}
