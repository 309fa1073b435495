package ports

import (
	"context"

	"fieldready/domain/core"
	"fieldready/domain/metrics"
)

// ProfileRepository loads and stores static user profiles. Load returns
// core.ErrProfileNotFound when the user has never saved one; callers
// fall back to documented defaults rather than failing.
type ProfileRepository interface {
	Load(ctx context.Context, userID core.UserID) (metrics.UserProfile, error)
	Save(ctx context.Context, profile metrics.UserProfile) error
}
