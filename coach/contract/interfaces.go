package contract

import "context"

// SnapshotReader is the store-read surface the coaching engine consumes.
// Implementations perform reads only.
type SnapshotReader interface {
	ActorSnapshot(ctx context.Context, actorID int64) (ActorSnapshot, error)
	ViewCounts(ctx context.Context, actorID int64, w Windows) (ViewCounts, error)
	Bookings(ctx context.Context, actorID int64) ([]BookingRecord, error)
}
