package eventlog

import "context"

// Repository is the queryable projection of committed contract events.
type Repository interface {
	// InsertBatch is idempotent on (EventID, Index).
	InsertBatch(ctx context.Context, entries []Entry) error
	ListByContract(ctx context.Context, contract string, limit int) ([]Entry, error)
}
