package kvstore

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

var indexCounter = kv.NewCounter("index_counter")

// Sequence is the shared id source for seasons, join requests and ledger rows.
type Sequence struct {
	store kv.Store
}

func NewSequence(store kv.Store) *Sequence {
	return &Sequence{store: store}
}

func (s *Sequence) Next(_ context.Context) (uint64, error) {
	next, err := indexCounter.Next(s.store)
	if err != nil {
		return 0, fmt.Errorf("advance index counter: %w", err)
	}
	return next, nil
}
