// Package kvstore implements the domain repositories over the contract's
// key-value state. Repositories are cheap to build and are created per
// invocation from the store the host hands the contract.
package kvstore

import (
	"time"

	"github.com/riskibarqy/fantasy-league-contracts/internal/platform/kv"
)

func unixKey(t time.Time) kv.Part {
	if t.IsZero() || t.Unix() < 0 {
		return kv.Uint64(0)
	}
	return kv.Uint64(uint64(t.Unix()))
}

func values[V any](records []kv.Record[V]) []V {
	out := make([]V, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Value)
	}
	return out
}
