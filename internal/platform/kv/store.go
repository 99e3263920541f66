// Package kv is the ordered key-value layer contract state is kept in.
//
// Stores are byte-ordered. Branches buffer writes over a parent store and either
// commit them in one batch or drop them, which is how the host rolls back a
// failed message.
package kv

import (
	crerr "github.com/cockroachdb/errors"
)

var ErrNotFound = crerr.New("kv: key not found")

// Reader is the read half of a Store.
type Reader interface {
	// Get returns ErrNotFound when the key is absent.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// Iterator walks keys in [start, end) in ascending order. A nil bound is open.
	Iterator(start, end []byte) (Iterator, error)
}

type Store interface {
	Reader
	Set(key, value []byte) error
	Delete(key []byte) error
}

// Iterator must be released by the caller. Key and Value are only valid until
// the next call to Next.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Release()
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
