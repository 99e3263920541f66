package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// PrefixStore namespaces every key under a fixed prefix. Each contract gets one
// over the shared state.
type PrefixStore struct {
	parent Store
	prefix []byte
}

func NewPrefixStore(parent Store, prefix []byte) *PrefixStore {
	return &PrefixStore{parent: parent, prefix: clone(prefix)}
}

func (p *PrefixStore) key(k []byte) []byte {
	out := make([]byte, 0, len(p.prefix)+len(k))
	out = append(out, p.prefix...)
	return append(out, k...)
}

func (p *PrefixStore) Get(key []byte) ([]byte, error) { return p.parent.Get(p.key(key)) }
func (p *PrefixStore) Has(key []byte) (bool, error)   { return p.parent.Has(p.key(key)) }
func (p *PrefixStore) Set(key, value []byte) error    { return p.parent.Set(p.key(key), value) }
func (p *PrefixStore) Delete(key []byte) error        { return p.parent.Delete(p.key(key)) }

func (p *PrefixStore) Iterator(start, end []byte) (Iterator, error) {
	bounds := util.BytesPrefix(p.prefix)
	if start != nil {
		bounds.Start = p.key(start)
	}
	if end != nil {
		bounds.Limit = p.key(end)
	}
	it, err := p.parent.Iterator(bounds.Start, bounds.Limit)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: it, trim: len(p.prefix)}, nil
}

type prefixIterator struct {
	Iterator
	trim int
}

func (p *prefixIterator) Key() []byte {
	return p.Iterator.Key()[p.trim:]
}

// PrefixRange returns the [start, end) bounds covering every key that begins with prefix.
func PrefixRange(prefix []byte) (start, end []byte) {
	r := util.BytesPrefix(prefix)
	return r.Start, r.Limit
}
