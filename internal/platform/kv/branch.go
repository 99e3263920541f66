package kv

import (
	"bytes"

	crerr "github.com/cockroachdb/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	opDelete byte = 0
	opSet    byte = 1
)

type batchWriter interface {
	writeBatch(batch *leveldb.Batch) error
}

// Branch buffers writes on top of a parent store. Reads see the buffered
// writes first. Nothing reaches the parent until Write.
type Branch struct {
	parent Store
	cache  *memdb.DB
}

func NewBranch(parent Store) *Branch {
	return &Branch{
		parent: parent,
		cache:  memdb.New(comparer.DefaultComparer, 0),
	}
}

func (b *Branch) Get(key []byte) ([]byte, error) {
	entry, err := b.cache.Get(key)
	if err == nil {
		if entry[0] == opDelete {
			return nil, ErrNotFound
		}
		return clone(entry[1:]), nil
	}
	return b.parent.Get(key)
}

func (b *Branch) Has(key []byte) (bool, error) {
	entry, err := b.cache.Get(key)
	if err == nil {
		return entry[0] == opSet, nil
	}
	return b.parent.Has(key)
}

func (b *Branch) Set(key, value []byte) error {
	entry := make([]byte, 0, len(value)+1)
	entry = append(entry, opSet)
	entry = append(entry, value...)
	return b.cache.Put(key, entry)
}

func (b *Branch) Delete(key []byte) error {
	return b.cache.Put(key, []byte{opDelete})
}

func (b *Branch) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	cache := b.cache.NewIterator(&util.Range{Start: start, Limit: end})
	it := &mergeIterator{parent: parent, cache: cache}
	it.parentOK = parent.Next()
	it.cacheOK = cache.Next()
	return it, nil
}

// Write flushes the buffered writes to the parent in key order and clears the branch.
func (b *Branch) Write() error {
	batch := new(leveldb.Batch)
	it := b.cache.NewIterator(nil)
	for it.Next() {
		entry := it.Value()
		if entry[0] == opDelete {
			batch.Delete(it.Key())
			continue
		}
		batch.Put(it.Key(), entry[1:])
	}
	it.Release()
	if err := it.Error(); err != nil {
		return crerr.Wrap(err, "iterate branch")
	}

	if writer, ok := b.parent.(batchWriter); ok {
		if err := writer.writeBatch(batch); err != nil {
			return crerr.Wrap(err, "write branch batch")
		}
	} else {
		replay := &storeReplay{store: b.parent}
		if err := batch.Replay(replay); err != nil {
			return crerr.Wrap(err, "replay branch batch")
		}
		if replay.err != nil {
			return crerr.Wrap(replay.err, "apply branch batch")
		}
	}
	b.cache.Reset()
	return nil
}

// Discard drops every buffered write.
func (b *Branch) Discard() {
	b.cache.Reset()
}

func (b *Branch) Dirty() int {
	return b.cache.Len()
}

type storeReplay struct {
	store Store
	err   error
}

func (r *storeReplay) Put(key, value []byte) {
	if r.err == nil {
		r.err = r.store.Set(clone(key), clone(value))
	}
}

func (r *storeReplay) Delete(key []byte) {
	if r.err == nil {
		r.err = r.store.Delete(clone(key))
	}
}

// mergeIterator overlays the branch cache on the parent iterator. Cache entries
// win on equal keys and tombstones hide the parent's value.
type mergeIterator struct {
	parent   Iterator
	cache    iterator.Iterator
	parentOK bool
	cacheOK  bool
	key      []byte
	value    []byte
}

func (m *mergeIterator) Next() bool {
	for {
		switch {
		case !m.parentOK && !m.cacheOK:
			m.key, m.value = nil, nil
			return false
		case !m.cacheOK:
			m.takeParent()
			return true
		case !m.parentOK:
			if m.takeCache() {
				return true
			}
		default:
			cmp := bytes.Compare(m.parent.Key(), m.cache.Key())
			if cmp < 0 {
				m.takeParent()
				return true
			}
			if cmp == 0 {
				m.parentOK = m.parent.Next()
			}
			if m.takeCache() {
				return true
			}
		}
	}
}

func (m *mergeIterator) takeParent() {
	m.key = clone(m.parent.Key())
	m.value = clone(m.parent.Value())
	m.parentOK = m.parent.Next()
}

func (m *mergeIterator) takeCache() bool {
	entry := m.cache.Value()
	live := entry[0] == opSet
	if live {
		m.key = clone(m.cache.Key())
		m.value = clone(entry[1:])
	}
	m.cacheOK = m.cache.Next()
	return live
}

func (m *mergeIterator) Key() []byte   { return m.key }
func (m *mergeIterator) Value() []byte { return m.value }

func (m *mergeIterator) Error() error {
	if err := m.parent.Error(); err != nil {
		return err
	}
	return m.cache.Error()
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cache.Release()
}
