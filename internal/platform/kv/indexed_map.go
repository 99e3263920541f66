package kv

import (
	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// codec sorts map keys so encoded state is deterministic.
var codec = sonic.ConfigStd

func encode(v any) ([]byte, error) {
	return codec.Marshal(v)
}

func decode(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}

type Record[V any] struct {
	Key   []byte
	Value V
}

// Item stores a single value under a fixed key.
type Item[V any] struct {
	key []byte
}

func NewItem[V any](key string) Item[V] {
	return Item[V]{key: []byte(key)}
}

func (i Item[V]) Load(s Reader) (V, error) {
	var out V
	raw, err := s.Get(i.key)
	if err != nil {
		return out, err
	}
	if err := decode(raw, &out); err != nil {
		return out, crerr.Wrapf(err, "decode item %s", i.key)
	}
	return out, nil
}

// May returns false instead of ErrNotFound when the item was never saved.
func (i Item[V]) May(s Reader) (V, bool, error) {
	out, err := i.Load(s)
	if crerr.Is(err, ErrNotFound) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	return out, true, nil
}

func (i Item[V]) Save(s Store, v V) error {
	raw, err := encode(v)
	if err != nil {
		return crerr.Wrapf(err, "encode item %s", i.key)
	}
	return s.Set(i.key, raw)
}

func (i Item[V]) Remove(s Store) error {
	return s.Delete(i.key)
}

// Counter is a monotonically increasing sequence stored as an Item.
type Counter struct {
	item Item[uint64]
}

func NewCounter(key string) Counter {
	return Counter{item: NewItem[uint64](key)}
}

// Next increments the counter and returns the new value. The first value is 1.
func (c Counter) Next(s Store) (uint64, error) {
	current, _, err := c.item.May(s)
	if err != nil {
		return 0, err
	}
	current++
	if err := c.item.Save(s, current); err != nil {
		return 0, err
	}
	return current, nil
}

func (c Counter) Current(s Reader) (uint64, error) {
	current, _, err := c.item.May(s)
	return current, err
}

// IndexFunc derives the secondary index tuple for a value.
type IndexFunc[V any] func(pk []byte, v V) []byte

// MultiIndex is a non-unique secondary index. Entries are stored as
// index-tuple || primary-key with the primary key as the value.
type MultiIndex[V any] struct {
	owner  *IndexedMap[V]
	prefix []byte
	keyFn  IndexFunc[V]
}

// IndexedMap stores values by primary key and keeps its secondary indexes in
// step on every Save and Remove.
type IndexedMap[V any] struct {
	rows    []byte
	indexes map[string]*MultiIndex[V]
	order   []string
}

func NewIndexedMap[V any](namespace string) *IndexedMap[V] {
	return &IndexedMap[V]{
		rows:    []byte(namespace + "/pk/"),
		indexes: make(map[string]*MultiIndex[V]),
	}
}

// WithIndex registers a secondary index. It is meant to be called while the map
// is being declared, before any store access.
func (m *IndexedMap[V]) WithIndex(name string, fn IndexFunc[V]) *IndexedMap[V] {
	namespace := string(m.rows[:len(m.rows)-len("pk/")])
	m.indexes[name] = &MultiIndex[V]{
		owner:  m,
		prefix: []byte(namespace + "ix/" + name + "/"),
		keyFn:  fn,
	}
	m.order = append(m.order, name)
	return m
}

func (m *IndexedMap[V]) Index(name string) *MultiIndex[V] {
	idx, ok := m.indexes[name]
	if !ok {
		panic("kv: unknown index " + name)
	}
	return idx
}

func (m *IndexedMap[V]) rowKey(pk []byte) []byte {
	out := make([]byte, 0, len(m.rows)+len(pk))
	out = append(out, m.rows...)
	return append(out, pk...)
}

func (m *IndexedMap[V]) Load(s Reader, pk []byte) (V, error) {
	var out V
	raw, err := s.Get(m.rowKey(pk))
	if err != nil {
		return out, err
	}
	if err := decode(raw, &out); err != nil {
		return out, crerr.Wrap(err, "decode row")
	}
	return out, nil
}

func (m *IndexedMap[V]) May(s Reader, pk []byte) (V, bool, error) {
	out, err := m.Load(s, pk)
	if crerr.Is(err, ErrNotFound) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	return out, true, nil
}

func (m *IndexedMap[V]) Has(s Reader, pk []byte) (bool, error) {
	return s.Has(m.rowKey(pk))
}

func (m *IndexedMap[V]) Save(s Store, pk []byte, v V) error {
	old, existed, err := m.May(s, pk)
	if err != nil {
		return err
	}
	if existed {
		if err := m.dropIndexes(s, pk, old); err != nil {
			return err
		}
	}
	for _, name := range m.order {
		idx := m.indexes[name]
		if err := s.Set(idx.entryKey(pk, v), pk); err != nil {
			return crerr.Wrapf(err, "write index %s", name)
		}
	}
	raw, err := encode(v)
	if err != nil {
		return crerr.Wrap(err, "encode row")
	}
	return s.Set(m.rowKey(pk), raw)
}

func (m *IndexedMap[V]) Remove(s Store, pk []byte) error {
	old, existed, err := m.May(s, pk)
	if err != nil || !existed {
		return err
	}
	if err := m.dropIndexes(s, pk, old); err != nil {
		return err
	}
	return s.Delete(m.rowKey(pk))
}

func (m *IndexedMap[V]) dropIndexes(s Store, pk []byte, old V) error {
	for _, name := range m.order {
		if err := s.Delete(m.indexes[name].entryKey(pk, old)); err != nil {
			return crerr.Wrapf(err, "delete index %s", name)
		}
	}
	return nil
}

// Range returns rows with primary keys in [start, end). limit <= 0 means no limit.
func (m *IndexedMap[V]) Range(s Reader, start, end []byte, limit int) ([]Record[V], error) {
	lo, hi := PrefixRange(m.rows)
	if start != nil {
		lo = m.rowKey(start)
	}
	if end != nil {
		hi = m.rowKey(end)
	}
	it, err := s.Iterator(lo, hi)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var out []Record[V]
	for it.Next() {
		var v V
		if err := decode(it.Value(), &v); err != nil {
			return nil, crerr.Wrap(err, "decode row")
		}
		out = append(out, Record[V]{Key: clone(it.Key()[len(m.rows):]), Value: v})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, it.Error()
}

func (m *IndexedMap[V]) All(s Reader) ([]Record[V], error) {
	return m.Range(s, nil, nil, 0)
}

func (idx *MultiIndex[V]) entryKey(pk []byte, v V) []byte {
	tuple := idx.keyFn(pk, v)
	out := make([]byte, 0, len(idx.prefix)+len(tuple)+len(pk))
	out = append(out, idx.prefix...)
	out = append(out, tuple...)
	return append(out, pk...)
}

// Prefix loads every row whose index tuple starts with prefix. Prefix must be
// built with Tuple from a leading subset of the index parts.
func (idx *MultiIndex[V]) Prefix(s Reader, prefix []byte) ([]Record[V], error) {
	full := make([]byte, 0, len(idx.prefix)+len(prefix))
	full = append(full, idx.prefix...)
	full = append(full, prefix...)
	start, end := PrefixRange(full)
	return idx.scan(s, start, end)
}

// Range loads rows whose index tuple falls in [start, end). Nil bounds are open.
func (idx *MultiIndex[V]) Range(s Reader, start, end []byte) ([]Record[V], error) {
	lo, hi := PrefixRange(idx.prefix)
	if start != nil {
		lo = append(clone(idx.prefix), start...)
	}
	if end != nil {
		hi = append(clone(idx.prefix), end...)
	}
	return idx.scan(s, lo, hi)
}

func (idx *MultiIndex[V]) scan(s Reader, start, end []byte) ([]Record[V], error) {
	it, err := s.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	var pks [][]byte
	for it.Next() {
		pks = append(pks, clone(it.Value()))
	}
	err = it.Error()
	it.Release()
	if err != nil {
		return nil, err
	}

	out := make([]Record[V], 0, len(pks))
	for _, pk := range pks {
		v, err := idx.owner.Load(s, pk)
		if err != nil {
			return nil, crerr.Wrap(err, "load indexed row")
		}
		out = append(out, Record[V]{Key: pk, Value: v})
	}
	return out, nil
}

// Count returns the number of index entries under prefix without loading rows.
func (idx *MultiIndex[V]) Count(s Reader, prefix []byte) (int, error) {
	full := append(clone(idx.prefix), prefix...)
	start, end := PrefixRange(full)
	it, err := s.Iterator(start, end)
	if err != nil {
		return 0, err
	}
	defer it.Release()
	n := 0
	for it.Next() {
		n++
	}
	return n, it.Error()
}
