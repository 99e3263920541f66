package kv

import (
	crerr "github.com/cockroachdb/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelStore persists state in a goleveldb database on disk.
type LevelStore struct {
	db *leveldb.DB
}

func OpenLevelStore(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "open leveldb at %s", path)
	}
	return &LevelStore{db: db}, nil
}

func (s *LevelStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if crerr.Is(err, leveldb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, crerr.Wrap(err, "leveldb get")
	}
	return value, nil
}

func (s *LevelStore) Has(key []byte) (bool, error) {
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return false, crerr.Wrap(err, "leveldb has")
	}
	return ok, nil
}

func (s *LevelStore) Set(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *LevelStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

func (s *LevelStore) Iterator(start, end []byte) (Iterator, error) {
	return &levelIterator{it: s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)}, nil
}

func (s *LevelStore) writeBatch(batch *leveldb.Batch) error {
	return s.db.Write(batch, nil)
}

func (s *LevelStore) Close() error {
	return s.db.Close()
}

// MemStore keeps state in a goleveldb memdb. It backs tests and nodes started
// without a data directory.
type MemStore struct {
	db *memdb.DB
}

func NewMemStore() *MemStore {
	return &MemStore{db: memdb.New(comparer.DefaultComparer, 0)}
}

func (s *MemStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key)
	if crerr.Is(err, memdb.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return clone(value), nil
}

func (s *MemStore) Has(key []byte) (bool, error) {
	return s.db.Contains(key), nil
}

func (s *MemStore) Set(key, value []byte) error {
	return s.db.Put(key, value)
}

func (s *MemStore) Delete(key []byte) error {
	err := s.db.Delete(key)
	if crerr.Is(err, memdb.ErrNotFound) {
		return nil
	}
	return err
}

func (s *MemStore) Iterator(start, end []byte) (Iterator, error) {
	return &levelIterator{it: s.db.NewIterator(&util.Range{Start: start, Limit: end})}, nil
}

func (s *MemStore) Len() int {
	return s.db.Len()
}

type levelIterator struct {
	it iterator.Iterator
}

func (i *levelIterator) Next() bool    { return i.it.Next() }
func (i *levelIterator) Key() []byte   { return i.it.Key() }
func (i *levelIterator) Value() []byte { return i.it.Value() }
func (i *levelIterator) Error() error  { return i.it.Error() }
func (i *levelIterator) Release()      { i.it.Release() }
