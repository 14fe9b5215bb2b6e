package packfile

import (
	"github.com/goabstract/packtree/internal/cache"
	"github.com/goabstract/packtree/plumbing"
	"github.com/goabstract/packtree/plumbing/object"
)

// ObjectTable is an immutable-after-build, content-addressed map from
// an object's oid to its fully resolved (delta-free) form. It's built
// once by Decode and read many times during the history walk; nothing
// is ever evicted, matching its single-owner, build-once lifecycle.
//
// It's backed by internal/cache.LRU constructed with no entry limit
// ("the cache has no limit and it's assumed that eviction is done by
// the caller" - and here the caller never evicts), rather than a bare
// map, so the table gets the LRU package's locking for free if it's
// ever read from more than one goroutine.
type ObjectTable struct {
	cache *cache.LRU
	count int
}

// NewObjectTable creates an empty table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{
		cache: cache.NewLRU(0),
	}
}

// Insert adds o to the table, keyed by its oid. An oid already in the
// table is left as it is.
func (t *ObjectTable) Insert(o *object.Object) {
	if _, ok := t.cache.Get(o.ID()); ok {
		return
	}
	t.cache.Add(o.ID(), o)
	t.count++
}

// Get returns the object with the given oid, or ErrObjectNotFound.
func (t *ObjectTable) Get(oid plumbing.Oid) (*object.Object, error) {
	v, ok := t.cache.Get(oid)
	if !ok {
		return nil, ErrObjectNotFound
	}
	return v.(*object.Object), nil
}

// Len returns the number of objects currently in the table.
func (t *ObjectTable) Len() int {
	return t.count
}
