package table

import "github.com/dgraph-io/ristretto/v2"

// rowCache is a read-through cache of deserialized rows keyed by id. It
// only ever mirrors the tree: every mutation deletes the entry, so a
// stale hit is impossible in the single-access model. The page cache is
// not ristretto because close must flush every cached page and
// ristretto's admission policy may drop entries.
type rowCache struct {
	cache *ristretto.Cache[uint32, Row]
}

func newRowCache(maxRows int64) (*rowCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint32, Row]{
		NumCounters: maxRows * 10,
		MaxCost:     maxRows,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &rowCache{cache: cache}, nil
}

func (rc *rowCache) get(id uint32) (Row, bool) {
	return rc.cache.Get(id)
}

func (rc *rowCache) put(row Row) {
	rc.cache.Set(row.ID, row, 1)
}

func (rc *rowCache) invalidate(id uint32) {
	rc.cache.Del(id)
}

func (rc *rowCache) close() {
	rc.cache.Close()
}
