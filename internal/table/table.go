package table

import (
	"fmt"
	"io"

	"go.rowdb/internal/logger"
	"go.rowdb/internal/storage"
)

// DefaultRowCacheSize bounds the read cache when the config does not say
// otherwise.
const DefaultRowCacheSize = 1024

// Table is the single-table driver: it owns the pager, the tree and the
// row cache for one database file. Exactly one Table may have a file
// open at a time.
type Table struct {
	pager *storage.Pager
	tree  *storage.BTree
	cache *rowCache
	log   *logger.Logger
}

// Open opens or creates the database file at path. A fresh file gets
// page 0 initialized as an empty leaf root.
func Open(path string, log *logger.Logger, cacheSize int64) (*Table, error) {
	pager, err := storage.OpenPager(path, log)
	if err != nil {
		return nil, err
	}

	tree, err := storage.NewBTree(pager, log)
	if err != nil {
		pager.Close()
		return nil, err
	}

	if cacheSize <= 0 {
		cacheSize = DefaultRowCacheSize
	}
	cache, err := newRowCache(cacheSize)
	if err != nil {
		pager.Close()
		return nil, fmt.Errorf("row cache: %w", err)
	}

	log.Infof("opened %s (%d pages)", path, pager.NumPages())

	return &Table{
		pager: pager,
		tree:  tree,
		cache: cache,
		log:   log,
	}, nil
}

// Insert adds a new row keyed by its id. Returns ErrDuplicateKey when
// the id exists and ErrTableFull when the tree needs a page beyond the
// table cap.
func (t *Table) Insert(row Row) error {
	if err := row.Validate(); err != nil {
		return err
	}

	if err := t.tree.Insert(row.ID, row.Serialize()); err != nil {
		return err
	}

	t.cache.invalidate(row.ID)
	return nil
}

// Update overwrites the username and email of the row keyed by row.ID.
// The key never changes. Returns ErrNotFound when no such row exists.
func (t *Table) Update(row Row) error {
	if err := row.Validate(); err != nil {
		return err
	}

	value, found, err := t.tree.FindRow(row.ID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("key %d: %w", row.ID, storage.ErrNotFound)
	}

	row.writeStrings(value)
	t.cache.invalidate(row.ID)
	return nil
}

// Delete removes the row keyed by id. The page is not reclaimed.
func (t *Table) Delete(id uint32) error {
	if err := t.tree.Delete(id); err != nil {
		return err
	}

	t.cache.invalidate(id)
	return nil
}

// Find returns the row keyed by id, serving repeat lookups from the row
// cache.
func (t *Table) Find(id uint32) (Row, bool, error) {
	if row, ok := t.cache.get(id); ok {
		return row, true, nil
	}

	value, found, err := t.tree.FindRow(id)
	if err != nil || !found {
		return Row{}, false, err
	}

	row := DeserializeRow(value)
	t.cache.put(row)
	return row, true, nil
}

// Scan visits every row in ascending key order by walking the leaf
// sibling chain.
func (t *Table) Scan(fn func(Row) error) error {
	cur, err := t.tree.Start()
	if err != nil {
		return err
	}

	for !cur.EndOfTable() {
		value, err := cur.Value()
		if err != nil {
			return err
		}
		if err := fn(DeserializeRow(value)); err != nil {
			return err
		}
		if err := cur.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// SelectAll materializes the full ordered table.
func (t *Table) SelectAll() ([]Row, error) {
	var rows []Row
	err := t.Scan(func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	return rows, err
}

// Dump writes the tree structure to w.
func (t *Table) Dump(w io.Writer) error {
	return t.tree.Dump(w)
}

// Close flushes every cached page and releases the file.
func (t *Table) Close() error {
	t.cache.close()
	if err := t.pager.Close(); err != nil {
		return err
	}
	t.log.Infof("closed table")
	return nil
}
