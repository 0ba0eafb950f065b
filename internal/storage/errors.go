package storage

import "errors"

var (
	// btree
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrNotFound        = errors.New("row not found")
	ErrInvalidPointer  = errors.New("accessed an unwired child page")
	ErrChildOutOfRange = errors.New("child index beyond key count")
	// pager
	ErrCorruptFile = errors.New("file size is not a whole number of pages")
	ErrTableFull   = errors.New("table full")
	ErrNilPage     = errors.New("tried to flush a page that was never loaded")
)
