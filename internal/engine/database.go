package engine

import (
	"io"
	"os"

	"go.rowdb/internal/table"
)

// Database is the embedded handle handed to callers: one open table plus
// its log sink.
type Database struct {
	table   *table.Table
	logFile *os.File
	path    string
}

// Path is the database file this handle has open.
func (db *Database) Path() string {
	return db.path
}

func (db *Database) Insert(row table.Row) error {
	return db.table.Insert(row)
}

func (db *Database) Update(row table.Row) error {
	return db.table.Update(row)
}

func (db *Database) Delete(id uint32) error {
	return db.table.Delete(id)
}

func (db *Database) Find(id uint32) (table.Row, bool, error) {
	return db.table.Find(id)
}

func (db *Database) Scan(fn func(table.Row) error) error {
	return db.table.Scan(fn)
}

func (db *Database) SelectAll() ([]table.Row, error) {
	return db.table.SelectAll()
}

func (db *Database) DumpTree(w io.Writer) error {
	return db.table.Dump(w)
}

// Close flushes all state to disk and releases the file. Mutations made
// since open are durable only after Close returns.
func (db *Database) Close() error {
	err := db.table.Close()
	if db.logFile != nil {
		db.logFile.Close()
	}
	return err
}
