package table

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"go.rowdb/internal/storage"
)

var ErrStringTooLong = errors.New("string is too long")

// Row is one logical record. Username and email occupy fixed NUL-padded
// buffers on disk, so their byte length is bounded, not their rune count.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

func (r Row) Validate() error {
	if len(r.Username) > storage.UsernameMax {
		return fmt.Errorf("username (%d bytes): %w", len(r.Username), ErrStringTooLong)
	}
	if len(r.Email) > storage.EmailMax {
		return fmt.Errorf("email (%d bytes): %w", len(r.Email), ErrStringTooLong)
	}
	return nil
}

// Serialize packs the row into its fixed RowSize wire form.
func (r Row) Serialize() []byte {
	buf := make([]byte, storage.RowSize)
	binary.LittleEndian.PutUint32(buf[storage.RowIDOffset:], r.ID)
	copy(buf[storage.RowUsernameOffset:storage.RowEmailOffset], r.Username)
	copy(buf[storage.RowEmailOffset:], r.Email)
	return buf
}

// writeStrings overwrites only the username and email regions of an
// existing serialized row, leaving the id bytes untouched.
func (r Row) writeStrings(dst []byte) {
	username := dst[storage.RowUsernameOffset:storage.RowEmailOffset]
	for i := range username {
		username[i] = 0
	}
	copy(username, r.Username)

	email := dst[storage.RowEmailOffset:storage.RowSize]
	for i := range email {
		email[i] = 0
	}
	copy(email, r.Email)
}

// DeserializeRow unpacks a RowSize buffer. Strings end at the first NUL.
func DeserializeRow(buf []byte) Row {
	return Row{
		ID:       binary.LittleEndian.Uint32(buf[storage.RowIDOffset:]),
		Username: cString(buf[storage.RowUsernameOffset:storage.RowEmailOffset]),
		Email:    cString(buf[storage.RowEmailOffset:storage.RowSize]),
	}
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}
