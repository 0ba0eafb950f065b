package cli

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errSyntax     = errors.New("syntax error")
	errNegativeID = errors.New("id must not be negative")
)

// parseID parses a row id. Negative values are rejected separately from
// plain syntax errors so the user gets told what was wrong.
func parseID(s string) (uint32, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", errSyntax, s)
	}
	if id < 0 {
		return 0, errNegativeID
	}
	if id > math.MaxUint32 {
		return 0, fmt.Errorf("%w: id %d too large", errSyntax, id)
	}
	return uint32(id), nil
}

// parseWhereID parses the trailing "where id=<n>" clause of update and
// delete statements.
func parseWhereID(args []string) (uint32, error) {
	if len(args) != 2 || args[0] != "where" {
		return 0, fmt.Errorf("%w: expected 'where id=<n>'", errSyntax)
	}

	key, value, ok := strings.Cut(args[1], "=")
	if !ok || key != "id" {
		return 0, fmt.Errorf("%w: expected 'where id=<n>'", errSyntax)
	}
	return parseID(value)
}

// requireOpen guards statement commands against running outside a
// session.
func requireOpen() error {
	if db == nil {
		return errors.New("no database open")
	}
	return nil
}
