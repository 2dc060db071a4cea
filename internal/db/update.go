package db

import (
	"database/sql"
	"errors"
	"strings"
)

// setField pairs a column with an optional new value for a partial update.
// A nil value means "leave unchanged". This replaces the legacy portal's
// reflective patch-only-non-null-attributes trick with an explicit structure.
type setField struct {
	col string
	val *string
}

// rowErr maps sql.ErrNoRows onto the package sentinel.
func rowErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func buildSet(fields []setField) (string, []any) {
	var cols []string
	var args []any
	for _, f := range fields {
		if f.val != nil {
			cols = append(cols, f.col+" = ?")
			args = append(args, *f.val)
		}
	}
	return strings.Join(cols, ", "), args
}
