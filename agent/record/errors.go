package record

import (
	"errors"
	"fmt"
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NotFound returns the not found error of the record.
func NotFound(typ, id string) error {
	return fmt.Errorf("%s %s: %w", typ, id, ErrNotFound)
}
