package convert

import (
	"errors"
	"fmt"
)

// MinColumns is the number of positional columns a rules CSV must have:
// Status, Rules and StartDate. A fourth column, EndDate, is optional.
const MinColumns = 3

// ErrTooFewColumns is wrapped by HeaderError.
var ErrTooFewColumns = errors.New("CSV needs at least 3 columns: Status, Rules, StartDate")

// HeaderError reports a CSV whose header cannot be interpreted.
type HeaderError struct {
	Columns int
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%s (found %d)", ErrTooFewColumns, e.Columns)
}

// Unwrap lets errors.Is match ErrTooFewColumns.
func (e *HeaderError) Unwrap() error {
	return ErrTooFewColumns
}
