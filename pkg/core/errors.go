package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownFieldType = errors.New("field type outside the known set")
	ErrNoCurrentUser    = errors.New("source did not supply a current user")
)

// ResolutionError reports an unresolvable cross-item reference: either the
// lookup catalog has no entry for the field, or a referenced item id is not
// among the list's members. It is fatal for the whole run.
type ResolutionError struct {
	Field  string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve lookup field %q: %s", e.Field, e.Reason)
}

// TimestampError reports a source timestamp that could not be parsed.
// It is fatal for the enclosing item: downstream import requires valid dates,
// so no best-effort default is substituted.
type TimestampError struct {
	Raw string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("unparseable timestamp %q", e.Raw)
}
