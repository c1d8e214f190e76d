package querystring

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQueryPair marks a pair with no usable key. Such pairs are skipped.
	ErrInvalidQueryPair = errors.New("invalid query pair")
	// ErrInvalidEscape marks a value whose percent-encoding could not be
	// decoded. The raw value is kept.
	ErrInvalidEscape = errors.New("invalid percent-encoding")
)

// PairError describes a single pair that [DecodeStrict] could not take as is.
type PairError struct {
	Pair string
	Err  error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Pair)
}

func (e *PairError) Unwrap() error {
	return e.Err
}
