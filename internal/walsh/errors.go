package walsh

import (
	"errors"
	"fmt"
)

// ErrInvalidWidth is matched (via errors.Is) by every WidthError.
var ErrInvalidWidth = errors.New("invalid channel width")

// WidthError reports a channel count that can't produce a Walsh matrix.
type WidthError struct {
	Width int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("channel width %d: must be a power of two in [2, %d]", e.Width, MaxWidth)
}

// Is lets errors.Is(err, ErrInvalidWidth) match any WidthError.
func (e *WidthError) Is(target error) bool {
	return target == ErrInvalidWidth
}

// ErrRowOutOfRange is returned by CodeBook.Row for an index outside [0, N).
var ErrRowOutOfRange = errors.New("code row out of range")

// ErrLengthMismatch is returned by Dot when the operands differ in length.
var ErrLengthMismatch = errors.New("vector length mismatch")

// ErrNotRectangular is returned by Kronecker for an empty or ragged operand.
var ErrNotRectangular = errors.New("matrix is empty or not rectangular")
