package modem

import (
	"errors"
	"fmt"
)

// ContractErrorCode categorizes contract violations.
type ContractErrorCode string

const (
	// ErrCodeWidthMismatch indicates a frame, signal or code row whose length
	// differs from the channel width.
	ErrCodeWidthMismatch ContractErrorCode = "WIDTH_MISMATCH"

	// ErrCodeInvalidBit indicates a frame value other than 0 or 1.
	ErrCodeInvalidBit ContractErrorCode = "INVALID_BIT"

	// ErrCodeEmptyCodes indicates an empty or non-square code matrix.
	ErrCodeEmptyCodes ContractErrorCode = "EMPTY_CODES"
)

// ContractError reports inputs that break the modem's preconditions.
type ContractError struct {
	Code    ContractErrorCode
	Message string

	// Expected and Got carry the lengths (WIDTH_MISMATCH) or the offending
	// index and value (INVALID_BIT).
	Expected int
	Got      int
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s (expected=%d, got=%d)", e.Code, e.Message, e.Expected, e.Got)
}

// IsWidthMismatch returns true if err wraps a WIDTH_MISMATCH ContractError.
func IsWidthMismatch(err error) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeWidthMismatch
	}
	return false
}

// IsInvalidBit returns true if err wraps an INVALID_BIT ContractError.
func IsInvalidBit(err error) bool {
	var ce *ContractError
	if errors.As(err, &ce) {
		return ce.Code == ErrCodeInvalidBit
	}
	return false
}

func widthMismatch(what string, expected, got int) *ContractError {
	return &ContractError{
		Code:     ErrCodeWidthMismatch,
		Message:  what + " length does not match channel width",
		Expected: expected,
		Got:      got,
	}
}
