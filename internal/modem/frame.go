package modem

import (
	"fmt"
	"strings"
)

// Bit is one user's data for one time slot.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

// Voltages for each bit. The polarity is fixed for compatibility with
// existing traces: 0 transmits +1 and 1 transmits -1.
const (
	VoltageZero = 1
	VoltageOne  = -1
)

// Voltage maps a bit to its chip polarity.
func Voltage(b Bit) int {
	if b == One {
		return VoltageOne
	}
	return VoltageZero
}

// Char returns '0' or '1'.
func (b Bit) Char() byte {
	if b == One {
		return '1'
	}
	return '0'
}

// Frame holds one bit per user slot for a single time slot.
type Frame []Bit

// Signal is the column-wise superposition of every user's spread code.
type Signal []int

// ParseFrame reads a string of '0'/'1' characters.
func ParseFrame(s string) (Frame, error) {
	f := make(Frame, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
			f[i] = Zero
		case '1':
			f[i] = One
		default:
			return nil, &ContractError{
				Code:     ErrCodeInvalidBit,
				Message:  fmt.Sprintf("character %q is not a bit", s[i]),
				Expected: i,
				Got:      int(s[i]),
			}
		}
	}
	return f, nil
}

// MustParseFrame is ParseFrame for literals.
func MustParseFrame(s string) Frame {
	f, err := ParseFrame(s)
	if err != nil {
		panic(err)
	}
	return f
}

// String renders the frame as "0101".
func (f Frame) String() string {
	var b strings.Builder
	b.Grow(len(f))
	for _, bit := range f {
		b.WriteByte(bit.Char())
	}
	return b.String()
}

// Validate checks that every entry is 0 or 1.
func (f Frame) Validate() error {
	for i, bit := range f {
		if bit != Zero && bit != One {
			return &ContractError{
				Code:     ErrCodeInvalidBit,
				Message:  fmt.Sprintf("frame[%d] is not a bit", i),
				Expected: i,
				Got:      int(bit),
			}
		}
	}
	return nil
}

// MarshalText renders the frame as "0101" so JSON and YAML output stay
// readable.
func (f Frame) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText parses the "0101" form.
func (f *Frame) UnmarshalText(text []byte) error {
	parsed, err := ParseFrame(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
