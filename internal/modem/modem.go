package modem

import (
	"github.com/roach88/cdma/internal/walsh"
)

// checkCodes verifies codes is a non-empty square matrix and returns N.
func checkCodes(codes walsh.Matrix) (int, error) {
	n := len(codes)
	if n == 0 {
		return 0, &ContractError{Code: ErrCodeEmptyCodes, Message: "code matrix is empty"}
	}
	for _, row := range codes {
		if len(row) != n {
			return 0, &ContractError{
				Code:     ErrCodeEmptyCodes,
				Message:  "code matrix is not square",
				Expected: n,
				Got:      len(row),
			}
		}
	}
	return n, nil
}

// Spread returns the N×N intermediate matrix codes[r][k] * voltage(frame[r]).
func Spread(codes walsh.Matrix, frame Frame) (walsh.Matrix, error) {
	n, err := checkCodes(codes)
	if err != nil {
		return nil, err
	}
	if len(frame) != n {
		return nil, widthMismatch("frame", n, len(frame))
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	spread := make(walsh.Matrix, n)
	for r := 0; r < n; r++ {
		v := Voltage(frame[r])
		spread[r] = make([]int, n)
		for k := 0; k < n; k++ {
			spread[r][k] = codes[r][k] * v
		}
	}
	return spread, nil
}

// SpreadAndCombine encodes one frame into the combined channel signal.
func SpreadAndCombine(codes walsh.Matrix, frame Frame) (Signal, error) {
	spread, err := Spread(codes, frame)
	if err != nil {
		return nil, err
	}
	return combine(spread), nil
}

// combine sums the spread matrix along the user axis.
func combine(spread walsh.Matrix) Signal {
	n := len(spread)
	signal := make(Signal, n)
	for r := 0; r < n; r++ {
		for k := 0; k < n; k++ {
			signal[k] += spread[r][k]
		}
	}
	return signal
}

// CorrelateDecode recovers one user's bit from the combined signal.
func CorrelateDecode(signal Signal, codeRow []int) (Bit, error) {
	n := len(codeRow)
	if n == 0 {
		return Zero, &ContractError{Code: ErrCodeEmptyCodes, Message: "code row is empty"}
	}
	if len(signal) != n {
		return Zero, widthMismatch("signal", n, len(signal))
	}

	ip := 0
	for k := 0; k < n; k++ {
		ip += signal[k] * codeRow[k]
	}

	if ip/n < 0 {
		return One, nil
	}
	return Zero, nil
}

// DecodeAll runs CorrelateDecode against every code row, in row order.
func DecodeAll(codes walsh.Matrix, signal Signal) (Frame, error) {
	n, err := checkCodes(codes)
	if err != nil {
		return nil, err
	}
	if len(signal) != n {
		return nil, widthMismatch("signal", n, len(signal))
	}

	decoded := make(Frame, n)
	for r, row := range codes {
		bit, err := CorrelateDecode(signal, row)
		if err != nil {
			return nil, err
		}
		decoded[r] = bit
	}
	return decoded, nil
}

// Transmission captures every intermediate of one encode/decode round.
type Transmission struct {
	Frame   Frame
	Spread  walsh.Matrix
	Signal  Signal
	Decoded Frame
}

// Modem binds the pure functions to one code book.
//
// Thread-safety: Modem holds only immutable state and is safe for concurrent
// use.
type Modem struct {
	codes walsh.Matrix
}

// New creates a modem for the code book's channel width.
func New(cb *walsh.CodeBook) *Modem {
	return &Modem{codes: cb.Matrix()}
}

// Width returns N.
func (m *Modem) Width() int {
	return len(m.codes)
}

// Codes returns a copy of the spreading codes.
func (m *Modem) Codes() walsh.Matrix {
	return m.codes.Clone()
}

// Encode spreads and combines one frame.
func (m *Modem) Encode(frame Frame) (Signal, error) {
	return SpreadAndCombine(m.codes, frame)
}

// Decode recovers every user's bit.
func (m *Modem) Decode(signal Signal) (Frame, error) {
	return DecodeAll(m.codes, signal)
}

// Transmit encodes and immediately decodes frame, keeping the intermediates.
func (m *Modem) Transmit(frame Frame) (Transmission, error) {
	spread, err := Spread(m.codes, frame)
	if err != nil {
		return Transmission{}, err
	}
	signal := combine(spread)

	decoded, err := DecodeAll(m.codes, signal)
	if err != nil {
		return Transmission{}, err
	}

	return Transmission{
		Frame:   append(Frame(nil), frame...),
		Spread:  spread,
		Signal:  signal,
		Decoded: decoded,
	}, nil
}
