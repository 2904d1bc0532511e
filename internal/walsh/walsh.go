package walsh

import (
	"fmt"
	"math/bits"
	"strings"
)

// MaxWidth caps the channel count. A 1024x1024 matrix is 1M ints; anything
// larger is far outside what the simulator is used for.
const MaxWidth = 1024

// Matrix is a dense row-major matrix of chips (+1/-1).
type Matrix [][]int

// Seed returns a fresh copy of the 2x2 Hadamard seed H2.
func Seed() Matrix {
	return Matrix{
		{1, 1},
		{1, -1},
	}
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// ValidateWidth returns a *WidthError unless n is a usable channel count.
func ValidateWidth(n int) error {
	if n < 2 || n > MaxWidth || !IsPowerOfTwo(n) {
		return &WidthError{Width: n}
	}
	return nil
}

// Order returns log2(n), the number of doublings from 1 to n.
func Order(n int) (int, error) {
	if err := ValidateWidth(n); err != nil {
		return 0, err
	}
	return bits.TrailingZeros(uint(n)), nil
}

// Kronecker returns the tensor product of a (m×n) and b (p×q):
//
//	T[i*p+ii][j*q+jj] = a[i][j] * b[ii][jj]
//
// Both operands must be rectangular and non-empty; otherwise the error
// matches ErrNotRectangular.
func Kronecker(a, b Matrix) (Matrix, error) {
	if err := checkRectangular("left", a); err != nil {
		return nil, err
	}
	if err := checkRectangular("right", b); err != nil {
		return nil, err
	}
	return kronecker(a, b), nil
}

func checkRectangular(side string, m Matrix) error {
	if len(m) == 0 || len(m[0]) == 0 {
		return fmt.Errorf("%w: %s operand is empty", ErrNotRectangular, side)
	}
	for i, row := range m {
		if len(row) != len(m[0]) {
			return fmt.Errorf("%w: %s operand row %d has %d columns, want %d",
				ErrNotRectangular, side, i, len(row), len(m[0]))
		}
	}
	return nil
}

// kronecker assumes both operands are rectangular and non-empty.
func kronecker(a, b Matrix) Matrix {
	m, n := len(a), len(a[0])
	p, q := len(b), len(b[0])

	t := make(Matrix, m*p)
	for r := range t {
		t[r] = make([]int, n*q)
	}

	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			for ii := 0; ii < p; ii++ {
				for jj := 0; jj < q; jj++ {
					t[i*p+ii][j*q+jj] = a[i][j] * b[ii][jj]
				}
			}
		}
	}

	return t
}

// Build constructs the N×N Walsh-Hadamard matrix for channelCount users.
// The recursion bottoms out at H2 and doubles once per level, so the depth is
// log2(N)-1.
func Build(channelCount int) (Matrix, error) {
	if err := ValidateWidth(channelCount); err != nil {
		return nil, err
	}
	return build(channelCount), nil
}

func build(n int) Matrix {
	if n == 2 {
		return Seed()
	}
	return kronecker(build(n/2), Seed())
}

// Dot returns the inner product of a and b.
func Dot(a, b []int) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}
	sum := 0
	for k := range a {
		sum += a[k] * b[k]
	}
	return sum, nil
}

// Width returns the number of rows.
func (m Matrix) Width() int {
	return len(m)
}

// Orthogonal reports whether m is square with pairwise orthogonal rows whose
// self inner product equals the width.
func (m Matrix) Orthogonal() bool {
	n := len(m)
	for i := 0; i < n; i++ {
		if len(m[i]) != n {
			return false
		}
		for j := i; j < n; j++ {
			ip, err := Dot(m[i], m[j])
			if err != nil {
				return false
			}
			if i == j && ip != n {
				return false
			}
			if i != j && ip != 0 {
				return false
			}
		}
	}
	return true
}

// Equal reports whether m and o have the same shape and entries.
func (m Matrix) Equal(o Matrix) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if len(m[i]) != len(o[i]) {
			return false
		}
		for j := range m[i] {
			if m[i][j] != o[i][j] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	c := make(Matrix, len(m))
	for i, row := range m {
		c[i] = append([]int(nil), row...)
	}
	return c
}

// String renders one row per line with right-aligned columns.
func (m Matrix) String() string {
	var b strings.Builder
	for _, row := range m {
		for j, v := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%2d", v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
