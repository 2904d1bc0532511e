package walsh

import (
	"fmt"
	"sync"
)

// cache holds one master matrix per width. Entries are never mutated after
// insertion.
var cache sync.Map // map[int]Matrix

// Cached returns the shared master matrix for width n, building it on first
// use. The returned matrix must be treated as read-only; use CodeBook when a
// mutable copy may escape.
func Cached(n int) (Matrix, error) {
	if m, ok := cache.Load(n); ok {
		return m.(Matrix), nil
	}
	m, err := Build(n)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(n, m)
	return actual.(Matrix), nil
}

// CodeBook owns the spreading codes for one channel configuration.
//
// Thread-safety: CodeBook is immutable after construction and safe for
// concurrent use.
type CodeBook struct {
	width int
	codes Matrix
}

// NewCodeBook returns the code book for width users.
func NewCodeBook(width int) (*CodeBook, error) {
	codes, err := Cached(width)
	if err != nil {
		return nil, err
	}
	return &CodeBook{width: width, codes: codes}, nil
}

// MustCodeBook is NewCodeBook for widths known to be valid at compile time.
func MustCodeBook(width int) *CodeBook {
	cb, err := NewCodeBook(width)
	if err != nil {
		panic(err)
	}
	return cb
}

// Width returns N, the number of users and the length of every code.
func (cb *CodeBook) Width() int {
	return cb.width
}

// Row returns a copy of user i's spreading code (0-based).
func (cb *CodeBook) Row(i int) ([]int, error) {
	if i < 0 || i >= cb.width {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrRowOutOfRange, i, cb.width)
	}
	return append([]int(nil), cb.codes[i]...), nil
}

// Matrix returns a deep copy of all codes.
func (cb *CodeBook) Matrix() Matrix {
	return cb.codes.Clone()
}

