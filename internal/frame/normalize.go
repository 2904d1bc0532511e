// Package frame turns raw text tokens into modem frames.
//
// A token is folded to canonical form (NFKC, half-width) so that
// full-width digits typed through an IME behave like ASCII, trimmed, padded
// with the fill symbol up to the channel width, truncated or rejected when
// too long, and finally mapped to bits.
package frame

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/roach88/cdma/internal/modem"
)

// OverlengthPolicy selects what happens to tokens longer than the width.
type OverlengthPolicy string

const (
	// OverlengthTruncate keeps the first Width symbols.
	OverlengthTruncate OverlengthPolicy = "truncate"
	// OverlengthReject fails with ErrTooLong.
	OverlengthReject OverlengthPolicy = "reject"
)

// SymbolPolicy selects how characters other than '0' and '1' are handled.
type SymbolPolicy string

const (
	// SymbolsStrict rejects any symbol that is not '0' or '1'.
	SymbolsStrict SymbolPolicy = "strict"
	// SymbolsLenient maps '0' to 0 and every other symbol to 1.
	SymbolsLenient SymbolPolicy = "lenient"
)

// DefaultFill pads short tokens. '0' transmits +1 on an idle user slot.
const DefaultFill = '0'

var (
	// ErrTooLong is returned under OverlengthReject.
	ErrTooLong = errors.New("frame longer than channel width")

	// ErrInvalidSymbol is matched by every SymbolError.
	ErrInvalidSymbol = errors.New("invalid frame symbol")

	// ErrBadNormalizer reports an unusable Normalizer configuration.
	ErrBadNormalizer = errors.New("invalid normalizer configuration")

	// ErrBadSentinel reports a shutdown token that no input token can match.
	ErrBadSentinel = errors.New("invalid sentinel")
)

// SymbolError reports the first non-binary symbol under SymbolsStrict.
type SymbolError struct {
	Symbol rune
	Index  int // rune index within the folded token
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %q at position %d: only '0' and '1' are allowed", e.Symbol, e.Index)
}

// Is lets errors.Is(err, ErrInvalidSymbol) match any SymbolError.
func (e *SymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}

// Normalizer converts text tokens into frames of exactly Width bits.
// The zero values of Fill, Overlength and Symbols select the defaults.
type Normalizer struct {
	Width      int
	Fill       rune
	Overlength OverlengthPolicy
	Symbols    SymbolPolicy
}

// NewNormalizer returns a Normalizer with default policies.
func NewNormalizer(width int) Normalizer {
	return Normalizer{
		Width:      width,
		Fill:       DefaultFill,
		Overlength: OverlengthTruncate,
		Symbols:    SymbolsStrict,
	}
}

// Validate checks the configuration.
func (n Normalizer) Validate() error {
	if n.Width < 1 {
		return fmt.Errorf("%w: width %d", ErrBadNormalizer, n.Width)
	}
	switch n.fill() {
	case '0', '1':
	default:
		return fmt.Errorf("%w: fill %q must be '0' or '1'", ErrBadNormalizer, n.Fill)
	}
	switch n.overlength() {
	case OverlengthTruncate, OverlengthReject:
	default:
		return fmt.Errorf("%w: overlength policy %q", ErrBadNormalizer, n.Overlength)
	}
	switch n.symbols() {
	case SymbolsStrict, SymbolsLenient:
	default:
		return fmt.Errorf("%w: symbol policy %q", ErrBadNormalizer, n.Symbols)
	}
	return nil
}

// Fold returns the canonical, trimmed form of a raw token.
func Fold(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKC, width.Fold), text)
	if err != nil {
		// Both transformers are total over valid and invalid UTF-8; keep the
		// raw text if that ever changes.
		folded = text
	}
	return strings.TrimSpace(folded)
}

// FoldSentinel returns the folded form of a shutdown token, which is what
// Fold yields for the matching input. Sources split input on whitespace, so
// the folded token must be non-empty and contain no whitespace.
func FoldSentinel(s string) (string, error) {
	folded := Fold(s)
	if folded == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrBadSentinel, s)
	}
	if strings.ContainsFunc(folded, unicode.IsSpace) {
		return "", fmt.Errorf("%w: %q contains whitespace", ErrBadSentinel, s)
	}
	return folded, nil
}

// Pad folds text and pads or truncates it to Width symbols without mapping
// them to bits.
func (n Normalizer) Pad(text string) (string, error) {
	if err := n.Validate(); err != nil {
		return "", err
	}

	folded := Fold(text)
	count := utf8.RuneCountInString(folded)

	switch {
	case count < n.Width:
		return folded + strings.Repeat(string(n.fill()), n.Width-count), nil
	case count > n.Width:
		if n.overlength() == OverlengthReject {
			return "", fmt.Errorf("%w: %d symbols, width %d", ErrTooLong, count, n.Width)
		}
		runes := []rune(folded)
		return string(runes[:n.Width]), nil
	default:
		return folded, nil
	}
}

// Normalize converts one token into a frame of exactly Width bits.
//
// Under SymbolsStrict every symbol of the token is checked, including any
// that truncation would discard.
func (n Normalizer) Normalize(text string) (modem.Frame, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}

	if n.symbols() == SymbolsStrict {
		for i, r := range []rune(Fold(text)) {
			if r != '0' && r != '1' {
				return nil, &SymbolError{Symbol: r, Index: i}
			}
		}
	}

	padded, err := n.Pad(text)
	if err != nil {
		return nil, err
	}

	f := make(modem.Frame, 0, n.Width)
	for _, r := range padded {
		if r == '0' {
			f = append(f, modem.Zero)
		} else {
			f = append(f, modem.One)
		}
	}
	return f, nil
}

func (n Normalizer) fill() rune {
	if n.Fill == 0 {
		return DefaultFill
	}
	return n.Fill
}

func (n Normalizer) overlength() OverlengthPolicy {
	if n.Overlength == "" {
		return OverlengthTruncate
	}
	return n.Overlength
}

func (n Normalizer) symbols() SymbolPolicy {
	if n.Symbols == "" {
		return SymbolsStrict
	}
	return n.Symbols
}
