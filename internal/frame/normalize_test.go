package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdma/internal/modem"
)

func TestNormalize_ExactWidth(t *testing.T) {
	f, err := NewNormalizer(4).Normalize("0101")
	require.NoError(t, err)
	assert.Equal(t, modem.MustParseFrame("0101"), f)
}

func TestNormalize_PadsShortInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000"},
		{"11", "1100"},
		{"", "0000"},
		{"  1  ", "1000"},
	}

	n := NewNormalizer(4)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := n.Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestNormalize_PadsWithConfiguredFill(t *testing.T) {
	n := NewNormalizer(4)
	n.Fill = '1'

	f, err := n.Normalize("0")
	require.NoError(t, err)
	assert.Equal(t, "0111", f.String())
}

func TestNormalize_TruncatesByDefault(t *testing.T) {
	f, err := NewNormalizer(4).Normalize("011011")
	require.NoError(t, err)
	assert.Equal(t, "0110", f.String())
}

func TestNormalize_RejectsOverlength(t *testing.T) {
	n := NewNormalizer(4)
	n.Overlength = OverlengthReject

	_, err := n.Normalize("01101")
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestNormalize_StrictRejectsSymbols(t *testing.T) {
	_, err := NewNormalizer(4).Normalize("01a1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	var se *SymbolError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 'a', se.Symbol)
	assert.Equal(t, 2, se.Index)
}

func TestNormalize_StrictChecksTruncatedTail(t *testing.T) {
	_, err := NewNormalizer(2).Normalize("01x")
	assert.ErrorIs(t, err, ErrInvalidSymbol)
}

func TestNormalize_LenientMapsEverythingElseToOne(t *testing.T) {
	n := NewNormalizer(4)
	n.Symbols = SymbolsLenient

	f, err := n.Normalize("0a2")
	require.NoError(t, err)
	assert.Equal(t, "0110", f.String())
}

func TestNormalize_FoldsFullWidthDigits(t *testing.T) {
	f, err := NewNormalizer(4).Normalize("０１１")
	require.NoError(t, err)
	assert.Equal(t, "0110", f.String())
}

func TestNormalize_ZeroValuePoliciesUseDefaults(t *testing.T) {
	f, err := Normalizer{Width: 4}.Normalize("1")
	require.NoError(t, err)
	assert.Equal(t, "1000", f.String())
}

func TestNormalizer_Validate(t *testing.T) {
	assert.NoError(t, NewNormalizer(8).Validate())

	bad := []Normalizer{
		{Width: 0},
		{Width: 4, Fill: 'x'},
		{Width: 4, Overlength: "wrap"},
		{Width: 4, Symbols: "ignore"},
	}
	for _, n := range bad {
		assert.ErrorIs(t, n.Validate(), ErrBadNormalizer, "%+v", n)
	}

	_, err := Normalizer{Width: 4, Fill: 'x'}.Normalize("1")
	assert.ErrorIs(t, err, ErrBadNormalizer)
}

func TestPad(t *testing.T) {
	s, err := NewNormalizer(4).Pad("1")
	require.NoError(t, err)
	assert.Equal(t, "1000", s)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "exit", Fold("  ｅｘｉｔ \n"))
}

func TestFoldSentinel(t *testing.T) {
	got, err := FoldSentinel("ＱＵＩＴ")
	require.NoError(t, err)
	assert.Equal(t, "QUIT", got)
	assert.Equal(t, got, Fold("ＱＵＩＴ"))

	got, err = FoldSentinel(" stop\t")
	require.NoError(t, err)
	assert.Equal(t, "stop", got)

	for _, bad := range []string{"", "   ", "\u3000", "quit now", "quit\u3000now"} {
		_, err := FoldSentinel(bad)
		assert.ErrorIs(t, err, ErrBadSentinel, "%q", bad)
	}
}
