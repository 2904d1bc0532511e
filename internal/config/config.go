// Package config loads the channel configuration.
//
// Configuration is written in CUE and validated against an embedded schema
// (schema.cue). Unknown fields, non-power-of-two widths and unsupported
// policies are rejected with the position of the offending value.
//
// Example:
//
//	channel: {
//		width:   8
//		symbols: "lenient"
//	}
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/cdma/internal/frame"
	"github.com/roach88/cdma/internal/walsh"
)

//go:embed schema.cue
var schemaCUE string

// Config is one channel configuration.
type Config struct {
	Width      int                    `json:"width"`
	Fill       string                 `json:"fill"`
	Overlength frame.OverlengthPolicy `json:"overlength"`
	Symbols    frame.SymbolPolicy     `json:"symbols"`
	Sentinel   string                 `json:"sentinel"`
}

// Error is a configuration error with its CUE source position, if known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var defaults = sync.OnceValues(func() (Config, error) {
	return Parse(nil, "defaults.cue")
})

// Default returns the schema defaults.
func Default() Config {
	cfg, err := defaults()
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema is invalid: %v", err))
	}
	return cfg
}

// Load reads and validates a CUE configuration file.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(src, path)
}

// Parse validates CUE source against the schema. filename is used in error
// positions only.
func Parse(src []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError("schema", err)
	}

	file := ctx.CompileBytes(src, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, formatCUEError("syntax", err)
	}

	v := schema.Unify(file)
	if err := v.Validate(); err != nil {
		return Config{}, formatCUEError("channel", err)
	}

	ch := v.LookupPath(cue.ParsePath("channel"))

	var cfg Config
	width, err := field(ch, "width").Int64()
	if err != nil {
		return Config{}, formatCUEError("width", err)
	}
	cfg.Width = int(width)

	if cfg.Fill, err = field(ch, "fill").String(); err != nil {
		return Config{}, formatCUEError("fill", err)
	}

	overlength, err := field(ch, "overlength").String()
	if err != nil {
		return Config{}, formatCUEError("overlength", err)
	}
	cfg.Overlength = frame.OverlengthPolicy(overlength)

	symbols, err := field(ch, "symbols").String()
	if err != nil {
		return Config{}, formatCUEError("symbols", err)
	}
	cfg.Symbols = frame.SymbolPolicy(symbols)

	if cfg.Sentinel, err = field(ch, "sentinel").String(); err != nil {
		return Config{}, formatCUEError("sentinel", err)
	}

	return cfg, cfg.Validate()
}

// field resolves a channel field to its default when it was left unset.
func field(v cue.Value, name string) cue.Value {
	f := v.LookupPath(cue.ParsePath(name))
	if d, ok := f.Default(); ok {
		return d
	}
	return f
}

// Validate re-checks the invariants the schema enforces, for configs that
// were modified after loading (e.g. by command-line flags).
func (c Config) Validate() error {
	if err := walsh.ValidateWidth(c.Width); err != nil {
		return &Error{Field: "width", Message: err.Error()}
	}
	if c.Sentinel == "" {
		return &Error{Field: "sentinel", Message: "must not be empty"}
	}
	if strings.ContainsFunc(c.Sentinel, unicode.IsSpace) {
		return &Error{Field: "sentinel", Message: fmt.Sprintf("%q must not contain whitespace", c.Sentinel)}
	}
	if _, err := frame.FoldSentinel(c.Sentinel); err != nil {
		return &Error{Field: "sentinel", Message: err.Error()}
	}
	if len(c.Fill) != 1 {
		return &Error{Field: "fill", Message: fmt.Sprintf("%q must be a single symbol", c.Fill)}
	}
	if err := c.Normalizer().Validate(); err != nil {
		return &Error{Field: "channel", Message: err.Error()}
	}
	return nil
}

// Normalizer builds the producer's frame normalizer.
func (c Config) Normalizer() frame.Normalizer {
	var fill rune
	if c.Fill != "" {
		fill = rune(c.Fill[0])
	}
	return frame.Normalizer{
		Width:      c.Width,
		Fill:       fill,
		Overlength: c.Overlength,
		Symbols:    c.Symbols,
	}
}

// CodeBook returns the spreading codes for the configured width.
func (c Config) CodeBook() (*walsh.CodeBook, error) {
	return walsh.NewCodeBook(c.Width)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(fieldName string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Field: fieldName, Message: err.Error()}
	}

	first := errs[0]
	cfgErr := &Error{Field: fieldName, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}
