package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cdma/internal/modem"
	"github.com/roach88/cdma/internal/walsh"
)

// EncodeResult is one frame sent through the channel.
type EncodeResult struct {
	Width   int          `json:"width"`
	Input   string       `json:"input"`
	Frame   modem.Frame  `json:"frame"`
	Codes   walsh.Matrix `json:"codes"`
	Spread  walsh.Matrix `json:"spread"`
	Signal  modem.Signal `json:"signal"`
	Decoded modem.Frame  `json:"decoded"`

	verbose bool
}

func (r EncodeResult) String() string {
	var b strings.Builder
	if r.verbose {
		fmt.Fprintf(&b, "Spreading codes (N=%d):\n", r.Width)
		b.WriteString(r.Codes.String())
		b.WriteString("Spread (code x voltage):\n")
		b.WriteString(r.Spread.String())
	}
	fmt.Fprintf(&b, "Frame: %s\n", r.Frame)
	fmt.Fprintf(&b, "Signal: %v\n", []int(r.Signal))
	for i, bit := range r.Decoded {
		fmt.Fprintf(&b, "Decoded User %d: %c\n", i+1, bit.Char())
	}
	return b.String()
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <bits>",
		Short: "Encode one frame and decode it back",
		Long: `Send a single frame through the channel: one bit per user, spread with
that user's code, summed into one signal and decoded by correlation.

Short input is padded with the configured fill symbol; long input is
truncated or rejected depending on the config. With --verbose the codes
and the per-user spread rows are printed too.

Examples:
  cdma encode 0101
  cdma encode 1 --width 8
  cdma encode 0110 --verbose
  cdma encode 10110001 --width 8 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(rootOpts, args[0], cmd)
		},
	}
}

func runEncode(opts *RootOptions, input string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid channel config", err)
	}

	frame, err := cfg.Normalizer().Normalize(input)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFrame, fmt.Sprintf("invalid frame %q", input), err)
	}

	cb, err := cfg.CodeBook()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to build codes", err)
	}
	m := modem.New(cb)

	tx, err := m.Transmit(frame)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "transmission failed", err)
	}

	return formatter.Success(EncodeResult{
		Width:   m.Width(),
		Input:   input,
		Frame:   tx.Frame,
		Codes:   m.Codes(),
		Spread:  tx.Spread,
		Signal:  tx.Signal,
		Decoded: tx.Decoded,
		verbose: opts.Verbose,
	})
}
