package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cdma/internal/walsh"
)

// CodesResult is the output of the codes command.
type CodesResult struct {
	Width      int          `json:"width"`
	Order      int          `json:"order"`
	Codes      walsh.Matrix `json:"codes"`
	Orthogonal bool         `json:"orthogonal"`
}

func (r CodesResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Spreading codes (N=%d):\n", r.Width)
	b.WriteString(r.Codes.String())
	fmt.Fprintf(&b, "Orthogonal: %t\n", r.Orthogonal)
	return b.String()
}

// NewCodesCommand creates the codes command.
func NewCodesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "codes",
		Short: "Print the Walsh-Hadamard spreading codes",
		Long: `Print the N x N Walsh-Hadamard matrix used as spreading codes, one
row per user, and check that every pair of rows is orthogonal.

Examples:
  cdma codes
  cdma codes --width 8
  cdma codes --width 16 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCodes(rootOpts, cmd)
		},
	}
}

func runCodes(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid channel config", err)
	}

	cb, err := cfg.CodeBook()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to build codes", err)
	}
	order, err := walsh.Order(cb.Width())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "failed to build codes", err)
	}

	codes := cb.Matrix()
	formatter.VerboseLog("built %dx%d matrix, recursion depth %d", cb.Width(), cb.Width(), order-1)

	return formatter.Success(CodesResult{
		Width:      cb.Width(),
		Order:      order,
		Codes:      codes,
		Orthogonal: codes.Orthogonal(),
	})
}
