package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cdma/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Path   string         `json:"path"`
	Config *config.Config `json:"config,omitempty"`
	Error  *ConfigProblem `json:"error,omitempty"`
}

// ConfigProblem locates a config error.
type ConfigProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (r ValidationResult) String() string {
	var b strings.Builder
	if r.Valid {
		fmt.Fprintf(&b, "✓ %s valid\n", r.Path)
		c := r.Config
		fmt.Fprintf(&b, "  width: %d\n  fill: %q\n  overlength: %s\n  symbols: %s\n  sentinel: %q\n",
			c.Width, c.Fill, c.Overlength, c.Symbols, c.Sentinel)
		return b.String()
	}

	fmt.Fprintf(&b, "✗ %s invalid\n", r.Path)
	if r.Error.Line > 0 {
		fmt.Fprintf(&b, "line %d, column %d\n", r.Error.Line, r.Error.Column)
	}
	fmt.Fprintf(&b, "  %s: %s\n", r.Error.Field, r.Error.Message)
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config.cue>",
		Short: "Validate a channel config file",
		Long: `Check a CUE channel config against the schema and print the resolved
values, defaults included.

Example:
  cdma validate ./channel.cue
  cdma validate ./channel.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("config file not found: %s", path), nil)
	}

	formatter.VerboseLog("validating %s", path)

	cfg, err := config.Load(path)
	if err == nil {
		return formatter.Success(ValidationResult{Valid: true, Path: path, Config: &cfg})
	}

	problem := &ConfigProblem{Field: "config", Message: err.Error()}
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		problem.Field = cfgErr.Field
		problem.Message = cfgErr.Message
		if cfgErr.Pos.IsValid() {
			problem.Line = cfgErr.Pos.Line()
			problem.Column = cfgErr.Pos.Column()
		}
	}

	result := ValidationResult{Valid: false, Path: path, Error: problem}
	if opts.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: ErrCodeConfig, Message: problem.Message},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprint(formatter.Writer, result.String())
	}

	// Validation failures = exit code 1 (validation failure)
	return WrapExitError(ExitFailure, "config validation failed", err)
}
