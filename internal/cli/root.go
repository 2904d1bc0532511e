package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cdma/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // CUE channel config; empty uses the schema defaults
	Width      int    // overrides the config width when non-zero
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cdma CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cdma",
		Short: "CDMA channel simulator",
		Long: `Simulates Code Division Multiple Access: N users share one channel by
spreading their bits with orthogonal Walsh-Hadamard codes, the spread
signals are summed, and each user's bit is recovered by correlation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "channel config file (CUE)")
	cmd.PersistentFlags().IntVarP(&opts.Width, "width", "w", 0, "number of users, a power of two (overrides config)")

	cmd.AddCommand(NewCodesCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// LoadConfig resolves the channel config: the --config file (or schema
// defaults) with --width applied on top.
func (o *RootOptions) LoadConfig() (config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(o.ConfigPath); err != nil {
			return config.Config{}, err
		}
	}
	if o.Width != 0 {
		cfg.Width = o.Width
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
