package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cdma/internal/config"
	"github.com/roach88/cdma/internal/frame"
	"github.com/roach88/cdma/internal/modem"
)

// Scenario is one channel conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Channel overrides. Zero values keep the schema defaults.
	Width      int    `yaml:"width,omitempty"`
	Fill       string `yaml:"fill,omitempty"`
	Overlength string `yaml:"overlength,omitempty"`
	Symbols    string `yaml:"symbols,omitempty"`
	Sentinel   string `yaml:"sentinel,omitempty"`

	// Frames are the raw tokens fed to the producer, in order.
	Frames []string `yaml:"frames"`

	// Expect is optional. Without it the scenario only has to run cleanly
	// (and match its golden trace, when one is compared).
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect lists the checks applied after the pipeline stops.
type Expect struct {
	// Decoded is the exact list of decoded frames in publish order.
	Decoded []string `yaml:"decoded,omitempty"`

	// Histories maps 1-based user index to that user's cumulative bits.
	// Users not listed are not checked.
	Histories map[int]string `yaml:"histories,omitempty"`

	// Rejected is the number of tokens the normalizer refused.
	Rejected *int `yaml:"rejected,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "frame:" vs "frames:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Config returns the channel configuration: schema defaults with the
// scenario's overrides applied.
func (s *Scenario) Config() (config.Config, error) {
	cfg := config.Default()
	if s.Width != 0 {
		cfg.Width = s.Width
	}
	if s.Fill != "" {
		cfg.Fill = s.Fill
	}
	if s.Overlength != "" {
		cfg.Overlength = frame.OverlengthPolicy(s.Overlength)
	}
	if s.Symbols != "" {
		cfg.Symbols = frame.SymbolPolicy(s.Symbols)
	}
	if s.Sentinel != "" {
		cfg.Sentinel = s.Sentinel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Frames) == 0 {
		return fmt.Errorf("frames list is required and must be non-empty")
	}

	cfg, err := s.Config()
	if err != nil {
		return err
	}

	if s.Expect == nil {
		return nil
	}

	for i, d := range s.Expect.Decoded {
		f, err := modem.ParseFrame(d)
		if err != nil {
			return fmt.Errorf("expect.decoded[%d]: %w", i, err)
		}
		if len(f) != cfg.Width {
			return fmt.Errorf("expect.decoded[%d]: %q has %d bits, channel width is %d", i, d, len(f), cfg.Width)
		}
	}

	for user, bits := range s.Expect.Histories {
		if user < 1 || user > cfg.Width {
			return fmt.Errorf("expect.histories: user %d out of range [1, %d]", user, cfg.Width)
		}
		if _, err := modem.ParseFrame(bits); err != nil {
			return fmt.Errorf("expect.histories[%d]: %w", user, err)
		}
	}

	if s.Expect.Rejected != nil && *s.Expect.Rejected < 0 {
		return fmt.Errorf("expect.rejected must be non-negative")
	}

	return nil
}
