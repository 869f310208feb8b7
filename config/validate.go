package config

import (
	"github.com/teranos/qmin/errors"
	"github.com/teranos/qmin/hdl"
)

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	// Validate generation settings
	if _, err := hdl.ParseMuxStyle(c.Gen.MuxStyle); err != nil {
		return errors.Wrap(err, "gen.mux_style is invalid")
	}

	if c.Gen.MaxCombDepth < 0 {
		return errors.Newf("gen.max_comb_depth must be non-negative, got %d", c.Gen.MaxCombDepth)
	}

	// Validate logging settings
	if c.Logging.Verbosity < 0 {
		return errors.Newf("logging.verbosity must be non-negative, got %d", c.Logging.Verbosity)
	}

	return nil
}
