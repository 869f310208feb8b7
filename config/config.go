package config

import "os"

// File permission constants for config and artifact files
const (
	// DefaultDirPermissions is used when creating directories (.qmin, output dirs)
	DefaultDirPermissions os.FileMode = 0755

	// DefaultFilePermissions is used when creating files (configs, generated Verilog)
	DefaultFilePermissions os.FileMode = 0644
)

// Config represents the qmin configuration
type Config struct {
	Gen     GenConfig     `mapstructure:"gen" toml:"gen" yaml:"gen" json:"gen"`
	Output  OutputConfig  `mapstructure:"output" toml:"output" yaml:"output" json:"output"`
	Logging LoggingConfig `mapstructure:"logging" toml:"logging" yaml:"logging" json:"logging"`
}

// GenConfig supplies generation defaults for flags the user leaves unset
type GenConfig struct {
	// MuxStyle selects the winner-select form: CASE, IFELSE or EXTLUT
	MuxStyle string `mapstructure:"mux_style" toml:"mux_style" yaml:"mux_style" json:"mux_style"`

	// MaxCombDepth bounds consecutive unregistered compare levels; 0 disables pipelining
	MaxCombDepth int `mapstructure:"max_comb_depth" toml:"max_comb_depth" yaml:"max_comb_depth" json:"max_comb_depth"`

	// RegisterInputs adds a register stage ahead of the reduction tree
	RegisterInputs bool `mapstructure:"register_inputs" toml:"register_inputs" yaml:"register_inputs" json:"register_inputs"`

	// RegisterOutputs adds a register stage behind the reduction tree
	RegisterOutputs bool `mapstructure:"register_outputs" toml:"register_outputs" yaml:"register_outputs" json:"register_outputs"`
}

// OutputConfig controls where generated artifacts land
type OutputConfig struct {
	// Dir is the artifact directory; empty means stdout for gen and
	// the current directory for batch
	Dir string `mapstructure:"dir" toml:"dir" yaml:"dir" json:"dir"`
}

// LoggingConfig holds logging preferences
type LoggingConfig struct {
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity" json:"verbosity"`
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
}
