package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all settings.
// Defaults register every key with viper, which also makes the
// QMIN_* environment overrides visible to Unmarshal.
func SetDefaults(v *viper.Viper) {
	// Generation defaults
	v.SetDefault("gen.mux_style", "CASE")
	v.SetDefault("gen.max_comb_depth", 0)
	v.SetDefault("gen.register_inputs", false)
	v.SetDefault("gen.register_outputs", false)

	// Output defaults
	v.SetDefault("output.dir", "")

	// Logging defaults
	v.SetDefault("logging.verbosity", 0)
	v.SetDefault("logging.json", false)
}
