package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teranos/qmin/cmd/qmin/commands"
	"github.com/teranos/qmin/config"
	"github.com/teranos/qmin/errors"
	"github.com/teranos/qmin/logger"
)

var rootCmd = &cobra.Command{
	Use:   "qmin",
	Short: "qmin - Arg-min reduction network generator",
	Long: `qmin - Generate Verilog-2001 arg-min reduction networks.

qmin emits balanced 4-ary tournament trees that pick the index and
payload of the smallest valid entry among W inputs. Invalid entries
never win, ties go to the lowest index, and deep trees can be
pipelined for timing closure.

Available commands:
  gen     - Generate one encoder
  batch   - Generate every encoder named in a manifest
  config  - Manage qmin configuration
  version - Show qmin version information

Examples:
  qmin gen rt 64 16                  # 64 entries, 16-bit payload, to stdout
  qmin gen rt 64 16 --cmd 2 --ro     # Register every 2nd level and the outputs
  qmin batch -f encoders.toml -o rtl # Generate a whole manifest
  qmin config show                   # Show current configuration`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")

		// Config supplies logging preferences for flags left unset
		if cfg, err := config.Load(); err == nil {
			if verbosity == 0 {
				verbosity = cfg.Logging.Verbosity
			}
			jsonLogs = jsonLogs || cfg.Logging.JSON
		}

		if err := logger.Initialize(verbosity, jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON instead of console output")

	// pflag reports unrecognized flags as plain strings, so match on the
	// message to attach the sentinel
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if strings.Contains(err.Error(), "unknown flag") ||
			strings.Contains(err.Error(), "unknown shorthand flag") {
			return errors.Wrap(errors.ErrUnknownFlag, err.Error())
		}
		return err
	})

	// Add commands
	rootCmd.AddCommand(commands.GenCmd)
	rootCmd.AddCommand(commands.BatchCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
