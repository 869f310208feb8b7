package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/teranos/qmin/config"
	"github.com/teranos/qmin/errors"
	"github.com/teranos/qmin/hdl"
	"github.com/teranos/qmin/hdl/verilog"
	"github.com/teranos/qmin/logger"
	"github.com/teranos/qmin/version"
)

var (
	genMaxCombDepth int
	genMuxStyle     string
	genRegisterIn   bool
	genRegisterOut  bool
	genOutputDir    string
	genCheck        bool
)

// GenCmd represents the gen command
var GenCmd = &cobra.Command{
	Use:   "gen <suffix> <width> <prefix-width>",
	Short: "Generate one arg-min encoder",
	Long: `Generate a Verilog-2001 arg-min reduction network.

The encoder takes <width> valid/payload entry pairs and reports the
index of the smallest valid payload, that payload, and an any-valid
flag. Ties resolve to the lowest index and invalid entries never win.
<suffix> names the emitted modules (argmin_<suffix> plus one
argmin_l<k>_<suffix> per tree level); <prefix-width> is the payload
width in bits.

By default the whole tree is combinational. --cmd N inserts a register
stage after every N compare levels; --ri and --ro add register stages
at the entry inputs and the final outputs. Each register stage adds
one cycle of latency.

Examples:
  qmin gen rt 64 16                  # Combinational, to stdout
  qmin gen rt 64 16 -o rtl           # Write rtl/argmin_rt.v
  qmin gen rt 64 16 --cmd 2 --ro     # Register every 2nd level and the outputs
  qmin gen rt 64 16 --mux IFELSE     # Priority-chain winner select
  qmin gen rt 64 16 -o rtl --check   # Verify rtl/argmin_rt.v is current`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 3 {
			return errors.Wrapf(errors.ErrArgumentCount,
				"expected <suffix> <width> <prefix-width>, got %d arguments", len(args))
		}
		return nil
	},
	RunE: runGen,
}

func init() {
	GenCmd.Flags().IntVar(&genMaxCombDepth, "cmd", 0, "Max combinational depth in compare levels before a register stage (0 = unpipelined)")
	GenCmd.Flags().StringVar(&genMuxStyle, "mux", "CASE", "Winner select form: CASE, IFELSE or EXTLUT")
	GenCmd.Flags().BoolVar(&genRegisterIn, "ri", false, "Register the entry inputs")
	GenCmd.Flags().BoolVar(&genRegisterOut, "ro", false, "Register the final outputs")
	GenCmd.Flags().StringVarP(&genOutputDir, "output", "o", "", "Output directory (default: stdout)")
	GenCmd.Flags().BoolVar(&genCheck, "check", false, "Verify the on-disk artifact matches what would be generated")
}

func runGen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	spec, err := resolveSpec(cmd, cfg, args)
	if err != nil {
		return err
	}

	d, err := hdl.Build(spec)
	if err != nil {
		return err
	}

	gen := verilog.NewGenerator(logger.Logger)
	text := gen.Generate(d)

	outDir := cfg.Output.Dir
	if cmd.Flags().Changed("output") {
		outDir = genOutputDir
	}

	if genCheck {
		return checkArtifact(gen, d, text, outDir)
	}

	if outDir == "" {
		// The artifact itself goes to stdout so it can be piped
		fmt.Print(text)
		return nil
	}

	if err := os.MkdirAll(outDir, config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(outDir, gen.FileName(d))
	if err := os.WriteFile(path, []byte(text), config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Printf("✓ Generated %s (%d modules, latency %d)\n", path, len(d.Units)+1, d.Latency())
	return nil
}

// resolveSpec merges positional arguments, flags, and config defaults
// into an encoder spec. Flags the caller set explicitly win over config.
func resolveSpec(cmd *cobra.Command, cfg *config.Config, args []string) (hdl.EncoderSpec, error) {
	width, err := strconv.Atoi(args[1])
	if err != nil {
		return hdl.EncoderSpec{}, errors.Wrapf(errors.ErrInvalidWidth, "width %q is not an integer", args[1])
	}

	prefix, err := strconv.Atoi(args[2])
	if err != nil {
		return hdl.EncoderSpec{}, errors.Wrapf(errors.ErrInvalidPrefixWidth, "prefix width %q is not an integer", args[2])
	}

	muxToken := cfg.Gen.MuxStyle
	if cmd.Flags().Changed("mux") {
		muxToken = genMuxStyle
	}
	style, err := hdl.ParseMuxStyle(muxToken)
	if err != nil {
		return hdl.EncoderSpec{}, err
	}

	spec := hdl.EncoderSpec{
		ModuleSuffix:    args[0],
		Width:           width,
		PrefixWidth:     prefix,
		MaxCombDepth:    cfg.Gen.MaxCombDepth,
		MuxStyle:        style,
		RegisterInputs:  cfg.Gen.RegisterInputs,
		RegisterOutputs: cfg.Gen.RegisterOutputs,
	}
	if cmd.Flags().Changed("cmd") {
		spec.MaxCombDepth = genMaxCombDepth
	}
	if cmd.Flags().Changed("ri") {
		spec.RegisterInputs = genRegisterIn
	}
	if cmd.Flags().Changed("ro") {
		spec.RegisterOutputs = genRegisterOut
	}

	return spec, nil
}

// checkArtifact compares the rendered encoder against the file on disk
// without writing anything. A missing or differing file is reported as
// stale; a file from a newer qmin additionally logs a warning.
func checkArtifact(gen *verilog.Generator, d *hdl.Design, rendered, outDir string) error {
	path := gen.FileName(d)
	if outDir != "" {
		path = filepath.Join(outDir, path)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrStale, "%s has not been generated yet", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if theirs := verilog.GeneratedVersion(string(onDisk)); theirs != "" && version.NewerThan(theirs) {
		logger.Warnf("%s was generated by qmin %s, newer than this binary (%s)", path, theirs, version.Version)
	}

	if string(onDisk) != rendered {
		return errors.Wrapf(errors.ErrStale,
			"%s differs from what qmin %s generates (rerun without --check to refresh)", path, version.Version)
	}

	fmt.Printf("✓ %s is up to date\n", path)
	return nil
}
