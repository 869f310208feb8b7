package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/qmin/config"
	"github.com/teranos/qmin/hdl"
	"github.com/teranos/qmin/hdl/verilog"
	"github.com/teranos/qmin/logger"
	"github.com/teranos/qmin/manifest"
)

var (
	batchFile      string
	batchOutputDir string
	batchWatch     bool
)

// BatchCmd represents the batch command
var BatchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate every encoder named in a manifest",
	Long: `Generate a set of arg-min encoders from a batch manifest.

The manifest is TOML or YAML, chosen by extension. It lists encoders
with shared defaults that individual entries may override:

  requires = ">= 0.1"        # optional qmin version pin

  [defaults]
  mux = "CASE"
  cmd = 2

  [[encoders]]
  suffix = "rt"
  width = 64
  prefix = 16

  [[encoders]]
  suffix = "deep"
  width = 256
  prefix = 12
  ro = true

With --watch, qmin keeps running and regenerates the whole set every
time the manifest changes on disk.

Examples:
  qmin batch -f encoders.toml            # Generate into the current directory
  qmin batch -f encoders.yaml -o rtl     # Generate into rtl/
  qmin batch -f encoders.toml --watch    # Regenerate on every manifest change`,
	RunE: runBatch,
}

func init() {
	BatchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Manifest file (.toml, .yaml or .yml)")
	BatchCmd.MarkFlagRequired("file")
	BatchCmd.Flags().StringVarP(&batchOutputDir, "output", "o", "", "Output directory (default: config output.dir, else current directory)")
	BatchCmd.Flags().BoolVar(&batchWatch, "watch", false, "Watch the manifest and regenerate on change")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	outDir := cfg.Output.Dir
	if cmd.Flags().Changed("output") {
		outDir = batchOutputDir
	}
	if outDir == "" {
		outDir = "."
	}

	m, err := manifest.Load(batchFile)
	if err != nil {
		return err
	}

	if err := generateBatch(m, outDir); err != nil {
		return err
	}

	if !batchWatch {
		return nil
	}

	w, err := manifest.NewWatcher(batchFile)
	if err != nil {
		return fmt.Errorf("failed to watch manifest: %w", err)
	}
	defer w.Stop()

	w.OnRun(func(m *manifest.Manifest) error {
		return generateBatch(m, outDir)
	})
	w.Start()

	pterm.Info.Printf("Watching %s, press Ctrl+C to stop\n", batchFile)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	pterm.Println()
	pterm.Info.Println("Stopping manifest watch")
	return nil
}

// generateBatch resolves every manifest entry and writes its artifact
func generateBatch(m *manifest.Manifest, outDir string) error {
	specs, err := m.Specs()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	gen := verilog.NewGenerator(logger.Logger)

	progress, _ := pterm.DefaultProgressbar.
		WithTotal(len(specs)).
		WithTitle("Generating encoders").
		Start()

	for _, spec := range specs {
		progress.UpdateTitle(fmt.Sprintf("Generating argmin_%s", spec.ModuleSuffix))

		d, err := hdl.Build(spec)
		if err != nil {
			progress.Stop()
			return err
		}

		path := filepath.Join(outDir, gen.FileName(d))
		if err := os.WriteFile(path, []byte(gen.Generate(d)), config.DefaultFilePermissions); err != nil {
			progress.Stop()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		progress.Increment()
	}

	pterm.Success.Printf("✓ Generated %d encoders in %s\n", len(specs), outDir)
	return nil
}
