package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/rawconv/internal/config"
	"github.com/ironsheep/rawconv/internal/imaging"
	"github.com/ironsheep/rawconv/internal/logging"
	"github.com/ironsheep/rawconv/internal/pipeline"
)

// flagValues holds command-line overrides for the config file.
type flagValues struct {
	configPath string
	depth      int
	rawExt     string
	outExt     string
	quality    int
	dcraw      string
	logLevel   string
	logFormat  string
	color      string
}

func newRootCommand() *cobra.Command {
	var flags flagValues

	rootCmd := &cobra.Command{
		Use:   "rawconv [root]",
		Short: "Convert RAW photos to JPEG with exposure correction",
		Long: `rawconv finds RAW files four directory levels below root, corrects
over- and under-exposed images with a fixed brightness factor, writes a JPEG
next to each RAW file and deletes the RAW file once the JPEG exists.

Deletion cannot be undone.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, &flags, args)
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg)
		},
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("rawconv %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit))

	f := rootCmd.PersistentFlags()
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (default ./"+config.DefaultConfigName+" if present)")
	rootCmd.Flags().IntVar(&flags.depth, "depth", 0, "Directory levels below root that hold RAW files (default 4)")
	rootCmd.Flags().StringVar(&flags.rawExt, "raw-ext", "", "RAW file extension (default .dng)")
	rootCmd.Flags().StringVar(&flags.outExt, "out-ext", "", "Output file extension (default .jpg)")
	rootCmd.Flags().IntVar(&flags.quality, "quality", 0, "JPEG quality 1-100 (default 75)")
	rootCmd.Flags().StringVar(&flags.dcraw, "dcraw", "", "dcraw binary (default dcraw on PATH)")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: console, json")
	f.StringVar(&flags.color, "color", "", "Color output: auto, always, never")

	rootCmd.AddCommand(newConfigCommand(&flags))
	return rootCmd
}

// resolveConfig loads the config file, applies explicitly set flags and the
// positional root on top, and validates the result.
func resolveConfig(cmd *cobra.Command, flags *flagValues, args []string) (*config.Config, error) {
	cfg, err := loadWithOverrides(cmd, flags, args)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadWithOverrides loads the config file and applies every flag set on cmd
// plus the optional positional root. The result is normalized but not
// validated.
func loadWithOverrides(cmd *cobra.Command, flags *flagValues, args []string) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("depth") {
		cfg.Depth = flags.depth
	}
	if changed("raw-ext") {
		cfg.RawExt = flags.rawExt
	}
	if changed("out-ext") {
		cfg.OutputExt = flags.outExt
	}
	if changed("quality") {
		cfg.JPEGQuality = flags.quality
	}
	if changed("dcraw") {
		cfg.DcrawPath = flags.dcraw
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if changed("color") {
		cfg.Logging.Color = flags.color
	}
	if len(args) == 1 {
		cfg.Root = args[0]
	}

	cfg.Normalize()
	return cfg, nil
}

func runConvert(cmd *cobra.Command, cfg *config.Config) error {
	log, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Color:  cfg.Logging.Color,
		Writer: cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	dcraw, err := imaging.LookDcraw(cfg.DcrawPath)
	if err != nil {
		return err
	}
	log.Debug("using dcraw", "path", dcraw)

	runner := pipeline.NewRunner(
		imaging.NewDcrawDecoder(dcraw),
		imaging.NewFileEncoder(cfg.JPEGQuality),
		log,
	)
	_, err = runner.Run(cmd.Context(), cfg)
	return err
}
