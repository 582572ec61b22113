package main

import (
	"github.com/spf13/cobra"
)

func newConfigCommand(flags *flagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration a run would use: the config file over the
defaults, with --config, --log-level, --log-format and --color applied.
The configuration is not validated, so it can be printed before a root is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWithOverrides(cmd, flags, nil)
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
