package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swscroll/internal/config"
)

func newConfigCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration file commands",
	}

	cmd.AddCommand(
		newConfigInitCommand(opts),
		newConfigShowCommand(opts),
	)
	return cmd
}

func newConfigInitCommand(opts *Options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService(opts.ConfigPath)
			path := svc.Path()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}
			if err := svc.Save(config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (file and environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := config.NewConfigService(opts.ConfigPath)
			cfg, err := svc.LoadFromPath(svc.Path())
			if err != nil {
				return fmt.Errorf("%w (run 'swscroll config init' first)", err)
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", svc.Path(), data)
			return nil
		},
	}
}
