package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize storefront storage",
		Long:  "Create the configuration and data directories, write a default config.yaml, and open the configured store once.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if err := st.Close(); err != nil {
				return sysError("finalize storage: %w", err)
			}

			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"config_dir": a.cfg.ConfigDir,
					"data_dir":   a.cfg.DataDir,
					"backend":    a.cfg.Backend,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Storefront initialized (%s backend)\nconfig: %s\ndata:   %s\n",
				a.cfg.Backend, a.cfg.ConfigDir, a.cfg.DataDir)
			return nil
		},
	}
}
