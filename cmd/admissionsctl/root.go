package main

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "admissionsctl",
		Short: "Operate against the admissions authority API",
		Long: `admissionsctl validates, previews and dispatches admissions operations.
Configuration comes from an optional TOML or YAML file overlaid by TCU_* environment variables.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a .toml or .yaml config file")

	root.AddCommand(
		newOperationsCmd(),
		newInvokeCmd(opts),
		newApplicantCmd(opts),
		newStatsCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}
