package main

import (
	"fmt"

	"github.com/spf13/cobra"

	pgstore "tcubridge/internal/observability/store/postgres"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the call-log schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.configPath)
			if err != nil {
				return err
			}
			defer a.close()

			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			if err := pgstore.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "call-log schema is up to date")
			return nil
		},
	}
}
