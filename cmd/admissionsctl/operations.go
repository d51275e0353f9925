package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/rules"
)

func newOperationsCmd() *cobra.Command {
	var resource string
	cmd := &cobra.Command{
		Use:   "operations",
		Short: "List the operations the authority exposes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := operations.Default(rules.Default())
			if err != nil {
				return err
			}
			descs := cat.All()
			if resource != "" {
				descs = cat.ByResource(operations.Resource(resource))
				if len(descs) == 0 {
					return fmt.Errorf("unknown resource %q", resource)
				}
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "OPERATION\tPATH\tSHAPE\tREQUIRED\tOPTIONAL")
			for _, d := range descs {
				shape := string(d.Shape)
				if d.Batch {
					shape = fmt.Sprintf("batch(%d)", d.MaxSubjects)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Path, shape, joinOrDash(d.Required), joinOrDash(d.Optional))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&resource, "resource", "r", "", "only list operations of this resource")
	return cmd
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
