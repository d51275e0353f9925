package main

import (
	"context"

	"github.com/spf13/cobra"

	"tcubridge/internal/admissions/client"
	"tcubridge/internal/admissions/dispatcher"
)

// newApplicantCmd groups the everyday single-applicant calls, so operators do
// not have to spell out field names.
func newApplicantCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "applicant",
		Short: "Check and confirm a single applicant",
	}

	var prevIndex string
	status := &cobra.Command{
		Use:   "status <f4indexno>",
		Short: "Check whether an applicant may be admitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, root, func(ctx context.Context, c *client.Client) (*dispatcher.Result, error) {
				return c.Applicants.CheckStatus(ctx, client.StatusQuery{F4IndexNo: args[0], F6IndexNo: prevIndex})
			})
		},
	}
	status.Flags().StringVar(&prevIndex, "f6indexno", "", "form six index number")

	confirm := &cobra.Command{
		Use:   "confirm <f4indexno> <confirmation-code>",
		Short: "Confirm an admission with the code the applicant received",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, root, func(ctx context.Context, c *client.Client) (*dispatcher.Result, error) {
				return c.Admissions.Confirm(ctx, args[0], args[1])
			})
		},
	}

	unconfirm := &cobra.Command{
		Use:   "unconfirm <f4indexno> <reason>",
		Short: "Withdraw a confirmed admission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, root, func(ctx context.Context, c *client.Client) (*dispatcher.Result, error) {
				return c.Admissions.Unconfirm(ctx, args[0], args[1])
			})
		},
	}

	cmd.AddCommand(status, confirm, unconfirm)
	return cmd
}

func withClient(cmd *cobra.Command, root *rootOptions, call func(context.Context, *client.Client) (*dispatcher.Result, error)) error {
	a, err := loadApp(root.configPath)
	if err != nil {
		return err
	}
	defer a.close()

	a.connectSinks(cmd.Context())
	d, err := a.dispatcher()
	if err != nil {
		return err
	}
	res, err := call(cmd.Context(), a.client(d))
	if res != nil {
		printResult(cmd.OutOrStdout(), res)
	}
	if err != nil {
		printFailure(cmd.ErrOrStderr(), err)
	}
	return err
}
