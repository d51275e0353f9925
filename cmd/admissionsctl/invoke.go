package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tcubridge/internal/admissions/dispatcher"
	"tcubridge/internal/admissions/failure"
	"tcubridge/internal/admissions/operations"
	"tcubridge/internal/admissions/payload"
)

type invokeOptions struct {
	fields   []string
	subjects []string
	dryRun   bool
}

func newInvokeCmd(root *rootOptions) *cobra.Command {
	opts := &invokeOptions{}
	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Validate and dispatch one operation",
		Long: `invoke builds a payload from --field name=value pairs, or from one --subject per
batch block, validates it locally and sends it to the authority. Inside a
--subject, pairs are separated by commas; write \, for a comma inside a value.
With --dry-run the envelope is printed with the session token masked and nothing is sent.`,
		Example: `  admissionsctl invoke applicants.checkStatus --field f4indexno=S1001/0012/2018
  admissionsctl invoke admissions.confirm --field f4indexno=S1001/0012/2018 --field ConfirmationCode=A1234B --dry-run
  admissionsctl invoke dashboard.populate --subject ProgrammeCode=UD023,Males=40,Females=38
  admissionsctl invoke staff.submitStaff --subject 'f4indexno=S1001/0012/2018,Designation=Senior Lecturer\, Law,...'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root.configPath)
			if err != nil {
				return err
			}
			defer a.close()

			desc, ok := a.catalog.Lookup(operations.Name(args[0]))
			if !ok {
				return fmt.Errorf("unknown operation %q; see 'admissionsctl operations'", args[0])
			}
			p, err := buildPayload(desc, opts)
			if err != nil {
				return err
			}

			if !opts.dryRun {
				a.connectSinks(cmd.Context())
			}
			d, err := a.dispatcher()
			if err != nil {
				return err
			}

			if opts.dryRun {
				body, err := d.Preview(p)
				if err != nil {
					printFailure(cmd.ErrOrStderr(), err)
					return err
				}
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}

			res, err := d.Invoke(cmd.Context(), p)
			if res != nil {
				printResult(cmd.OutOrStdout(), res)
			}
			if err != nil {
				printFailure(cmd.ErrOrStderr(), err)
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&opts.fields, "field", "f", nil, "field as name=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.subjects, "subject", "s", nil, "batch block as name=value[,name=value...], \\, escapes a comma (repeatable)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate and print the masked envelope without sending")
	return cmd
}

func buildPayload(desc operations.Descriptor, opts *invokeOptions) (payload.Payload, error) {
	if desc.Batch {
		if len(opts.fields) > 0 {
			return payload.Payload{}, fmt.Errorf("%s is a batch operation; pass blocks with --subject", desc.Name)
		}
		blocks := make([]payload.Fields, 0, len(opts.subjects))
		for _, s := range opts.subjects {
			pairs, err := splitSubject(s)
			if err != nil {
				return payload.Payload{}, err
			}
			f, err := parseAssignments(pairs)
			if err != nil {
				return payload.Payload{}, err
			}
			blocks = append(blocks, f)
		}
		return payload.NewBatch(desc.Name, blocks), nil
	}
	if len(opts.subjects) > 0 {
		return payload.Payload{}, fmt.Errorf("%s takes a single block; use --field", desc.Name)
	}
	f, err := parseAssignments(opts.fields)
	if err != nil {
		return payload.Payload{}, err
	}
	return payload.New(desc.Name, f), nil
}

// splitSubject splits a --subject value on unescaped commas. A backslash
// escapes the next comma or backslash.
func splitSubject(s string) ([]string, error) {
	var (
		pairs []string
		cur   strings.Builder
	)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			if i+1 == len(s) || (s[i+1] != ',' && s[i+1] != '\\') {
				return nil, fmt.Errorf("dangling escape in subject %q", s)
			}
			i++
			cur.WriteByte(s[i])
		case c == ',':
			pairs = append(pairs, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(pairs, cur.String()), nil
}

// parseAssignments turns name=value pairs into fields, keeping their order.
// Only the first '=' separates name from value.
func parseAssignments(pairs []string) (payload.Fields, error) {
	fields := make(payload.Fields, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("expected name=value, got %q", pair)
		}
		fields = append(fields, payload.Field{Name: name, Value: value})
	}
	return fields, nil
}

func printResult(w io.Writer, res *dispatcher.Result) {
	fmt.Fprintf(w, "%s: %d %s (%s, %d attempt(s))\n", res.Operation, res.StatusCode, res.StatusDescription, res.Category, res.Attempts)
	for i, rec := range res.Records {
		fmt.Fprintf(w, "  [%d]", i)
		for _, f := range rec.Fields {
			fmt.Fprintf(w, " %s=%s", f.Name, f.Value)
		}
		if rec.HasStatus {
			fmt.Fprintf(w, " (status %d: %s)", rec.StatusCode, rec.StatusDescription)
		}
		fmt.Fprintln(w)
	}
}

func printFailure(w io.Writer, err error) {
	var fe *failure.Error
	if !errors.As(err, &fe) || len(fe.Violations) == 0 {
		return
	}
	for _, v := range fe.Violations {
		fmt.Fprintf(w, "  - %s\n", v)
	}
}
