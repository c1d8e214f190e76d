package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/adamwoolhether/fetchkit/querystring"
)

func newQSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qs",
		Short: "Encode, decode and edit query strings",
	}

	cmd.AddCommand(newQSEncodeCmd(), newQSDecodeCmd(), newQSReplaceCmd())

	return cmd
}

func newQSEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode KEY=VALUE...",
		Short: "Encode key/value pairs, in the given order, as a query string",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parsePairs(args)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), querystring.Encode(m))
			return nil
		},
	}
}

func newQSDecodeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "decode QUERY",
		Short: "Decode a query string into a key/value table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := querystring.DecodeStrict(args[0])
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}

			if asJSON {
				b, err := m.MarshalJSON()
				if err != nil {
					return fmt.Errorf("encoding json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header([]string{"Key", "Value"})
			for k, v := range m.All() {
				if err := table.Append([]string{k, v}); err != nil {
					return fmt.Errorf("rendering row %q: %w", k, err)
				}
			}

			return table.Render()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON object instead of a table")

	return cmd
}

func newQSReplaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replace QUERY KEY VALUE",
		Short: "Set KEY to VALUE in QUERY, keeping its position",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), querystring.ReplaceKeyValue(args[0], args[1], args[2]))
			return nil
		},
	}
}

// parsePairs reads KEY=VALUE arguments into an ordered map.
func parsePairs(args []string) (*querystring.Map, error) {
	m := querystring.New()
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", querystring.ErrInvalidQueryPair, arg)
		}
		m.Set(k, v)
	}

	return m, nil
}
