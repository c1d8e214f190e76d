package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adamwoolhether/fetchkit/client"
)

// newRequestCmd returns the subcommand issuing method requests.
func newRequestCmd(a *app, method string) *cobra.Command {
	var (
		query   []string
		headers []string
		data    string
		expect  []int
	)

	cmd := &cobra.Command{
		Use:   method + " URL",
		Short: fmt.Sprintf("Send a %s request and print the unwrapped JSON payload", strings.ToUpper(method)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			opts := []client.RequestOption{client.WithMethod(method)}

			if len(query) > 0 {
				m, err := parsePairs(query)
				if err != nil {
					return err
				}
				opts = append(opts, client.WithQueryMap(m))
			}

			if len(headers) > 0 {
				h, err := parseHeaders(headers)
				if err != nil {
					return err
				}
				opts = append(opts, client.WithHeaders(h))
			}

			if data != "" {
				opts = append(opts, client.WithBody(data))
			}

			if len(expect) > 0 {
				opts = append(opts, client.WithExpectedStatus(expect...))
			}

			payload, err := c.Request(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}

			return printJSON(cmd, payload)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&query, "query", "q", nil, "query parameter KEY=VALUE, repeatable")
	flags.StringArrayVarP(&headers, "header", "H", nil, "request header 'Key: Value', repeatable")
	flags.IntSliceVar(&expect, "expect", nil, "fail unless the response status is one of these")
	if method != "get" {
		flags.StringVarP(&data, "data", "d", "", "request body, sent verbatim")
	}

	return cmd
}

func parseHeaders(raw []string) (map[string]string, error) {
	h := make(map[string]string, len(raw))
	for _, line := range raw {
		k, v, ok := strings.Cut(line, ":")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid header %q, want 'Key: Value'", line)
		}
		h[k] = strings.TrimSpace(v)
	}

	return h, nil
}

func printJSON(cmd *cobra.Command, payload any) error {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
