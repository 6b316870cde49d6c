// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no route match")

func matchCmd(table *string) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "match <path>",
		Short: "Resolve a path against the route table",
		Long:  `Resolve an escaped request path and print the matched pattern with its decoded typed segments.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(*table)
			if err != nil {
				return err
			}

			m, ok := r.Match(strings.ToUpper(method), args[0])
			if !ok {
				return fmt.Errorf("%w: %s %s", errNoMatch, strings.ToUpper(method), args[0])
			}

			out := cmd.OutOrStdout()
			if m.Method != "" {
				fmt.Fprintf(out, "%s %s\n", m.Method, m.Pattern)
			} else {
				fmt.Fprintln(out, m.Pattern)
			}
			for i, v := range m.Args {
				fmt.Fprintf(out, "  %d %%%c = %s\n", i, v.Kind().Verb(), v.String())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "X", http.MethodGet, "Request method")

	return cmd
}
