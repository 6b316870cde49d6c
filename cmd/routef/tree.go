// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tigerwill90/routef"
	"github.com/tigerwill90/routef/routetable"
)

func loadRouter(table string, opts ...routef.Option) (*routef.Router, error) {
	tbl, err := routetable.LoadFile(table)
	if err != nil {
		return nil, err
	}
	return tbl.Router(nil, opts...)
}

func treeCmd(table *string) *cobra.Command {
	var routesOnly bool

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the routing tree",
		Long:  `Print the compressed routing tree built from the route table, or only the registered routes.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRouter(*table)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if routesOnly {
				for method, pattern := range r.Routes() {
					if method == "" {
						method = "*"
					}
					fmt.Fprintf(out, "%-7s %s\n", method, pattern)
				}
				return nil
			}
			fmt.Fprint(out, r.String())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&routesOnly, "routes", "r", false, "Print only the registered routes")

	return cmd
}
