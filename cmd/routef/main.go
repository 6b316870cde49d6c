// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var table string

	root := &cobra.Command{
		Use:   "routef",
		Short: "Inspect and serve typed route tables",
		Long: `routef loads a YAML route table and builds a typed path router from it.

Patterns accept the %b %c %s %i %d %f directives, %% is a literal '%'.
Use it to dump the routing tree, resolve a path or serve the table over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&table, "table", "t", "routes.yaml", "Route table file")

	root.AddCommand(
		treeCmd(&table),
		matchCmd(&table),
		serveCmd(&table),
	)
	return root
}
