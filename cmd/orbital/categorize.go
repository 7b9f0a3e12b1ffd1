package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glabrego/orbital-cli/internal/category"
	"github.com/glabrego/orbital-cli/internal/panel"
)

var listCategories bool

var categorizeCmd = &cobra.Command{
	Use:   "categorize <url>...",
	Short: "Print the category inferred for each URL or hostname",
	Args: func(cmd *cobra.Command, args []string) error {
		if listCategories {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if listCategories {
			for _, c := range category.Known() {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, raw := range args {
			host := panel.Hostname(raw)
			fmt.Fprintf(w, "%s\t%s\n", host, category.Infer(host))
		}
		return w.Flush()
	},
}

func init() {
	categorizeCmd.Flags().BoolVar(&listCategories, "list", false, "list every category label instead")
}
