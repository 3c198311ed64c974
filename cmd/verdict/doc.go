package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezachrisen/verdict"
)

func newDocCmd(o *options) *cobra.Command {
	var tree bool
	cmd := &cobra.Command{
		Use:   "doc",
		Short: "Print the rules as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.loadVault()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, id := range v.IDs() {
				e, _ := v.Rule(id)
				if v.Len() > 1 {
					fmt.Fprintf(out, "%s:\n", id)
				}
				if tree {
					fmt.Fprint(out, verdict.Tree(e))
					continue
				}
				fmt.Fprintln(out, verdict.Document(e))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "Print an outline with one node per line")
	return cmd
}
