package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezachrisen/verdict"
)

func newValidateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the rules decode against the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.loadVault()
			if err != nil {
				return err
			}
			for _, id := range v.IDs() {
				e, _ := v.Rule(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d nodes, depth %d\n", id, verdict.Count(e), verdict.Depth(e))
			}
			return nil
		},
	}
}
