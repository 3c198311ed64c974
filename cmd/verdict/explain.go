package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezachrisen/verdict"
)

func newExplainCmd(o *options) *cobra.Command {
	var (
		dataPath string
		report   bool
	)
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain why each record matches the rules or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := o.loadVault()
			if err != nil {
				return err
			}
			records, err := loadRecords(dataPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, r := range records {
				results := v.Explain(r)
				for _, id := range v.IDs() {
					if report {
						e, _ := v.Rule(id)
						fmt.Fprintln(out, verdict.Report(e, r))
						continue
					}
					res := results[id]
					fmt.Fprintf(out, "#%d %s: %s\n", i+1, id, outcome(res.Matched))
					fmt.Fprintf(out, "  expected: %s\n", res.Expected)
					fmt.Fprintf(out, "  found:    %s\n", res.Found)
					fmt.Fprintln(out, res.String())
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (.json, .yaml or .yml) with one record or a list of records")
	cmd.Flags().BoolVar(&report, "report", false, "Print a boxed diagnostic report per record and rule")
	return cmd
}
