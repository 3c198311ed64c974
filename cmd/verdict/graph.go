package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ezachrisen/verdict"
)

func newGraphCmd(o *options) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the rule as a graph",
		Long:  `Outputs the rule tree as a Graphviz DOT digraph, a Mermaid flowchart, or a JSON node and edge list.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.loadRule()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "dot":
				fmt.Fprintln(out, verdict.ToDot(e))
			case "mermaid":
				fmt.Fprintln(out, verdict.ToMermaid(e))
			case "json":
				b, err := json.MarshalIndent(verdict.ToGraph(e), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			default:
				return fmt.Errorf("unknown format %q (want dot, mermaid or json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "dot", "Output format: dot, mermaid or json")
	return cmd
}
