package main

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/ezachrisen/verdict/internal/logging"
)

// options are the flags shared by all commands.
type options struct {
	schemaPath string
	rulePaths  []string
	verbosity  int
	log        logr.Logger
}

func newRootCmd() *cobra.Command {
	o := &options{log: logging.NewNop()}
	cmd := &cobra.Command{
		Use:   "verdict",
		Short: "Evaluate, explain and draw rules over schema-described records",
		Long: `verdict loads rules (JSON or YAML) whose attributes are declared in a schema file,
and evaluates, explains, documents or draws them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(o.verbosity)
			if err != nil {
				return err
			}
			o.log = l
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&o.schemaPath, "schema", "", "Schema file (.json, .yaml or .yml) declaring the record attributes")
	cmd.PersistentFlags().StringArrayVar(&o.rulePaths, "rule", nil, "Rule file (.json, .yaml or .yml); repeat for several rules")
	cmd.PersistentFlags().IntVarP(&o.verbosity, "verbosity", "v", 0, "Log verbosity")

	cmd.AddCommand(
		newValidateCmd(o),
		newDocCmd(o),
		newGraphCmd(o),
		newEvalCmd(o),
		newExplainCmd(o),
	)
	return cmd
}
