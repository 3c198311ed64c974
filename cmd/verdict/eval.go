package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/ezachrisen/verdict"
	"github.com/ezachrisen/verdict/metrics"
)

func newEvalCmd(o *options) *cobra.Command {
	var (
		dataPath    string
		showMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the rules against each record in a data file",
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

			reg := prometheus.NewRegistry()
			c, err := metrics.NewCollector(reg)
			if err != nil {
				return err
			}
			ids := v.IDs()
			evals := make([]func(verdict.Record) bool, len(ids))
			for i, id := range ids {
				e, _ := v.Rule(id)
				evals[i] = metrics.Instrument(c, id, e)
			}

			out := cmd.OutOrStdout()
			matched := make([]int, len(ids))
			for i, r := range records {
				for j, id := range ids {
					ok := evals[j](r)
					if ok {
						matched[j]++
					}
					fmt.Fprintf(out, "#%d %s: %s\n", i+1, id, outcome(ok))
				}
			}
			for j, id := range ids {
				fmt.Fprintf(out, "%s: matched %s of %s records\n",
					id, humanize.Comma(int64(matched[j])), humanize.Comma(int64(len(records))))
			}
			o.log.V(1).Info("evaluated", "rules", len(ids), "records", len(records))
			if showMetrics {
				return writeMetrics(out, reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "Data file (.json, .yaml or .yml) with one record or a list of records")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print the evaluation metrics in the Prometheus text format")
	return cmd
}

func outcome(ok bool) string {
	if ok {
		return "match"
	}
	return "no match"
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "writing metrics")
		}
	}
	return nil
}
