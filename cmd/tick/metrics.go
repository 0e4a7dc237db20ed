package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/amonks/ticklist/ops"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print task gauges in the Prometheus text format",
	Args:  cobra.NoArgs,
	RunE:  runMetrics,
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}

func runMetrics(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if resp := ops.NewGetStats(a.env).Execute(ctx); !resp.Success {
			return errOperationFailed
		}
		return a.env.Metrics.Write(a.out)
	})
}
