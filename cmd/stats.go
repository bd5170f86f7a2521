package cmd

import (
	"github.com/huangsam/heatwatch/core"
	"github.com/spf13/cobra"
)

// describeCmd prints descriptive statistics of every stream.
var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Show descriptive statistics of every stream",
	Long: `Print count, mean, standard deviation, min, quartiles and max of the
temperature, humidity and heat index columns of the sensor, lstm and arima streams.

Examples:
  heatwatch describe
  heatwatch describe --output csv --output-file describe.csv`,
	PreRunE: sharedSetupWrapper,
	RunE:    runWithService(core.ExecuteDescribe),
}

// compareCmd compares the current sensor stream against a baseline.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare current statistics against a baseline",
	Long: `Compare count, mean, std, min and max of the sensor stream against a baseline.

By default the baseline is the stream as it is when the command starts, so
every change is relative to stored history. Pass --snapshot to use a daily
snapshot file as the baseline instead.

Examples:
  # Compare against yesterday's snapshot
  heatwatch compare --snapshot "09 Mar 2024.csv"`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("snapshot")
		if name == "" {
			return runWithService(core.ExecuteCompare)(cmd, args)
		}
		return runWithService(core.ExecuteCompareSnapshot(name))(cmd, args)
	},
}
