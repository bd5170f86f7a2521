package cmd

import (
	"github.com/huangsam/heatwatch/core"
	"github.com/spf13/cobra"
)

// recordCmd ingests one reading from the command line.
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one temperature and humidity reading",
	Long: `Ingest a single reading exactly as the HTTP /send route does.

The heat index is computed, the daily snapshot is taken when due, both
forecasting agents run on the recent history and the three rows are stored.
When forwarding is configured, the latest data is forwarded before exiting.

Examples:
  heatwatch record --temperature 25 --humidity 40

  # Show the stored rows as JSON
  heatwatch record --temperature 25 --humidity 40 --output json`,
	PreRunE: sharedSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		temperature, _ := cmd.Flags().GetString("temperature")
		humidity, _ := cmd.Flags().GetString("humidity")
		return runWithService(core.ExecuteRecord(temperature, humidity))(cmd, args)
	},
}
