package commands

import (
	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/data/generator"
)

var genflightCmd = &cobra.Command{
	Use:   "genflight",
	Short: "Write the fixture flight record to inputs/flight_log.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := setup()
		return generator.WriteFlightLog(paths.FlightLog(), generator.FlightFixture())
	},
}

func init() {
	rootCmd.AddCommand(genflightCmd)
}
