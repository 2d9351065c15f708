package commands

import (
	"github.com/spf13/cobra"

	"github.com/skyhaven/go-flight-metrics/internal/data/generator"
	"github.com/skyhaven/go-flight-metrics/internal/util"
)

var genlogCount int

var genlogCmd = &cobra.Command{
	Use:   "genlog",
	Short: "Generate a random value log under inputs/logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := setup()
		util.LogInfof("Generating %d random values", genlogCount)
		return generator.WriteValueLog(paths.ValueLog(), genlogCount, nil)
	},
}

func init() {
	genlogCmd.Flags().IntVar(&genlogCount, "count", 100,
		"Number of values to generate")
	rootCmd.AddCommand(genlogCmd)
}
