package formatter

import (
	"fmt"
	"strings"

	"github.com/skyhaven/go-flight-metrics/internal/metrics/binproto"
)

// SummaryFormatter prints a human-readable overview of a metrics file.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format outputs the summary report for a JobMetrics message.
func (f *SummaryFormatter) Format(jm *binproto.JobMetrics) error {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Flight Metrics Summary Report")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	fmt.Printf("Job ID: %s\n", jm.JobID)
	fmt.Println()

	if len(jm.Metrics) == 0 {
		fmt.Println("No metrics to summarize")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	var passed, warned, blocked int
	for _, m := range jm.Metrics {
		switch m.Status {
		case binproto.StatusPassed:
			passed++
		case binproto.StatusFailWarn:
			warned++
		case binproto.StatusFailBlock:
			blocked++
		}
	}

	fmt.Println("Status Breakdown:")
	fmt.Printf("  Passed: %d\n", passed)
	fmt.Printf("  Warnings: %d\n", warned)
	fmt.Printf("  Blockers: %d\n", blocked)
	fmt.Printf("  Total Metrics: %d\n", len(jm.Metrics))
	fmt.Println()

	fmt.Println("Metrics:")
	fmt.Println(strings.Repeat("-", 60))
	for _, row := range Rows(jm) {
		fmt.Printf("\n%s (%s):\n", row.Name, row.Kind)
		fmt.Printf("  Status:       %s\n", row.Status)
		fmt.Printf("  Importance:   %s\n", row.Importance)
		if row.Value != "" {
			fmt.Printf("  Value:        %s\n", row.Value)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))

	return nil
}
