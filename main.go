package main

import (
	"fmt"
	"os"

	"github.com/skyhaven/go-flight-metrics/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
