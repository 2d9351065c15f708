package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Metric", "Kind", "Status", "Importance", "Value"},
	}
}

func (f *TableFormatter) Format(rows []MetricRow) error {
	widths := f.calculateColumnWidths(rows)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")
	for _, row := range rows {
		f.printRow(f.cells(row), widths)
	}
	f.printBorder(widths, "bottom")

	return nil
}

func (f *TableFormatter) cells(row MetricRow) []string {
	return []string{row.Name, row.Kind, row.Status, row.Importance, row.Value}
}

// calculateColumnWidths sizes each column to its widest cell, clamped so
// the table fits the terminal when one is attached.
func (f *TableFormatter) calculateColumnWidths(rows []MetricRow) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, value := range f.cells(row) {
			if w := runewidth.StringWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if limit := maxNameWidth(widths); limit > 0 && widths[0] > limit {
		widths[0] = limit
	}
	return widths
}

// maxNameWidth caps the name column so the full table fits the terminal.
// Zero means no cap.
func maxNameWidth(widths []int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	termWidth, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}

	// Each column takes "│ value " plus the closing "│".
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	if total <= termWidth {
		return 0
	}
	limit := widths[0] - (total - termWidth)
	if limit < 12 {
		limit = 12
	}
	return limit
}

func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2))
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		value = runewidth.Truncate(value, widths[i], "…")
		fmt.Printf(" %s │", runewidth.FillRight(value, widths[i]))
	}
	fmt.Println()
}
