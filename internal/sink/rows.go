// Package sink flattens batch results into tabular rows and writes them
// to CSV or XLSX files. The row transforms are pure; serialization is a
// separate, extension-dispatched concern.
package sink

import (
	"fmt"

	"github.com/qaforge/qaforge/internal/qagen"
)

// Layout selects the output row shape.
type Layout string

const (
	// LayoutLong emits one row per recovered record. Seeds with zero
	// records contribute zero rows.
	LayoutLong Layout = "long"

	// LayoutWide emits one row per seed with a fixed number of
	// question/answer column pairs. Unused slots stay empty; records
	// beyond the slot count are dropped.
	LayoutWide Layout = "wide"
)

// DefaultSlots is the wide-layout column pair count.
const DefaultSlots = 5

// ParseLayout validates a layout name from the CLI.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case LayoutLong, LayoutWide:
		return Layout(s), nil
	default:
		return "", fmt.Errorf("unknown layout %q (want long or wide)", s)
	}
}

// Rows converts a batch result into output rows, header first.
// slots is only consulted for the wide layout; values < 1 fall back to
// DefaultSlots.
func Rows(result *qagen.BatchResult, layout Layout, slots int) [][]string {
	if layout == LayoutWide {
		if slots < 1 {
			slots = DefaultSlots
		}
		return wideRows(result, slots)
	}
	return longRows(result)
}

func longRows(result *qagen.BatchResult) [][]string {
	rows := [][]string{{"Category", "Topic", "Question", "Answer"}}
	for _, sr := range result.Results {
		for _, rec := range sr.Records {
			rows = append(rows, []string{sr.Seed.Category, sr.Seed.Topic, rec.Question, rec.Answer})
		}
	}
	return rows
}

func wideRows(result *qagen.BatchResult, slots int) [][]string {
	header := []string{"Category", "Topic"}
	for i := 1; i <= slots; i++ {
		header = append(header, fmt.Sprintf("Question %d", i), fmt.Sprintf("Answer %d", i))
	}

	rows := [][]string{header}
	for _, sr := range result.Results {
		row := make([]string, len(header))
		row[0] = sr.Seed.Category
		row[1] = sr.Seed.Topic
		for i := 0; i < slots && i < len(sr.Records); i++ {
			row[2+2*i] = sr.Records[i].Question
			row[3+2*i] = sr.Records[i].Answer
		}
		rows = append(rows, row)
	}
	return rows
}
