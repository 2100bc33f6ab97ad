// Package seed reads the seed spreadsheet into (category, topic) pairs.
// CSV, TSV and XLSX sources are supported; the required columns are
// "Category" and "Topic", case-sensitive, and their absence is a fatal
// precondition error raised before any generation call is made.
package seed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/qaforge/qaforge/internal/qagen"
)

const (
	columnCategory = "Category"
	columnTopic    = "Topic"
)

// Read loads seed pairs from path, dispatching on the file extension.
func Read(path string) ([]qagen.SeedPair, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path, ',')
	case ".tsv":
		rows, err = readCSV(path, '\t')
	case ".xlsx":
		rows, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported seed file type %q (want .csv, .tsv or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	return pairsFromRows(rows)
}

func readCSV(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return rows, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// pairsFromRows maps the header row to column indices and extracts pairs.
func pairsFromRows(rows [][]string) ([]qagen.SeedPair, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("seed file is empty")
	}

	catIdx, topicIdx := -1, -1
	for i, name := range rows[0] {
		switch strings.TrimSpace(name) {
		case columnCategory:
			catIdx = i
		case columnTopic:
			topicIdx = i
		}
	}
	if catIdx == -1 || topicIdx == -1 {
		return nil, fmt.Errorf("seed file must contain %q and %q columns", columnCategory, columnTopic)
	}

	var pairs []qagen.SeedPair
	for _, row := range rows[1:] {
		pair := qagen.SeedPair{
			Category: cellAt(row, catIdx),
			Topic:    cellAt(row, topicIdx),
		}
		// Fully blank rows (trailing spreadsheet rows) are skipped.
		if pair.Category == "" && pair.Topic == "" {
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
