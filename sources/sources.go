// Package sources locates and decodes the daily report files feeding
// the dataset. It owns everything about the files themselves - names,
// dates, delimiters, header variants - and hands the series package a
// flat sequence of already-validated rows.
package sources

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/enzet/COVID-19/series"
)

// fileFormat is the date layout encoded in daily report file names,
// e.g. 03-01-2020.csv holds the snapshot for 1 March 2020.
const fileFormat = "01-02-2006.csv"

// regionColumns are the header names that may carry the region name,
// in order of preference. Early files use the slash form, later ones
// the underscore form.
var regionColumns = []string{"Country/Region", "Country_Region"}

// Count column headers. Files missing one of these columns simply
// report zero for that count.
const (
	confirmedColumn = "Confirmed"
	deathsColumn    = "Deaths"
	recoveredColumn = "Recovered"
)

// Summary reports what a load pass consumed and skipped.
type Summary struct {
	Files     int
	Rows      int
	Malformed int
}

// LoadDir reads every daily report file in dir and returns the decoded
// rows in file date order. Files whose names don't parse as report
// dates are skipped with a log line, as are rows missing their region
// name - the summary carries the counts.
func LoadDir(dir string) ([]series.Row, Summary, error) {
	var sum Summary

	paths, err := filepath.Glob(filepath.Join(filepath.Clean(dir), "*.csv"))
	if err != nil {
		return nil, sum, fmt.Errorf("load: error listing reports in:%s error:%w", dir, err)
	}
	if len(paths) == 0 {
		return nil, sum, fmt.Errorf("load: no report files found in:%s", dir)
	}
	sort.Strings(paths)

	var rows []series.Row
	for _, p := range paths {
		name := filepath.Base(p)
		day, err := time.Parse(fileFormat, name)
		if err != nil {
			log.Printf("load: skipping file with unrecognised name:%s", name)
			continue
		}

		fileRows, malformed, err := loadFile(p, day)
		if err != nil {
			return nil, sum, err
		}
		sum.Files++
		sum.Rows += len(fileRows)
		sum.Malformed += malformed
		rows = append(rows, fileRows...)
	}

	log.Printf("load: read files:%d rows:%d malformed:%d", sum.Files, sum.Rows, sum.Malformed)
	return rows, sum, nil
}

// loadFile decodes one daily report into rows for the given day.
func loadFile(p string, day time.Time) ([]series.Row, int, error) {
	records, err := loadCSV(p)
	if err != nil {
		return nil, 0, err
	}
	if len(records) == 0 {
		return nil, 0, fmt.Errorf("load: empty report file:%s", p)
	}

	// Resolve columns from the header, as positions move between file
	// generations.
	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	regionCol := -1
	for _, name := range regionColumns {
		if i, ok := cols[name]; ok {
			regionCol = i
			break
		}
	}
	if regionCol == -1 {
		return nil, 0, fmt.Errorf("load: no region column in file:%s header:%v", p, records[0])
	}

	var rows []series.Row
	var malformed int
	for i, record := range records[1:] {
		if regionCol >= len(record) || strings.TrimSpace(record[regionCol]) == "" {
			log.Printf("load: missing region identifier file:%s row:%d", filepath.Base(p), i+2)
			malformed++
			continue
		}

		rows = append(rows, series.Row{
			Region: record[regionCol],
			Day:    day,
			Record: series.Record{
				Confirmed: intValue(cell(record, cols, confirmedColumn)),
				Deaths:    intValue(cell(record, cols, deathsColumn)),
				Recovered: intValue(cell(record, cols, recoveredColumn)),
			},
		})
	}

	return rows, malformed, nil
}

// loadCSV loads the given CSV file into memory
func loadCSV(p string) ([][]string, error) {
	p = filepath.Clean(p)

	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // early files have ragged rows
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load: error reading file:%s error:%w", p, err)
	}
	return rows, nil
}

// cell returns the value under the named column, or blank when the
// column or cell is absent from this file generation.
func cell(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// intValue converts a count cell to an int, treating blank or
// unparseable text as zero to match upstream data quality.
func intValue(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
