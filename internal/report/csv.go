// Package report serializes aggregated sample reports to CSV and XLSX,
// one row per batch, dates in chronological order.
package report

import (
	"encoding/csv"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Geotexan/data-wang/internal/model"
)

// WriteCSV writes the report to path with a header row and one row per
// sample in model.Columns order.
func WriteCSV(rep model.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(model.Columns); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, date := range SortedDates(rep) {
		for _, s := range rep[date] {
			if err := w.Write(s.Row()); err != nil {
				return eris.Wrap(err, "report: write row")
			}
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "report: flush")
}

// SortedDates returns the report's date keys in chronological order,
// parsing each as day/month/year. Keys that do not parse sort first so
// partial extractions stay visible at the top of the sheet.
func SortedDates(rep model.Report) []string {
	dates := make([]string, 0, len(rep))
	for d := range rep {
		dates = append(dates, d)
	}

	sort.Slice(dates, func(i, j int) bool {
		ti, erri := parseDMY(dates[i])
		tj, errj := parseDMY(dates[j])
		if erri != nil || errj != nil {
			if (erri == nil) != (errj == nil) {
				return erri != nil
			}
			return dates[i] < dates[j]
		}
		return ti.Before(tj)
	})
	return dates
}

// parseDMY parses a "dd/mm/yyyy" date; single-digit days and months from
// older firmware parse too.
func parseDMY(s string) (time.Time, error) {
	return time.Parse("2/1/2006", s)
}
