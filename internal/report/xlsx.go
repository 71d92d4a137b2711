package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/Geotexan/data-wang/internal/model"
)

// WriteXLSX writes the report as a single-sheet spreadsheet with the same
// layout as the CSV output.
func WriteXLSX(rep model.Report, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Fibra")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.Columns {
		header.AddCell().SetString(col)
	}

	for _, date := range SortedDates(rep) {
		for _, s := range rep[date] {
			row := sheet.AddRow()
			for _, v := range s.Row() {
				row.AddCell().SetString(v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
