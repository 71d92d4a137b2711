// Package lenzing parses the tab-delimited .txt exports produced by the
// laboratory Lenzing fiber tester.
//
// The exports are line-oriented but irregular: the cell holding the batch
// identifier sometimes contains embedded carriage returns, so the row that
// should be the measurement-section header is occasionally the wrapped tail
// of the batch cell instead. The parser runs a small state machine over
// physical rows and only leaves the continuation state once the fixed
// header labels show up. Batch and granule type share a single cell with no
// delimiter between them; splitGranza recovers the boundary heuristically
// from token shape.
package lenzing

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/Geotexan/data-wang/internal/model"
)

type parseState int

const (
	// stateAwaitHeader consumes rows until the file header (row 2).
	stateAwaitHeader parseState = iota
	// stateBatchOrHeader decides, for every following row, whether it is a
	// wrapped continuation of the batch cell or the measurement-section
	// header. The state persists across physical rows until the probe hits.
	stateBatchOrHeader
	// stateMeasurements scans for the Average and CV% rows.
	stateMeasurements
)

// Extract reads one export file and returns its test date together with the
// recovered sample. The only error is an unreadable file; malformed or
// truncated content yields a sample with the affected fields left empty.
func Extract(path string) (string, model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", model.Sample{}, eris.Wrapf(err, "lenzing: open %s", path)
	}
	defer f.Close()

	// The instrument writes ISO-8859-1, not UTF-8.
	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rec := model.Sample{Source: path}
	var batch, granule string
	state := stateAwaitHeader
	rowNum := 0

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Some exports end in mangled bytes; keep what parsed so far.
			break
		}
		rowNum++

		switch state {
		case stateAwaitHeader:
			if rowNum < 2 {
				continue
			}
			rec.Date = firstToken(cell(row, 3))
			rec.NominalTiter = cell(row, 12)
			batch = strings.ReplaceAll(cell(row, 14), "\n", "")
			state = stateBatchOrHeader

		case stateBatchOrHeader:
			if !sectionHeader(row) {
				batch += " " + cell(row, 0)
				continue
			}
			g, err := splitGranza(batch)
			if err != nil {
				zap.L().Warn("lenzing: granule split failed",
					zap.String("file", path),
					zap.Error(err),
				)
				granule = batch
			} else {
				granule = g
				if granule != "" {
					batch = strings.ReplaceAll(batch, granule, "")
				}
			}
			state = stateMeasurements

		case stateMeasurements:
			switch cell(row, 0) {
			case "Average":
				rec.MeasuredTiter = cell(row, 1)
				rec.Elongation = cell(row, 3)
				rec.Tenacity = cell(row, 4)
			case "CV%":
				rec.CVTiter = cell(row, 1)
				rec.CVElongation = cell(row, 3)
				rec.CVTenacity = cell(row, 4)
			}
		}
	}

	finalize(&rec, batch, granule)
	return rec.Date, rec, nil
}

// sectionHeader reports whether the row is the genuine measurement-section
// header rather than a wrapped continuation of the batch cell. The header
// always carries the Titer and Force column labels.
func sectionHeader(row []string) bool {
	var titer, force bool
	for _, c := range row {
		if strings.Contains(c, "Titer") {
			titer = true
		}
		if strings.Contains(c, "Force") {
			force = true
		}
	}
	return titer && force
}

// finalize applies the batch/granule cleanup pass. Several rules encode
// data-entry quirks of the historical sheets; their spacing artifacts are
// kept so regenerated reports match the old ones byte for byte.
func finalize(rec *model.Sample, batch, granule string) {
	batch = strings.TrimSpace(batch)
	granule = strings.TrimSpace(granule)

	// A leading zero means the cell starts with a numeric material code
	// (001..018) rather than the lot itself.
	if strings.HasPrefix(batch, "0") {
		fields := strings.Fields(batch)
		rec.MaterialCode = " " + fields[0]
		batch = strings.Join(fields[1:], " ")
	}

	// Some operators type the granule first and the lot second.
	if strings.HasPrefix(strings.ToUpper(granule), "LO") {
		batch, granule = granule, batch
	}

	// A batch cell that still does not look like a lot is granule text.
	if batch != "" && !strings.HasPrefix(strings.ToUpper(batch), "LO") {
		granule = batch + " " + granule
		batch = ""
	}

	if fields := strings.Fields(batch); len(fields) > 2 {
		if fields[1] == "REPSOL" {
			granule = strings.Join(fields[1:], " ")
		} else {
			batch = strings.Join(fields[:2], " ")
			// The overflow tokens are recomputed from the already-truncated
			// batch, so this only prefixes a space onto the granule; kept to
			// match the historical sheets.
			granule = strings.Join(strings.Fields(batch)[2:], " ") + " " + granule
		}
	}

	rec.BatchID = batch
	rec.MaterialType = granule
}

// cell returns the i-th column or "" when the row is too short.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
