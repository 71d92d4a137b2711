// Package model defines the data types shared across the ingestion pipeline.
package model

import "time"

// Sample holds one batch's measurements recovered from a single Lenzing
// export file. All measurement fields are kept as the raw text the
// instrument printed; an empty string means the source file lacked the
// corresponding line.
type Sample struct {
	Source        string `json:"source"`
	Date          string `json:"date,omitempty"`
	MaterialCode  string `json:"material_code,omitempty"`
	BatchID       string `json:"batch_id,omitempty"`
	MaterialType  string `json:"material_type,omitempty"`
	NominalTiter  string `json:"nominal_titer,omitempty"`
	MeasuredTiter string `json:"measured_titer,omitempty"`
	CVTiter       string `json:"cv_titer,omitempty"`
	Elongation    string `json:"elongation,omitempty"`
	CVElongation  string `json:"cv_elongation,omitempty"`
	Tenacity      string `json:"tenacity,omitempty"`
	CVTenacity    string `json:"cv_tenacity,omitempty"`
}

// Columns is the ordered report column layout the lab expects.
var Columns = []string{
	"source",
	"date",
	"material_code",
	"batch_id",
	"material_type",
	"nominal_titer",
	"measured_titer",
	"cv_titer",
	"elongation",
	"cv_elongation",
	"tenacity",
	"cv_tenacity",
}

// Row returns the sample's values in Columns order.
func (s Sample) Row() []string {
	return []string{
		s.Source,
		s.Date,
		s.MaterialCode,
		s.BatchID,
		s.MaterialType,
		s.NominalTiter,
		s.MeasuredTiter,
		s.CVTiter,
		s.Elongation,
		s.CVElongation,
		s.Tenacity,
		s.CVTenacity,
	}
}

// Report groups samples by test date string ("dd/mm/yyyy"). Samples within
// a date keep file-discovery order; date ordering is the writer's concern.
type Report map[string][]Sample

// Run records one persisted ingestion pass over a source directory.
type Run struct {
	ID        string    `json:"id"`
	SourceDir string    `json:"source_dir"`
	FileCount int       `json:"file_count"`
	CreatedAt time.Time `json:"created_at"`
}
