package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ballistics/internal/physics"
)

type ExportData struct {
	Run     RunMetadata      `json:"run"`
	Samples []physics.Sample `json:"samples"`
}

// ExportJSON writes a run and its samples as one indented document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []physics.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: meta, Samples: samples})
}
