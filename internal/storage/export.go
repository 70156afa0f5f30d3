package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/cardsort/internal/trace"
)

type ExportData struct {
	RunMetadata
	Frames []trace.Frame `json:"frames"`
}

// ExportJSON writes a run and its full trace as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, frames []trace.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, Frames: frames})
}
