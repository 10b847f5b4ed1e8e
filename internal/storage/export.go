package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run    RunMetadata  `json:"run"`
	Frames []FrameStats `json:"frames"`
}

// Export writes a run's metadata and per-frame stats as indented JSON.
func (s *Store) Export(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	stats, err := s.LoadStats(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: *meta, Frames: stats})
}
