// Package record defines the payloads exchanged with the upload and retrieval
// collaborators and turns retrieved records back into shapes.
//
// The core never fetches or stores records itself. A respondent session
// produces a Submission; a reviewer supplies []Record however it obtained them
// (HTTP, a file, a test fixture) and Rehydrate rescales every polygon into the
// reviewer's viewport.
package record

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/accent-map-mcp/internal/geometry"
	"github.com/ironsheep/accent-map-mcp/internal/shape"
)

// CanvasEntry is one drawn area: its questionnaire and its serialized path.
type CanvasEntry struct {
	Form shape.Metadata `json:"form"`
	Path string         `json:"path"`
}

// Submission is what a finished session hands to the upload collaborator.
// CanvasSize is the canonical size every path is expressed in.
type Submission struct {
	Canvas     []CanvasEntry `json:"canvas"`
	CanvasSize geometry.Size `json:"canvasSize"`
}

// NewSubmission serializes committed shapes, in order, with their canonical size.
func NewSubmission(shapes []shape.Shape, canvasSize geometry.Size) (*Submission, error) {
	sub := &Submission{
		Canvas:     make([]CanvasEntry, 0, len(shapes)),
		CanvasSize: canvasSize,
	}
	for _, s := range shapes {
		path, err := EncodePath(s.Polygon, s.StrokeColor)
		if err != nil {
			return nil, fmt.Errorf("encode shape %d: %w", s.ID, err)
		}
		sub.Canvas = append(sub.Canvas, CanvasEntry{Form: s.Metadata.Clone(), Path: path})
	}
	return sub, nil
}

// PersonalInformation is the respondent questionnaire. The core only reads it
// to filter records.
type PersonalInformation struct {
	Age             string   `json:"age"`
	Gender          string   `json:"gender"`
	GenderCustom    string   `json:"genderCustom,omitempty"`
	Ethnicity       string   `json:"ethnicity,omitempty"`
	EthnicityCustom string   `json:"ethnicityCustom,omitempty"`
	LevelEducation  []string `json:"levelEducation,omitempty"`
	BirthPlace      string   `json:"birthPlace,omitempty"`
	CurrentPlace    string   `json:"currentPlace,omitempty"`
	NonNative       string   `json:"nonNative,omitempty"`
}

// Record is one stored respondent as returned by the retrieval collaborator.
type Record struct {
	ID                  int                 `json:"id"`
	PersonalInformation PersonalInformation `json:"personalInformation"`
	Canvas              []CanvasEntry       `json:"canvas"`
	CanvasSize          geometry.Size       `json:"canvasSize"`
	Email               string              `json:"email,omitempty"`
}

// DecodeRecords reads a JSON array of records.
func DecodeRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

// LoadRecordsFile reads a JSON array of records from disk.
func LoadRecordsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open records: %w", err)
	}
	defer f.Close()
	return DecodeRecords(f)
}
