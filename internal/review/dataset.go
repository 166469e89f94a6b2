package review

import (
	"errors"
	"io"
	"log"
	"sync"

	"github.com/ironsheep/accent-map-mcp/internal/record"
)

// ErrNoRecords is returned when analysing before any records were loaded.
var ErrNoRecords = errors.New("no records loaded")

// Dataset holds the record set under review. It is safe for concurrent use.
type Dataset struct {
	mu      sync.RWMutex
	records []record.Record
	source  string
}

// NewDataset returns an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Replace swaps in a new record set. source describes where it came from.
func (d *Dataset) Replace(records []record.Record, source string) {
	d.mu.Lock()
	d.records = records
	d.source = source
	d.mu.Unlock()
	log.Printf("[review] loaded %d records from %s", len(records), source)
}

// LoadFile replaces the record set with the contents of a JSON file.
func (d *Dataset) LoadFile(path string) (int, error) {
	records, err := record.LoadRecordsFile(path)
	if err != nil {
		return 0, err
	}
	d.Replace(records, path)
	return len(records), nil
}

// LoadReader replaces the record set with a JSON array read from r.
func (d *Dataset) LoadReader(r io.Reader, source string) (int, error) {
	records, err := record.DecodeRecords(r)
	if err != nil {
		return 0, err
	}
	d.Replace(records, source)
	return len(records), nil
}

// Records returns the current record set and its source.
func (d *Dataset) Records() ([]record.Record, string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.records, d.source
}

// Analyze runs Analyze over the current record set.
func (d *Dataset) Analyze(q Query) (*Analysis, error) {
	records, _ := d.Records()
	if records == nil {
		return nil, ErrNoRecords
	}
	return Analyze(records, q)
}
