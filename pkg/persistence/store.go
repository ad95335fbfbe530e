package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// PrinterRecord is the serialized form of one manual printer.
type PrinterRecord struct {
	// UUID is the printer's stable identity token, if known.
	UUID string `json:"uuid,omitempty"`

	// Name is the display name.
	Name string `json:"name"`

	// URI identifies how to reach the printer.
	URI string `json:"uri"`

	// Location is an optional free-text location.
	Location string `json:"location,omitempty"`
}

// Document is the persisted registry document.
type Document struct {
	// ManualPrinters lists the registry entries, most-recent-first.
	ManualPrinters []PrinterRecord `json:"manualPrinters"`
}

// PrinterStore manages persistence of the manual printer registry to a
// JSON file.
type PrinterStore struct {
	mu   sync.Mutex
	path string
}

// NewPrinterStore creates a new printer store.
func NewPrinterStore(path string) *PrinterStore {
	return &PrinterStore{path: path}
}

// Path returns the file path the store reads and writes.
func (s *PrinterStore) Path() string {
	return s.path
}

// Save persists the document to disk, replacing any prior contents.
// The write goes through a temporary file and rename so a crash never
// leaves a half-written document behind.
func (s *PrinterStore) Save(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the document from disk.
// Returns nil, nil if the file doesn't exist (empty registry).
func (s *PrinterStore) Load() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// Clear removes the registry file.
func (s *PrinterStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
