// Package report implements JSON export and import of run summaries and
// their text rendering.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathoo/skirmish/sim"
	"github.com/nathoo/skirmish/types"
)

// Version is stamped into every exported report.
const Version = "1"

// ErrBadName is returned for a report name that is not a plain file name.
var ErrBadName = errors.New("invalid report name")

// Document is the JSON-serializable report format.
type Document struct {
	Version  string       `json:"version"`
	Scenario sim.Scenario `json:"scenario"`
	Summary  sim.Summary  `json:"summary"`
}

// Marshal serializes a run to indented JSON.
func Marshal(sc sim.Scenario, s *sim.Summary) ([]byte, error) {
	doc := Document{
		Version:  Version,
		Scenario: sc,
		Summary:  *s,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Unmarshal deserializes a report.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported report version %q", doc.Version)
	}
	// Ensure maps are never nil after load.
	if doc.Summary.Outcomes == nil {
		doc.Summary.Outcomes = map[types.Outcome]int{}
	}
	if doc.Summary.Combined == nil {
		doc.Summary.Combined = map[string]int{}
	}
	return &doc, nil
}

// Path returns the file a named report is stored in under dir.
func Path(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrBadName, name)
	}
	return filepath.Join(dir, name+".json"), nil
}

// Save writes a run to dir/name.json, creating dir if needed.
func Save(dir, name string, sc sim.Scenario, s *sim.Summary) (string, error) {
	path, err := Path(dir, name)
	if err != nil {
		return "", err
	}
	data, err := Marshal(sc, s)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// Load reads dir/name.json.
func Load(dir, name string) (*Document, error) {
	path, err := Path(dir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	doc, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}
