package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNoData is returned by ReadObject when the data file does not exist yet.
var ErrNoData = errors.New("data file does not exist")

// DataFile is a named JSON document owned by a plugin.
type DataFile struct {
	path string
}

// NewDataFile returns the data file <dir>/<name>.json.
func NewDataFile(dir, name string) *DataFile {
	return &DataFile{path: filepath.Join(dir, fmt.Sprintf("%s.json", name))}
}

func (f *DataFile) Path() string {
	return f.path
}

// ReadObject decodes the file into out.
func (f *DataFile) ReadObject(out any) error {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNoData
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(f.path), err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshalling %s: %w", filepath.Base(f.path), err)
	}
	return nil
}

// WriteObject replaces the file contents with v.
func (f *DataFile) WriteObject(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	return atomicWrite(f.path, data, 0644)
}
