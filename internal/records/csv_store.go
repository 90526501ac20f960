package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CSVStore keeps each table as <dir>/<name>.csv.
type CSVStore struct {
	dir string
}

// NewCSVStore creates a store that reads and writes <name>.csv files in dir.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// Path returns the file backing name.
func (s *CSVStore) Path(name string) string {
	return filepath.Join(s.dir, name+".csv")
}

func (s *CSVStore) LoadTable(ctx context.Context, name string) (*Table, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("records: open %s: %w", name, classifyFileError(err))
	}
	defer f.Close()

	t, err := DecodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("records: decode %s: %w", name, err)
	}
	return t, nil
}

// SaveTable rewrites the file in place. A file another process holds
// read-only (or a spreadsheet app holds open on Windows) surfaces as
// ErrTableLocked.
func (s *CSVStore) SaveTable(ctx context.Context, name string, t *Table) error {
	data, err := MarshalCSV(t)
	if err != nil {
		return fmt.Errorf("records: encode %s: %w", name, err)
	}
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("records: open %s for write: %w", name, classifyFileError(err))
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("records: write %s: %w", name, classifyFileError(err))
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("records: close %s: %w", name, err)
	}
	return nil
}

func classifyFileError(err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrTableLocked, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrTableNotFound, err)
	default:
		return err
	}
}
