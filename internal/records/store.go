package records

import (
	"context"
	"errors"
)

var (
	// ErrTableNotFound means the backend has no table under that name.
	ErrTableNotFound = errors.New("records: table not found")
	// ErrTableLocked means another writer holds the table and the write was refused.
	ErrTableLocked = errors.New("records: table is locked")
)

// Store loads and persists whole tables by name. Every save replaces the
// table wholesale; there is no row-level write path.
type Store interface {
	LoadTable(ctx context.Context, name string) (*Table, error)
	SaveTable(ctx context.Context, name string, t *Table) error
}

// Names addresses the five hospital datasets.
type Names struct {
	Patients   string
	Beds       string
	Doctors    string
	Medicines  string
	Discharged string
}

// All returns the names in load order.
func (n Names) All() []string {
	return []string{n.Patients, n.Beds, n.Doctors, n.Medicines, n.Discharged}
}

// Snapshot is one consistent read of all five tables, taken per request.
type Snapshot struct {
	Patients   *Table
	Beds       *Table
	Doctors    *Table
	Medicines  *Table
	Discharged *Table
}

// LoadSnapshot reads every table. Any failure aborts the whole snapshot.
func LoadSnapshot(ctx context.Context, store Store, names Names) (*Snapshot, error) {
	tables := make([]*Table, 0, 5)
	for _, name := range names.All() {
		t, err := store.LoadTable(ctx, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return &Snapshot{
		Patients:   tables[0],
		Beds:       tables[1],
		Doctors:    tables[2],
		Medicines:  tables[3],
		Discharged: tables[4],
	}, nil
}
