package ports

import "context"

// Cell is one observed value: either a raw string or a null. Typed
// classification happens downstream in the profiler, not here.
type Cell struct {
	Raw  string
	Null bool
}

// Row maps column names to cells. A missing key counts as null.
type Row map[string]Cell

// Value returns the cell for a column, treating absent columns as null.
func (r Row) Value(column string) Cell {
	if c, ok := r[column]; ok {
		return c
	}
	return Cell{Null: true}
}

// Dataset is the tabular capability handed to the core by an external
// loader. The core performs no I/O of its own; adapters own the data.
type Dataset interface {
	// Columns returns the declared column names in order.
	Columns() []string

	// Scan iterates every row. The callback's error aborts the scan.
	Scan(ctx context.Context, fn func(Row) error) error

	// Select restricts the dataset to a subset of columns. Unknown names
	// are ignored; validation is the caller's job.
	Select(columns []string) Dataset

	// Split partitions rows into two disjoint datasets, assigning roughly
	// a `fraction` share to the first. The assignment must be
	// deterministic for a fixed seed.
	Split(fraction float64, seed int64) (Dataset, Dataset)
}
