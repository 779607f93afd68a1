package memory

import (
	"context"
	"encoding/binary"
	"hash/fnv"

	"dqsuggest/ports"
)

// Dataset is an in-memory implementation of the dataset port, used by the
// file loaders, the HTTP surface and the tests. Rows are immutable once
// loaded.
type Dataset struct {
	columns []string
	rows    []ports.Row
}

// New creates a dataset from explicit rows.
func New(columns []string, rows []ports.Row) *Dataset {
	return &Dataset{columns: columns, rows: rows}
}

// FromRecords builds a dataset from string records, treating empty cells
// as nulls. Short records are padded with nulls.
func FromRecords(columns []string, records [][]string) *Dataset {
	rows := make([]ports.Row, len(records))
	for i, record := range records {
		row := make(ports.Row, len(columns))
		for j, col := range columns {
			if j >= len(record) || record[j] == "" {
				row[col] = ports.Cell{Null: true}
			} else {
				row[col] = ports.Cell{Raw: record[j]}
			}
		}
		rows[i] = row
	}
	return &Dataset{columns: columns, rows: rows}
}

// Columns returns the declared column names in order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// RowCount returns the number of rows held.
func (d *Dataset) RowCount() int {
	return len(d.rows)
}

// Scan iterates every row, honoring context cancellation between rows.
func (d *Dataset) Scan(ctx context.Context, fn func(ports.Row) error) error {
	for _, row := range d.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Select restricts the dataset to a subset of columns. Unknown names are
// dropped silently; validation belongs to the caller.
func (d *Dataset) Select(columns []string) ports.Dataset {
	known := make(map[string]bool, len(d.columns))
	for _, c := range d.columns {
		known[c] = true
	}
	kept := make([]string, 0, len(columns))
	for _, c := range columns {
		if known[c] {
			kept = append(kept, c)
		}
	}
	return &Dataset{columns: kept, rows: d.rows}
}

// Split partitions rows into train and hold-out datasets. Assignment
// hashes the seed with the row index, so a fixed seed reproduces the exact
// same partition regardless of scan order or prior splits.
func (d *Dataset) Split(fraction float64, seed int64) (ports.Dataset, ports.Dataset) {
	var train, holdout []ports.Row
	for i, row := range d.rows {
		if splitFraction(seed, int64(i)) < fraction {
			train = append(train, row)
		} else {
			holdout = append(holdout, row)
		}
	}
	return &Dataset{columns: d.columns, rows: train},
		&Dataset{columns: d.columns, rows: holdout}
}

// splitFraction maps (seed, row index) to a uniform value in [0,1).
func splitFraction(seed, index int64) float64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(seed))
	binary.BigEndian.PutUint64(buf[8:], uint64(index))

	h := fnv.New64a()
	h.Write(buf[:])
	// Keep 53 bits so the quotient is exact in float64.
	return float64(h.Sum64()>>11) / float64(1<<53)
}
