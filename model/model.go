// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package model

// ColumnType is the storage type of a tabular column.
type ColumnType int

const (
	String ColumnType = iota
	Int64
	Float64
	Bool
	Timestamp
)

func (t ColumnType) String() string {
	switch t {
	case String:
		return "string"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case Timestamp:
		return "timestamp"
	}
	return "unknown"
}

// Column names a single typed column of a Table.
type Column struct {
	// Name is the flattened field name (i.e. address_city).
	Name string `json:"name"`

	// Type is the declared or inferred type of every value in the column.
	Type ColumnType `json:"type"`
}

// Table is the tabular projection of a JSON payload. Rows hold values in
// column order; each value is nil or the Go type matching the column type
// (string, int64, float64, bool, time.Time).
type Table struct {
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of the named column or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Record returns row i as a column name to value map. Null values are omitted.
func (t Table) Record(i int) map[string]any {
	record := make(map[string]any, len(t.Columns))
	for j, c := range t.Columns {
		if v := t.Rows[i][j]; v != nil {
			record[c.Name] = v
		}
	}
	return record
}

// MissingPolicy decides what happens to a schema column a row doesn't carry.
type MissingPolicy int

const (
	// MissingFill keeps the column and stores null for rows lacking the field.
	MissingFill MissingPolicy = iota

	// MissingDrop removes schema columns absent from every row of the record set.
	MissingDrop
)

// Schema is a versioned, ordered column descriptor applied to flattened rows.
type Schema struct {
	Version string
	Columns []Column
	Missing MissingPolicy
}
