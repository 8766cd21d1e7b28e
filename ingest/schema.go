// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xmidt-org/apiconsumer/model"
)

// JSONPlaceholderSchema is the fixed column layout of the jsonplaceholder
// users feed. Columns outside of it are dropped.
var JSONPlaceholderSchema = model.Schema{
	Version: "v1",
	Missing: model.MissingFill,
	Columns: []model.Column{
		{Name: "id", Type: model.Int64},
		{Name: "name", Type: model.String},
		{Name: "username", Type: model.String},
		{Name: "email", Type: model.String},
		{Name: "address_street", Type: model.String},
		{Name: "address_suite", Type: model.String},
		{Name: "address_city", Type: model.String},
		{Name: "address_zipcode", Type: model.String},
		{Name: "address_geo_lat", Type: model.Float64},
		{Name: "address_geo_lng", Type: model.Float64},
		{Name: "phone", Type: model.String},
		{Name: "website", Type: model.String},
		{Name: "company_name", Type: model.String},
		{Name: "company_catchPhrase", Type: model.String},
		{Name: "company_bs", Type: model.String},
	},
}

var errNoSchemaColumns = errors.New("no schema column present in the response")

// applySchema projects rs onto schema, converting every value to its
// declared column type.
func applySchema(rs recordSet, schema model.Schema) (model.Table, error) {
	columns := schema.Columns
	if schema.Missing == model.MissingDrop {
		columns = presentColumns(rs, schema.Columns)
		if len(columns) == 0 && len(rs.rows) > 0 {
			return model.Table{}, SchemaCoercionError{Err: errNoSchemaColumns}
		}
	}

	table := model.Table{
		Columns: append([]model.Column(nil), columns...),
		Rows:    make([][]any, 0, len(rs.rows)),
	}
	for _, row := range rs.rows {
		typed := make([]any, len(columns))
		for i, c := range columns {
			v, err := coerce(row[c.Name], c.Type)
			if err != nil {
				return model.Table{}, SchemaCoercionError{
					Column: c.Name,
					Value:  describe(row[c.Name]),
					Type:   c.Type.String(),
					Err:    err,
				}
			}
			typed[i] = v
		}
		table.Rows = append(table.Rows, typed)
	}
	return table, nil
}

func presentColumns(rs recordSet, columns []model.Column) []model.Column {
	present := make([]model.Column, 0, len(columns))
	for _, c := range columns {
		for _, row := range rs.rows {
			if _, ok := row[c.Name]; ok {
				present = append(present, c)
				break
			}
		}
	}
	return present
}

// coerce converts a raw JSON value to t. JSON null and absent values are nil.
func coerce(v any, t model.ColumnType) (any, error) {
	if v == nil {
		return nil, nil
	}

	if t == model.String {
		return renderString(v)
	}

	switch v.(type) {
	case object, []any:
		return nil, fmt.Errorf("%s value is not a scalar", kindOf(v))
	}

	scalar := v
	if n, ok := v.(json.Number); ok {
		scalar = n.String()
	}

	switch t {
	case model.Int64:
		// strings are always decimal, so "010" is ten and "0x1F" is rejected
		if s, ok := v.(string); ok {
			return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		}
		return cast.ToInt64E(scalar)
	case model.Float64:
		return cast.ToFloat64E(scalar)
	case model.Bool:
		return cast.ToBoolE(scalar)
	case model.Timestamp:
		if n, ok := v.(json.Number); ok {
			secs, err := n.Int64()
			if err != nil {
				return nil, err
			}
			return time.Unix(secs, 0).UTC(), nil
		}
		ts, err := cast.ToTimeE(scalar)
		if err != nil {
			return nil, err
		}
		return ts.UTC(), nil
	}
	return nil, fmt.Errorf("unsupported column type %s", t)
}

func describe(v any) string {
	s, err := renderString(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// inferTable types every column from the values it holds. Integers give
// Int64, any fractional number gives Float64, uniform booleans or strings keep
// their kind; anything mixed, and every list, becomes String.
func inferTable(rs recordSet) (model.Table, error) {
	table := model.Table{
		Columns: make([]model.Column, len(rs.names)),
		Rows:    make([][]any, len(rs.rows)),
	}
	for i := range rs.rows {
		table.Rows[i] = make([]any, len(rs.names))
	}

	for j, name := range rs.names {
		t := inferType(rs, name)
		table.Columns[j] = model.Column{Name: name, Type: t}
		for i, row := range rs.rows {
			v, err := coerce(row[name], t)
			if err != nil {
				return model.Table{}, SchemaCoercionError{
					Column: name,
					Value:  describe(row[name]),
					Type:   t.String(),
					Err:    err,
				}
			}
			table.Rows[i][j] = v
		}
	}
	return table, nil
}

func inferType(rs recordSet, name string) model.ColumnType {
	var (
		kind       string
		fractional bool
	)
	for _, row := range rs.rows {
		v := row[name]
		if v == nil {
			continue
		}
		k := kindOf(v)
		if kind != "" && k != kind {
			return model.String
		}
		kind = k
		if n, ok := v.(json.Number); ok {
			if _, err := n.Int64(); err != nil {
				fractional = true
			}
		}
	}

	switch kind {
	case "a number":
		if fractional {
			return model.Float64
		}
		return model.Int64
	case "a boolean":
		return model.Bool
	}
	return model.String
}

// forceString retypes the named column as String, rendering numbers as their
// source text. A missing column is appended as an all-null String column.
func forceString(table model.Table, rs recordSet, name string) (model.Table, error) {
	j := table.ColumnIndex(name)
	if j < 0 {
		table.Columns = append(table.Columns, model.Column{Name: name, Type: model.String})
		for i := range table.Rows {
			table.Rows[i] = append(table.Rows[i], nil)
		}
		return table, nil
	}

	table.Columns[j].Type = model.String
	for i, row := range rs.rows {
		v, err := coerce(row[name], model.String)
		if err != nil {
			return model.Table{}, SchemaCoercionError{Column: name, Value: describe(row[name]), Type: model.String.String(), Err: err}
		}
		table.Rows[i][j] = v
	}
	return table, nil
}
