// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package columnar writes tables as Parquet files and reads them back.
package columnar

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	goparquet "github.com/fraugster/parquet-go"
	"github.com/fraugster/parquet-go/parquet"
	"github.com/fraugster/parquet-go/parquetschema"
	"github.com/xmidt-org/apiconsumer/model"
)

const (
	schemaName = "apiconsumer"
	creator    = "apiconsumer"
)

var (
	ErrRowWidth        = errors.New("row width does not match column count")
	ErrUnsupportedType = errors.New("unsupported column type")
	ErrUnexpectedValue = errors.New("value does not match column type")
)

// Encode serializes t into a Snappy-compressed Parquet file. Every column is
// optional; nil values are written as nulls.
func Encode(t model.Table) ([]byte, error) {
	names := FieldNames(t.Columns)
	sd, err := schemaDefinition(t.Columns, names)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fw := goparquet.NewFileWriter(&buf,
		goparquet.WithSchemaDefinition(sd),
		goparquet.WithCompressionCodec(parquet.CompressionCodec_SNAPPY),
		goparquet.WithCreator(creator),
	)

	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrRowWidth, i, len(row), len(t.Columns))
		}
		data := make(map[string]interface{}, len(row))
		for j, v := range row {
			if v == nil {
				continue
			}
			pv, err := parquetValue(v, t.Columns[j].Type)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, t.Columns[j].Name, err)
			}
			data[names[j]] = pv
		}
		if err := fw.AddData(data); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a Parquet file produced by Encode.
func Decode(b []byte) (model.Table, error) {
	fr, err := goparquet.NewFileReader(bytes.NewReader(b))
	if err != nil {
		return model.Table{}, err
	}

	sd := fr.GetSchemaDefinition()
	if sd == nil || sd.RootColumn == nil {
		return model.Table{}, errors.New("file has no schema")
	}

	var t model.Table
	for _, c := range sd.RootColumn.Children {
		ct, err := columnType(c.SchemaElement)
		if err != nil {
			return model.Table{}, err
		}
		t.Columns = append(t.Columns, model.Column{Name: c.SchemaElement.Name, Type: ct})
	}

	for {
		data, err := fr.NextRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Table{}, err
		}
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			v, ok := data[c.Name]
			if !ok || v == nil {
				continue
			}
			row[j] = modelValue(v, c.Type)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// FieldNames returns the Parquet field name of each column. Characters outside
// [A-Za-z0-9_] become '_', a leading digit gets a '_' prefix and duplicates are
// numbered.
func FieldNames(columns []model.Column) []string {
	names := make([]string, len(columns))
	used := make(map[string]bool, len(columns))
	for i, c := range columns {
		n := sanitize(c.Name)
		base := n
		for k := 2; used[n]; k++ {
			n = base + "_" + strconv.Itoa(k)
		}
		used[n] = true
		names[i] = n
	}
	return names
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" || (s[0] >= '0' && s[0] <= '9') {
		s = "_" + s
	}
	return s
}

func schemaDefinition(columns []model.Column, names []string) (*parquetschema.SchemaDefinition, error) {
	var b strings.Builder
	b.WriteString("message " + schemaName + " {\n")
	for i, c := range columns {
		field, err := fieldType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		fmt.Fprintf(&b, "  optional %s;\n", strings.Replace(field, "%s", names[i], 1))
	}
	b.WriteString("}\n")
	return parquetschema.ParseSchemaDefinition(b.String())
}

func fieldType(t model.ColumnType) (string, error) {
	switch t {
	case model.String:
		return "binary %s (STRING)", nil
	case model.Int64:
		return "int64 %s", nil
	case model.Float64:
		return "double %s", nil
	case model.Bool:
		return "boolean %s", nil
	case model.Timestamp:
		return "int64 %s (TIMESTAMP(MILLIS, true))", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, t)
}

func parquetValue(v any, t model.ColumnType) (interface{}, error) {
	switch t {
	case model.String:
		if s, ok := v.(string); ok {
			return []byte(s), nil
		}
	case model.Int64:
		if n, ok := v.(int64); ok {
			return n, nil
		}
	case model.Float64:
		if f, ok := v.(float64); ok {
			return f, nil
		}
	case model.Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case model.Timestamp:
		if ts, ok := v.(time.Time); ok {
			return ts.UnixMilli(), nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
	return nil, fmt.Errorf("%w: %T for %s", ErrUnexpectedValue, v, t)
}

func columnType(se *parquet.SchemaElement) (model.ColumnType, error) {
	if se == nil || se.Type == nil {
		return 0, fmt.Errorf("%w: group columns are not supported", ErrUnsupportedType)
	}
	switch *se.Type {
	case parquet.Type_BYTE_ARRAY:
		return model.String, nil
	case parquet.Type_INT64:
		if se.LogicalType != nil && se.LogicalType.IsSetTIMESTAMP() {
			return model.Timestamp, nil
		}
		if se.ConvertedType != nil && *se.ConvertedType == parquet.ConvertedType_TIMESTAMP_MILLIS {
			return model.Timestamp, nil
		}
		return model.Int64, nil
	case parquet.Type_DOUBLE:
		return model.Float64, nil
	case parquet.Type_BOOLEAN:
		return model.Bool, nil
	}
	return 0, fmt.Errorf("%w: parquet %s", ErrUnsupportedType, se.Type)
}

func modelValue(v interface{}, t model.ColumnType) any {
	switch t {
	case model.String:
		if b, ok := v.([]byte); ok {
			return string(b)
		}
	case model.Timestamp:
		if n, ok := v.(int64); ok {
			return time.UnixMilli(n).UTC()
		}
	}
	return v
}
