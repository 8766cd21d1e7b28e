// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// separator joins nested object keys into a flat column name.
const separator = "_"

// member is one key/value pair of a decoded JSON object.
type member struct {
	key   string
	value any
}

// object is a JSON object that keeps its source key order. Decoded values are
// object, []any, json.Number, string, bool or nil.
type object []member

func (o object) get(key string) (any, bool) {
	for _, m := range o {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeBody parses a UTF-8 JSON document, keeping object key order.
func decodeBody(body []byte) (any, error) {
	if !utf8.Valid(body) {
		return nil, ParseError{Reason: "body is not valid UTF-8"}
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	root, err := decodeValue(dec)
	if err != nil {
		return nil, ParseError{Reason: "body is not valid JSON", Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ParseError{Reason: "body is not valid JSON", Err: errors.New("trailing data after top-level value")}
	}
	return root, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var o object
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				o = append(o, member{key: key, value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			if o == nil {
				o = object{}
			}
			return o, nil
		case '[':
			list := []any{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				list = append(list, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return t, nil
	}
}

// recordSet is the flattened form of a list of JSON objects. names holds every
// column in first-seen order.
type recordSet struct {
	names []string
	rows  []map[string]any
}

// rootRecords treats the whole document as the record source: an object is a
// single record and a list contributes one record per element.
func rootRecords(root any) ([]object, error) {
	switch v := root.(type) {
	case object:
		return []object{v}, nil
	case []any:
		return objectList(v, "root list")
	}
	return nil, ParseError{Reason: fmt.Sprintf("root is %s, expected an object or a list of objects", kindOf(root))}
}

// resultsRecords uses the "results" array of the root object as the records.
func resultsRecords(root any) ([]object, error) {
	o, ok := root.(object)
	if !ok {
		return nil, ParseError{Reason: fmt.Sprintf("root is %s, expected an object", kindOf(root))}
	}
	results, ok := o.get(resultsField)
	if !ok {
		return nil, ParseError{Reason: "root object has no results field"}
	}
	list, ok := results.([]any)
	if !ok {
		return nil, ParseError{Reason: fmt.Sprintf("results is %s, expected a list", kindOf(results))}
	}
	return objectList(list, resultsField)
}

func objectList(list []any, what string) ([]object, error) {
	records := make([]object, 0, len(list))
	for i, e := range list {
		o, ok := e.(object)
		if !ok {
			return nil, ParseError{Reason: fmt.Sprintf("%s element %d is %s, expected an object", what, i, kindOf(e))}
		}
		records = append(records, o)
	}
	return records, nil
}

// flatten turns nested objects into single-level rows. Nested keys are joined
// with separator; arrays and scalars are kept as values.
func flatten(records []object) recordSet {
	rs := recordSet{rows: make([]map[string]any, 0, len(records))}
	seen := map[string]bool{}
	for _, r := range records {
		row := map[string]any{}
		flattenInto(row, "", r, func(name string) {
			if !seen[name] {
				seen[name] = true
				rs.names = append(rs.names, name)
			}
		})
		rs.rows = append(rs.rows, row)
	}
	return rs
}

func flattenInto(row map[string]any, prefix string, o object, onName func(string)) {
	for _, m := range o {
		name := m.key
		if prefix != "" {
			name = prefix + separator + m.key
		}
		if nested, ok := m.value.(object); ok {
			// an empty object contributes no column
			flattenInto(row, name, nested, onName)
			continue
		}
		row[name] = m.value
		onName(name)
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case object:
		return "an object"
	case []any:
		return "a list"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	}
	return fmt.Sprintf("%T", v)
}

// renderString formats a raw JSON value as text: strings verbatim, numbers as
// their source text, composites as compact JSON.
func renderString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case object, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return strings.TrimSpace(fmt.Sprint(v)), nil
}
