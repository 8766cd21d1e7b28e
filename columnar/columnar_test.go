// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package columnar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/apiconsumer/model"
)

func TestEncodeDecode(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)
	ts := time.Date(2024, 3, 1, 12, 30, 15, 250*int(time.Millisecond), time.UTC)
	in := model.Table{
		Columns: []model.Column{
			{Name: "id", Type: model.Int64},
			{Name: "address_city", Type: model.String},
			{Name: "address_geo_lat", Type: model.Float64},
			{Name: "active", Type: model.Bool},
			{Name: "registered", Type: model.Timestamp},
		},
		Rows: [][]any{
			{int64(1), "Springfield", -37.3159, true, ts},
			{int64(2), nil, nil, false, nil},
		},
	}

	b, err := Encode(in)
	require.NoError(err)
	require.True(len(b) > 8)
	assert.Equal("PAR1", string(b[:4]))
	assert.Equal("PAR1", string(b[len(b)-4:]))

	out, err := Decode(b)
	require.NoError(err)
	assert.Equal(in.Columns, out.Columns)
	assert.Equal(in.Rows, out.Rows)
}

func TestEncodeFieldNames(t *testing.T) {
	require := require.New(t)
	in := model.Table{
		Columns: []model.Column{
			{Name: "user.name", Type: model.String},
			{Name: "user_name", Type: model.String},
			{Name: "1st", Type: model.Int64},
		},
		Rows: [][]any{{"a", "b", int64(1)}},
	}

	b, err := Encode(in)
	require.NoError(err)
	out, err := Decode(b)
	require.NoError(err)
	require.Len(out.Columns, 3)
	assert.Equal(t, "user_name", out.Columns[0].Name)
	assert.Equal(t, "user_name_2", out.Columns[1].Name)
	assert.Equal(t, "_1st", out.Columns[2].Name)
	assert.Equal(t, [][]any{{"a", "b", int64(1)}}, out.Rows)
}

func TestEncodeErrors(t *testing.T) {
	tcs := []struct {
		Description string
		Table       model.Table
		ExpectedErr error
	}{
		{
			Description: "Short row",
			Table: model.Table{
				Columns: []model.Column{{Name: "a", Type: model.String}, {Name: "b", Type: model.String}},
				Rows:    [][]any{{"x"}},
			},
			ExpectedErr: ErrRowWidth,
		},
		{
			Description: "Wrong value type",
			Table: model.Table{
				Columns: []model.Column{{Name: "id", Type: model.Int64}},
				Rows:    [][]any{{"one"}},
			},
			ExpectedErr: ErrUnexpectedValue,
		},
		{
			Description: "Unknown column type",
			Table: model.Table{
				Columns: []model.Column{{Name: "id", Type: model.ColumnType(99)}},
			},
			ExpectedErr: ErrUnsupportedType,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.Description, func(t *testing.T) {
			_, err := Encode(tc.Table)
			assert.ErrorIs(t, err, tc.ExpectedErr)
		})
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not a parquet file"))
	assert.Error(t, err)
}
