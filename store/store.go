// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
)

const (
	// TypeLabel is for labeling metrics; if there is a single metric for
	// successful writes, the typeLabel and corresponding type can be used
	// when incrementing the metric.
	TypeLabel = "type"
	PutType   = "put"
)

// ParquetContentType is the media type of every object the handlers write.
const ParquetContentType = "application/vnd.apache.parquet"

// Object is a single immutable blob destined for a bucket.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Body        []byte
}

// S is a keyed object store. Writes are unconditional; callers are expected
// to pick keys that are never reused.
type S interface {
	Put(ctx context.Context, obj Object) error
}
