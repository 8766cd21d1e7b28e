// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"errors"
	"fmt"
)

var (
	ErrBucketEmpty = errors.New("bucket is required")
	ErrKeyEmpty    = errors.New("key is required")
	ErrNotFound    = errors.New("object not found")
)

// OperationError describes a failed store operation on one object.
type OperationError struct {
	Err       error
	Bucket    string
	Key       string
	Operation string
	Code      string
}

func (e OperationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s s3://%s/%s failed (%s): %v", e.Operation, e.Bucket, e.Key, e.Code, e.Err)
	}
	return fmt.Sprintf("%s s3://%s/%s failed: %v", e.Operation, e.Bucket, e.Key, e.Err)
}

func (e OperationError) Unwrap() error {
	return e.Err
}

// ValidateObject checks the fields every store requires.
func ValidateObject(obj Object) error {
	if obj.Bucket == "" {
		return ErrBucketEmpty
	}
	if obj.Key == "" {
		return ErrKeyEmpty
	}
	return nil
}
