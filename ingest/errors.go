// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"
	"fmt"
)

// Error categories. Every typed error below unwraps to one of these so callers
// can branch with errors.Is without knowing the concrete type.
var (
	ErrConfiguration        = errors.New("configuration error")
	ErrCredentialResolution = errors.New("credential resolution error")
	ErrUpstreamRequest      = errors.New("upstream request error")
	ErrParse                = errors.New("parse error")
	ErrSchemaCoercion       = errors.New("schema coercion error")
	ErrStorageWrite         = errors.New("storage write error")
)

// ConfigurationError reports a required configuration value that is missing
// or malformed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e ConfigurationError) Error() string {
	if e.Reason == "" || e.Reason == "required" {
		return fmt.Sprintf("%s not configured", e.Field)
	}
	return fmt.Sprintf("%s is invalid: failed %q check", e.Field, e.Reason)
}

func (e ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

// CredentialResolutionError means the secret store gave back no usable proxy.
type CredentialResolutionError struct {
	Secret string
	Err    error
}

func (e CredentialResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("secret %s has no usable proxy credential", e.Secret)
	}
	return fmt.Sprintf("secret %s has no usable proxy credential: %v", e.Secret, e.Err)
}

func (e CredentialResolutionError) Unwrap() []error {
	return []error{ErrCredentialResolution, e.Err}
}

// UpstreamRequestError carries the status code of a failed fetch. Code is zero
// when no response was received at all.
type UpstreamRequestError struct {
	Code     int
	Endpoint string
	Err      error
}

func (e UpstreamRequestError) Error() string {
	switch {
	case e.Code == 0:
		return fmt.Sprintf("error in %s request: %v", e.Endpoint, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("error %d in %s request: %v", e.Code, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("error %d in %s request", e.Code, e.Endpoint)
}

func (e UpstreamRequestError) Unwrap() []error {
	return []error{ErrUpstreamRequest, e.Err}
}

// ParseError means the response body isn't UTF-8 JSON of the expected shape.
type ParseError struct {
	Reason string
	Err    error
}

func (e ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parsing response: %s", e.Reason)
	}
	return fmt.Sprintf("parsing response: %s: %v", e.Reason, e.Err)
}

func (e ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// SchemaCoercionError reports a value that couldn't be converted to the type
// declared for its column.
type SchemaCoercionError struct {
	Column string
	Value  string
	Type   string
	Err    error
}

func (e SchemaCoercionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("coercing record set: %v", e.Err)
	}
	return fmt.Sprintf("column %s: cannot convert %q to %s: %v", e.Column, e.Value, e.Type, e.Err)
}

func (e SchemaCoercionError) Unwrap() []error {
	return []error{ErrSchemaCoercion, e.Err}
}

// StorageWriteError wraps a failed object store write.
type StorageWriteError struct {
	Bucket string
	Key    string
	Err    error
}

func (e StorageWriteError) Error() string {
	return fmt.Sprintf("writing s3://%s/%s: %v", e.Bucket, e.Key, e.Err)
}

func (e StorageWriteError) Unwrap() []error {
	return []error{ErrStorageWrite, e.Err}
}
