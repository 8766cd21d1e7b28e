// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Environment keys read at the start of every invocation.
const (
	EndpointKey = "ENDPOINT_URL"
	BucketKey   = "S3_BUCKET"
	PrefixKey   = "S3_PREFIX"
)

// ConfigSource is where invocation parameters come from. *viper.Viper
// satisfies it.
type ConfigSource interface {
	GetString(key string) string
}

// InvocationConfig holds the per-call parameters. It is built once per
// invocation and never modified afterwards.
type InvocationConfig struct {
	// Endpoint is the absolute URL fetched by the handler.
	Endpoint string `env:"ENDPOINT_URL" validate:"required,url"`

	// Bucket is the destination bucket.
	Bucket string `env:"S3_BUCKET" validate:"required"`

	// Prefix is prepended verbatim to every object key. (Optional)
	Prefix string `env:"S3_PREFIX"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("env")
	})
	return v
}

// NewInvocationConfig validates the given values. The first invalid field, in
// declaration order, is reported as a ConfigurationError.
func NewInvocationConfig(endpoint, bucket, prefix string) (InvocationConfig, error) {
	c := InvocationConfig{
		Endpoint: endpoint,
		Bucket:   bucket,
		Prefix:   prefix,
	}

	err := validate.Struct(c)
	if err == nil {
		return c, nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return InvocationConfig{}, ConfigurationError{
			Field:  fieldErrs[0].Field(),
			Reason: fieldErrs[0].Tag(),
		}
	}
	return InvocationConfig{}, ConfigurationError{Field: "invocation", Reason: err.Error()}
}

// LoadInvocationConfig reads and validates the invocation parameters from src.
func LoadInvocationConfig(src ConfigSource) (InvocationConfig, error) {
	return NewInvocationConfig(
		src.GetString(EndpointKey),
		src.GetString(BucketKey),
		src.GetString(PrefixKey),
	)
}
