// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/xmidt-org/apiconsumer/store"
	"github.com/xmidt-org/apiconsumer/store/db/metric"
	"go.uber.org/zap"
)

// Config holds the S3 specific settings. Credentials, region and endpoint
// come from the shared AWS config.
type Config struct {
	// UsePathStyle is needed by most S3-compatible servers (MinIO, LocalStack).
	UsePathStyle bool
}

// NewS3 builds the S3 backed store with logging and instrumentation.
func NewS3(awsConfig aws.Config, config Config, measures metric.Measures, logger *zap.Logger) store.S {
	c := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.UsePathStyle = config.UsePathStyle
	})

	var s store.S = &executor{c: c}
	s = newLoggingService(logger, s)
	s = newInstrumentingService(measures, s)
	return s
}
