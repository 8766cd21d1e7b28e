// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/xmidt-org/apiconsumer/store"
)

// client captures the methods of interest from the S3 API. This
// should help mock API calls as well.
type client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// executor satisfies store.S by issuing one PutObject per write.
type executor struct {
	c client
}

func (e *executor) Put(ctx context.Context, obj store.Object) error {
	if err := store.ValidateObject(obj); err != nil {
		return store.OperationError{Err: err, Bucket: obj.Bucket, Key: obj.Key, Operation: store.PutType}
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(obj.Bucket),
		Key:           aws.String(obj.Key),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(len(obj.Body))),
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	_, err := e.c.PutObject(ctx, input)
	if err != nil {
		return handleClientError(obj, err)
	}
	return nil
}

// handleClientError keeps the S3 error code, when there is one, next to the
// original error.
func handleClientError(obj store.Object, err error) error {
	opErr := store.OperationError{Err: err, Bucket: obj.Bucket, Key: obj.Key, Operation: store.PutType}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		opErr.Code = apiErr.ErrorCode()
	}
	return opErr
}
