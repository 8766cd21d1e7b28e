// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/apiconsumer/store"
)

type mockClient struct {
	mock.Mock
}

func (c *mockClient) PutObject(ctx context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := c.Called(ctx, input)
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

type mockService struct {
	mock.Mock
}

func (s *mockService) Put(ctx context.Context, obj store.Object) error {
	args := s.Called(ctx, obj)
	return args.Error(0)
}
