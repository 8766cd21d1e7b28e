// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/apiconsumer/fetch"
	"github.com/xmidt-org/apiconsumer/store"
)

type mapSource map[string]string

func (m mapSource) GetString(key string) string {
	return m[key]
}

type mockFetcher struct {
	mock.Mock
}

func (f *mockFetcher) Fetch(ctx context.Context, endpoint string) (fetch.Response, error) {
	args := f.Called(ctx, endpoint)
	return args.Get(0).(fetch.Response), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (s *mockStore) Put(ctx context.Context, obj store.Object) error {
	args := s.Called(ctx, obj)
	return args.Error(0)
}

type mockResolver struct {
	mock.Mock
}

func (r *mockResolver) Resolve(ctx context.Context, name string) (string, error) {
	args := r.Called(ctx, name)
	return args.String(0), args.Error(1)
}
