// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/xmidt-org/apiconsumer/store"
)

type InMem struct {
	data map[string]map[string]store.Object
	lock sync.Mutex
}

func NewInMem() *InMem {
	return &InMem{
		data: map[string]map[string]store.Object{},
	}
}

func (i *InMem) Put(_ context.Context, obj store.Object) error {
	if err := store.ValidateObject(obj); err != nil {
		return store.OperationError{Err: err, Bucket: obj.Bucket, Key: obj.Key, Operation: store.PutType}
	}

	// keep our own copy so later changes to the caller's slice don't leak in
	body := make([]byte, len(obj.Body))
	copy(body, obj.Body)
	obj.Body = body

	i.lock.Lock()
	defer i.lock.Unlock()
	if i.data[obj.Bucket] == nil {
		i.data[obj.Bucket] = map[string]store.Object{}
	}
	i.data[obj.Bucket][obj.Key] = obj
	return nil
}

// Get returns the object stored under bucket and key.
func (i *InMem) Get(bucket, key string) (store.Object, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	obj, ok := i.data[bucket][key]
	if !ok {
		return store.Object{}, store.OperationError{Err: store.ErrNotFound, Bucket: bucket, Key: key, Operation: "get"}
	}
	return obj, nil
}

// Keys lists the keys of a bucket in lexical order.
func (i *InMem) Keys(bucket string) []string {
	i.lock.Lock()
	defer i.lock.Unlock()
	keys := make([]string, 0, len(i.data[bucket]))
	for k := range i.data[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
