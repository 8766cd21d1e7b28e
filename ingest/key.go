// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

const (
	datePathLayout = "2006/01/02"
	timePartLayout = "150405"
	objectKeyExt   = ".parquet"
)

// ObjectKey is the destination of one invocation's output.
type ObjectKey struct {
	Prefix string
	Time   time.Time
	Suffix string
}

// NewObjectKey builds a key for the given instant, which is converted to UTC.
func NewObjectKey(prefix string, now time.Time, suffix string) ObjectKey {
	return ObjectKey{
		Prefix: prefix,
		Time:   now.UTC(),
		Suffix: suffix,
	}
}

// String renders {prefix}{YYYY/MM/DD}/{HHMMSS}-{suffix}.parquet.
func (k ObjectKey) String() string {
	return k.Prefix + k.Time.Format(datePathLayout) + "/" + k.Time.Format(timePartLayout) + "-" + k.Suffix + objectKeyExt
}

// KeyGenerator produces a fresh ObjectKey per invocation.
type KeyGenerator struct {
	// Now defaults to time.Now.
	Now func() time.Time

	// Suffix defaults to RandomSuffix.
	Suffix func() string
}

// Next returns a new key under prefix.
func (g KeyGenerator) Next(prefix string) ObjectKey {
	now, suffix := g.Now, g.Suffix
	if now == nil {
		now = time.Now
	}
	if suffix == nil {
		suffix = RandomSuffix
	}
	return NewObjectKey(prefix, now(), suffix())
}

// RandomSuffix returns 128 random bits as 32 lowercase hex characters.
func RandomSuffix() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
