// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStateString(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("idle", Idle.String())
	assert.Equal("credential_resolved", CredentialResolved.String())
	assert.Equal("failed", Failed.String())
	assert.Equal("unknown", State(42).String())
	assert.True(Done.Terminal())
	assert.True(Failed.Terminal())
	assert.False(Stored.Terminal())
}

func TestInvocationTransitions(t *testing.T) {
	assert := assert.New(t)
	core, logs := observer.New(zap.DebugLevel)
	inv := newInvocation(zap.New(core))

	inv.advance(ConfigValidated)
	inv.advance(Fetched)
	assert.Equal(Fetched, inv.state)

	// backwards moves are refused
	inv.advance(ConfigValidated)
	assert.Equal(Fetched, inv.state)
	assert.Equal(1, logs.FilterMessage("invalid state transition").Len())

	err := errors.New("boom")
	assert.Equal(err, inv.fail(err))
	assert.Equal(Failed, inv.state)

	// nothing leaves a terminal state
	inv.advance(Done)
	assert.Equal(Failed, inv.state)
	assert.Equal(2, logs.FilterMessage("invalid state transition").Len())
	assert.Equal(2, logs.FilterMessage("state transition").Len())
}
