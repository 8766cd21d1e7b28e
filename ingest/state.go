// SPDX-FileCopyrightText: 2021 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"go.uber.org/zap"
)

// State is a step of a single invocation. Invocations only move forward; any
// state may end in Failed instead of advancing.
type State int

const (
	Idle State = iota
	ConfigValidated
	CredentialResolved
	Fetched
	Flattened
	TypeCoerced
	Serialized
	Stored
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ConfigValidated:
		return "config_validated"
	case CredentialResolved:
		return "credential_resolved"
	case Fetched:
		return "fetched"
	case Flattened:
		return "flattened"
	case TypeCoerced:
		return "type_coerced"
	case Serialized:
		return "serialized"
	case Stored:
		return "stored"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}

// invocation tracks the state of one run of a handler.
type invocation struct {
	state  State
	logger *zap.Logger
}

func newInvocation(logger *zap.Logger) *invocation {
	return &invocation{state: Idle, logger: logger}
}

func (i *invocation) advance(next State) {
	if i.state.Terminal() || next <= i.state {
		i.logger.DPanic("invalid state transition", zap.Stringer("from", i.state), zap.Stringer("to", next))
		return
	}
	i.state = next
	i.logger.Debug("state transition", zap.Stringer("state", next))
}

// fail moves the invocation to Failed and returns err unchanged.
func (i *invocation) fail(err error) error {
	i.logger.Error("invocation failed", zap.Stringer("state", i.state), zap.Error(err))
	i.state = Failed
	return err
}
