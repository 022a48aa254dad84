// Copyright (c) 2026, the gng-project contributors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package handler

import "github.com/gng-project/gng/pkg/agent"

// Chain holds handlers in insertion order and dispatches the three phase
// steps across them, per spec §4.8.
type Chain struct {
	handlers []Handler
}

// NewChain builds a Chain over handlers, in the order given.
func NewChain(handlers ...Handler) *Chain {
	return &Chain{handlers: handlers}
}

// Prepare invokes every handler's Prepare in order, halting at the first error.
func (c *Chain) Prepare(phase agent.Phase) error {
	for _, h := range c.handlers {
		if err := h.Prepare(phase); err != nil {
			return err
		}
	}
	return nil
}

// Handle dispatches one framed message to the handlers in order, stopping at
// the first one that consumes it.
func (c *Chain) Handle(phase agent.Phase, messageType agent.MessageType, payload string) error {
	for _, h := range c.handlers {
		consumed, err := h.Handle(phase, messageType, payload)
		if err != nil {
			return err
		}
		if consumed {
			return nil
		}
	}
	return nil
}

// Cleanup invokes every handler's Cleanup in order, halting at the first error.
func (c *Chain) Cleanup(phase agent.Phase) error {
	for _, h := range c.handlers {
		if err := h.Cleanup(phase); err != nil {
			return err
		}
	}
	return nil
}

// MessageCallback adapts the chain's Handle method to agent.MessageCallback
// for one phase, for use with agent.Runner.Run. caseofficer.CaseOfficer.Process
// takes a phase-aware callback, which Handle itself satisfies.
func (c *Chain) MessageCallback(phase agent.Phase) agent.MessageCallback {
	return func(messageType agent.MessageType, payload string) error {
		return c.Handle(phase, messageType, payload)
	}
}
