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

// Handler observes one phase's lifecycle: prepare runs before the agent is
// spawned, handle runs once per framed message the agent emits, and cleanup
// runs after the agent exits successfully.
type Handler interface {
	Prepare(phase agent.Phase) error
	Handle(phase agent.Phase, messageType agent.MessageType, payload string) (consumed bool, err error)
	Cleanup(phase agent.Phase) error
}

// Base gives handlers no-op defaults to embed, matching the Handler trait's
// default methods: most handlers only care about one of the three steps.
type Base struct{}

// Prepare is a no-op. Embed Base and override only the steps a handler cares about.
func (Base) Prepare(agent.Phase) error { return nil }

// Handle is a no-op that never consumes a message.
func (Base) Handle(agent.Phase, agent.MessageType, string) (bool, error) { return false, nil }

// Cleanup is a no-op.
func (Base) Cleanup(agent.Phase) error { return nil }
