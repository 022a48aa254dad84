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

import (
	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// ImmutabilityGuard records a hash of the first DATA message seen in each
// phase and fails if a later phase's DATA message hashes differently, if two
// DATA messages arrive in the same phase, or if an expected phase's DATA
// message never arrives (spec §4.8).
type ImmutabilityGuard struct {
	Base

	expected map[agent.Phase]bool

	hash         *identifier.Hash
	seenThisRun  bool
	currentPhase agent.Phase
}

// NewImmutabilityGuard watches expectedPhases for exactly one DATA message
// each, all hashing to the same value.
func NewImmutabilityGuard(expectedPhases ...agent.Phase) *ImmutabilityGuard {
	expected := make(map[agent.Phase]bool, len(expectedPhases))
	for _, p := range expectedPhases {
		expected[p] = true
	}
	return &ImmutabilityGuard{expected: expected}
}

// Prepare resets the per-phase "have we seen a DATA message yet" tracking.
func (g *ImmutabilityGuard) Prepare(phase agent.Phase) error {
	g.currentPhase = phase
	g.seenThisRun = false
	return nil
}

// Handle implements Handler.
func (g *ImmutabilityGuard) Handle(phase agent.Phase, messageType agent.MessageType, payload string) (bool, error) {
	if messageType != agent.MessageData {
		return false, nil
	}
	if g.seenThisRun {
		return false, gngerrors.Newf(gngerrors.Protocol, "received more than one data message in phase %q", phase)
	}
	g.seenThisRun = true

	v := identifier.HashSha256([]byte(payload))
	if g.hash == nil {
		g.hash = &v
		return false, nil
	}
	if !g.hash.Equal(v) {
		return false, gngerrors.Newf(gngerrors.Protocol, "source data changed between phases at %q", phase)
	}
	return false, nil
}

// Cleanup fails if phase was expected to carry a DATA message and none arrived.
func (g *ImmutabilityGuard) Cleanup(phase agent.Phase) error {
	if g.expected[phase] && !g.seenThisRun {
		return gngerrors.Newf(gngerrors.Protocol, "expected a data message in phase %q but none arrived", phase)
	}
	return nil
}
