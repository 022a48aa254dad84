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
	"encoding/json"

	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/sourcepacket"
)

// QueryParser deserializes the Query phase's DATA payload into the shared
// RecipeCell. It never consumes the message, so later handlers (the
// validator, the immutability guard) still see it.
type QueryParser struct {
	Base
	Cell *RecipeCell
}

// NewQueryParser returns a QueryParser writing into a fresh cell.
func NewQueryParser() *QueryParser {
	return &QueryParser{Cell: NewRecipeCell()}
}

// Handle implements Handler.
func (h *QueryParser) Handle(phase agent.Phase, messageType agent.MessageType, payload string) (bool, error) {
	if phase != agent.PhaseQuery || messageType != agent.MessageData {
		return false, nil
	}
	var sp sourcepacket.SourcePacket
	if err := json.Unmarshal([]byte(payload), &sp); err != nil {
		return false, gngerrors.Wrap(gngerrors.Protocol, "failed to parse source packet data", err)
	}
	h.Cell.Set(&sp)
	return false, nil
}

// Validator re-runs the §3 invariants over the parsed recipe once the Query
// phase's DATA message has arrived.
type Validator struct {
	Base
	Cell *RecipeCell
}

// NewValidator returns a Validator reading from cell.
func NewValidator(cell *RecipeCell) *Validator {
	return &Validator{Cell: cell}
}

// Handle implements Handler.
func (h *Validator) Handle(phase agent.Phase, messageType agent.MessageType, payload string) (bool, error) {
	if phase != agent.PhaseQuery || messageType != agent.MessageData {
		return false, nil
	}
	sp, ok := h.Cell.Get()
	if !ok {
		return false, gngerrors.New(gngerrors.Protocol, "source packet data was not parsed before validation")
	}
	if err := sp.Validate(); err != nil {
		return false, err
	}
	return false, nil
}
