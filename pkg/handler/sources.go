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
	"github.com/gng-project/gng/pkg/sourcepacket"
)

// Fetcher materializes one declared source into destDir. It is an external
// collaborator (spec §4.8): this package only validates and dispatches.
type Fetcher interface {
	Fetch(source sourcepacket.SourceDefinition, destDir string) error
}

// SourceFetcher stages every declared source into the work directory before
// the Build phase runs.
type SourceFetcher struct {
	Base
	Cell          *RecipeCell
	WorkDirectory string
	Fetcher       Fetcher
}

// NewSourceFetcher returns a SourceFetcher reading the recipe from cell and
// materializing sources into workDirectory via fetcher.
func NewSourceFetcher(cell *RecipeCell, workDirectory string, fetcher Fetcher) *SourceFetcher {
	return &SourceFetcher{Cell: cell, WorkDirectory: workDirectory, Fetcher: fetcher}
}

// Prepare implements Handler.
func (h *SourceFetcher) Prepare(phase agent.Phase) error {
	if phase != agent.PhaseBuild {
		return nil
	}

	sp, ok := h.Cell.Get()
	if !ok {
		return gngerrors.New(gngerrors.Protocol, "source packet data was not parsed before fetching sources")
	}

	for _, source := range sp.Sources {
		if err := source.Validate(); err != nil {
			return err
		}
		if err := h.Fetcher.Fetch(source, h.WorkDirectory); err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to fetch source %q", source.URL)
		}
	}
	return nil
}
