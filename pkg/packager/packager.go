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

package packager

import (
	"fmt"
	"strings"

	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// PacketDefinition describes one packet produced from the install tree.
type PacketDefinition struct {
	Name         identifier.Name
	Version      identifier.Version
	MergedFacets identifier.Names
	Metadata     []byte
	Filter       Filter
	Policy       archive.ContentsPolicy
}

// FacetDefinition describes one facet considered for every packet. Name is
// nil for the catch-all main facet, whose Filter must be AlwaysTrue and
// which must be last in the slice passed to Build.
type FacetDefinition struct {
	Name   *identifier.Name
	Filter Filter
}

// Packager walks entries through the composed stage tree, rejecting
// entries under "local/" and entries no stage claims.
type Packager struct {
	root Stage
}

// Build composes the canonical routing tree of spec §4.4: a Switching stage
// over one Filtered-by-packet stage per packet, each wrapping a Switching
// stage over one Filtered-by-facet stage per non-merged facet, each
// wrapping a Storage stage.
func Build(outputDir string, packets []PacketDefinition, facets []FacetDefinition) (*Packager, error) {
	if len(facets) == 0 {
		return nil, gngerrors.New(gngerrors.Config, "at least one facet definition (the catch-all) is required")
	}
	last := facets[len(facets)-1]
	if last.Name != nil {
		return nil, gngerrors.New(gngerrors.Config, "the last facet definition must be the unnamed catch-all facet")
	}

	packetStages := make([]Stage, 0, len(packets))
	for _, p := range packets {
		facetStage, err := buildFacetedStage(outputDir, p, facets)
		if err != nil {
			return nil, err
		}
		packetStages = append(packetStages, Filtered(p.Name.String(), p.Filter, facetStage))
	}

	return &Packager{root: Switching(packetStages...)}, nil
}

func buildFacetedStage(outputDir string, packet PacketDefinition, facets []FacetDefinition) (Stage, error) {
	children := make([]Stage, 0, len(facets))
	for _, f := range facets {
		if f.Name != nil && packet.MergedFacets.Contains(*f.Name) {
			continue
		}
		facetName := ""
		debugName := packet.Name.String()
		if f.Name != nil {
			facetName = f.Name.String()
			debugName = fmt.Sprintf("%s-%s", debugName, facetName)
		}
		storage := Storage(outputDir, packet.Name.String(), facetName, packet.Version, packet.Metadata, packet.Policy)
		children = append(children, Filtered(debugName, f.Filter, storage))
	}
	if len(children) == 0 {
		return nil, gngerrors.Newf(gngerrors.Config, "packet %q has no facets left after merging", packet.Name.String())
	}
	return Switching(children...), nil
}

// Package routes e through the stage tree, rejecting administrator-area
// paths and failing any entry no stage claims.
func (p *Packager) Package(e *Entry) error {
	if isLocalPath(e.Path) {
		return gngerrors.Newf(gngerrors.Packaging, "path %q is in the administrator area and cannot be packaged", e.Path)
	}

	consumed, err := p.root.Package(e)
	if err != nil {
		return err
	}
	if !consumed {
		return gngerrors.Newf(gngerrors.Packaging, "path %q was not matched by any packet or facet", e.Path)
	}
	return nil
}

// Finish flushes every opened archive and returns the produced file paths
// in definition order.
func (p *Packager) Finish() ([]string, error) {
	return p.root.Finish()
}

func isLocalPath(path string) bool {
	return path == "local" || strings.HasPrefix(path, "local/")
}
