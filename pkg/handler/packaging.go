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
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
	"github.com/gng-project/gng/pkg/metrics"
	"github.com/gng-project/gng/pkg/packager"
	"github.com/gng-project/gng/pkg/sourcepacket"
	"github.com/gng-project/gng/pkg/walker"
)

// PackagingDriver constructs packet and facet definitions from the parsed
// recipe (spec §4.4) and runs the Packager over the install tree once the
// Package phase's agent exits (spec §4.8). Facet definitions are recipe-wide
// (every packet shares the same facet set): each recipe packet that declares
// a FacetDefinition contributes one global facet, named by slugifying its
// description suffix; every other packet merges that facet away so it only
// ever splits its own declared facet out of its own main archive.
type PackagingDriver struct {
	Base
	Cell             *RecipeCell
	InstallDirectory string
	OutputDirectory  string

	// Produced holds the file paths the last successful run produced, in
	// definition order.
	Produced []string
}

// NewPackagingDriver returns a PackagingDriver reading the recipe from cell,
// walking installDirectory/usr, and writing archives into outputDirectory.
func NewPackagingDriver(cell *RecipeCell, installDirectory, outputDirectory string) *PackagingDriver {
	return &PackagingDriver{Cell: cell, InstallDirectory: installDirectory, OutputDirectory: outputDirectory}
}

// Cleanup implements Handler.
func (h *PackagingDriver) Cleanup(phase agent.Phase) error {
	if phase != agent.PhasePackage {
		return nil
	}

	sp, ok := h.Cell.Get()
	if !ok {
		return gngerrors.New(gngerrors.Protocol, "source packet data was not parsed before packaging")
	}

	facets, facetByPacket, err := buildFacetDefinitions(sp)
	if err != nil {
		return err
	}
	facetNames := make([]identifier.Name, 0, len(facets))
	for _, f := range facets {
		if f.Name != nil {
			facetNames = append(facetNames, *f.Name)
		}
	}

	packets, err := buildPacketDefinitions(sp, facetNames, facetByPacket)
	if err != nil {
		return err
	}

	pkgr, err := packager.Build(h.OutputDirectory, packets, facets)
	if err != nil {
		return err
	}

	root := filepath.Join(h.InstallDirectory, "usr")
	w, err := walker.New(root)
	if err != nil {
		return err
	}
	for {
		entry, ok, err := w.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		e := packager.FromWalkerEntry(entry)
		if err := pkgr.Package(&e); err != nil {
			return err
		}
	}

	produced, err := pkgr.Finish()
	if err != nil {
		return err
	}
	h.Produced = produced
	metrics.IncPacketsWritten(len(produced))
	return nil
}

// buildFacetDefinitions walks the recipe's packets in order, turning every
// declared facet into one global packager.FacetDefinition, and appends the
// mandatory unnamed catch-all last. It also returns which facet name (if
// any) each packet itself declared.
func buildFacetDefinitions(sp *sourcepacket.SourcePacket) ([]packager.FacetDefinition, map[string]identifier.Name, error) {
	facets := make([]packager.FacetDefinition, 0, len(sp.Packets)+1)
	facetByPacket := make(map[string]identifier.Name)
	seen := make(map[string]bool)

	for _, p := range sp.Packets {
		if p.Facet == nil {
			continue
		}
		name, err := slugifyFacetName(p.Facet.DescriptionSuffix)
		if err != nil {
			return nil, nil, gngerrors.Wrapf(gngerrors.Config, err, "packet %q has an unusable facet name", p.Name)
		}
		facetByPacket[p.Name.String()] = name
		if seen[name.String()] {
			continue
		}
		seen[name.String()] = true

		regexes := make([]*regexp.Regexp, 0, len(p.Facet.MimeTypes))
		for _, pattern := range p.Facet.MimeTypes {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, nil, gngerrors.Wrapf(gngerrors.Config, err, "facet %q has an invalid mime pattern", name)
			}
			regexes = append(regexes, re)
		}

		filter := packager.Or(packager.Glob(p.Facet.Files...), packager.Mime(regexes...))
		facets = append(facets, packager.FacetDefinition{Name: &name, Filter: filter})
	}

	facets = append(facets, packager.FacetDefinition{Name: nil, Filter: packager.AlwaysTrue()})
	return facets, facetByPacket, nil
}

// buildPacketDefinitions turns every recipe packet into a packager.PacketDefinition.
// A packet merges away every global facet except the one it declared itself,
// so its content only ever splits across its own facet and its own main archive.
func buildPacketDefinitions(sp *sourcepacket.SourcePacket, facetNames []identifier.Name, facetByPacket map[string]identifier.Name) ([]packager.PacketDefinition, error) {
	defs := make([]packager.PacketDefinition, 0, len(sp.Packets))
	for _, p := range sp.Packets {
		metadata, err := json.Marshal(p)
		if err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Packaging, err, "failed to serialize metadata for packet %q", p.Name)
		}

		var filter packager.Filter = packager.AlwaysTrue()
		if len(p.Files) > 0 {
			filter = packager.Glob(p.Files...)
		}

		own := facetByPacket[p.Name.String()]
		var merged identifier.Names
		for _, fn := range facetNames {
			if fn != own {
				merged.Insert(fn)
			}
		}

		defs = append(defs, packager.PacketDefinition{
			Name:         p.Name,
			Version:      sp.Version,
			MergedFacets: merged,
			Metadata:     metadata,
			Filter:       filter,
			Policy:       archive.MayHaveContents,
		})
	}
	return defs, nil
}

func slugifyFacetName(s string) (identifier.Name, error) {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	slug := b.String()
	if slug == "" || !((slug[0] >= 'a' && slug[0] <= 'z') || (slug[0] >= '0' && slug[0] <= '9')) {
		slug = "f_" + slug
	}
	return identifier.NewName(slug)
}
