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

package sourcepacket

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/github/go-spdx/v2/spdxexp"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// SourceDefinition describes one upstream source to fetch and unpack.
type SourceDefinition struct {
	URL         string   `json:"source"`
	Mirrors     []string `json:"mirrors,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Unpack      bool     `json:"unpack"`
}

// Validate checks the URL, every mirror, and the destination path per §3:
// destinations must not start with "/" and must not contain ".." segments.
func (s SourceDefinition) Validate() error {
	if _, err := url.Parse(s.URL); err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "source %q has an invalid url", s.URL)
	}
	for _, m := range s.Mirrors {
		if _, err := url.Parse(m); err != nil {
			return gngerrors.Wrapf(gngerrors.Config, err, "source %q has an invalid mirror %q", s.URL, m)
		}
	}
	if strings.HasPrefix(s.Destination, "/") {
		return gngerrors.Newf(gngerrors.Config, "source %q destination %q must not be absolute", s.URL, s.Destination)
	}
	for _, segment := range strings.Split(s.Destination, "/") {
		if segment == ".." {
			return gngerrors.Newf(gngerrors.Config, "source %q destination %q must not escape its directory", s.URL, s.Destination)
		}
	}
	return nil
}

// FacetDefinition is the optional facet carried by a PacketDefinition: a
// description suffix plus the routing material (MIME regexes, file globs)
// that decides which files belong to the facet instead of the packet's main
// archive.
type FacetDefinition struct {
	DescriptionSuffix string   `json:"description_suffix"`
	MimeTypes         []string `json:"mime_types,omitempty"`
	Files             []string `json:"files,omitempty"`
}

// Validate checks that the description suffix is non-empty and that every
// glob pattern and MIME regex compiles.
func (f FacetDefinition) Validate() error {
	if f.DescriptionSuffix == "" {
		return gngerrors.New(gngerrors.Config, "facet has an empty description suffix")
	}
	if _, err := compileGlobs(f.Files); err != nil {
		return gngerrors.Wrap(gngerrors.Config, "facet has an invalid file glob pattern", err)
	}
	if _, err := compileRegexes(f.MimeTypes); err != nil {
		return gngerrors.Wrap(gngerrors.Config, "facet has an invalid mime_type pattern", err)
	}
	return nil
}

// PacketDefinition is one of the packets a source packet produces.
type PacketDefinition struct {
	Name         identifier.Name  `json:"name"`
	Description  string           `json:"description"`
	Dependencies identifier.Names `json:"dependencies,omitempty"`
	Files        []string         `json:"files,omitempty"`
	Facet        *FacetDefinition `json:"facet,omitempty"`
}

// Validate checks the description, the file globs, and the optional facet.
func (p PacketDefinition) Validate() error {
	if p.Description == "" {
		return gngerrors.Newf(gngerrors.Config, "packet %q needs a description", p.Name)
	}
	if _, err := compileGlobs(p.Files); err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "packet %q has an invalid file glob pattern", p.Name)
	}
	if p.Facet != nil {
		if err := p.Facet.Validate(); err != nil {
			return gngerrors.Wrapf(gngerrors.Config, err, "packet %q has an invalid facet definition", p.Name)
		}
	}
	return nil
}

// SourcePacket is the complete output of evaluating one recipe (spec §3).
type SourcePacket struct {
	Name        identifier.Name    `json:"name"`
	Description string             `json:"description"`
	Version     identifier.Version `json:"version"`
	License     string             `json:"license"`
	URL         string             `json:"url"`
	BugURL      string             `json:"bug_url"`

	Bootstrap bool `json:"bootstrap"`

	BuildDependencies identifier.Names `json:"build_dependencies,omitempty"`
	CheckDependencies identifier.Names `json:"check_dependencies,omitempty"`

	Sources []SourceDefinition `json:"sources,omitempty"`
	Packets []PacketDefinition `json:"packets"`
}

// String renders "name@version", matching the original's Display impl.
func (s SourcePacket) String() string {
	return s.Name.String() + "@" + s.Version.String()
}

// Validate re-runs every §3 invariant over a parsed recipe: the license must
// parse as an SPDX expression, the url and bug_url must parse, every packet
// dependency must be a subset of the build dependencies, at least one packet
// must be defined, and every packet (and its optional facet) must itself be
// valid.
func (s SourcePacket) Validate() error {
	if s.License == "" {
		return gngerrors.New(gngerrors.Config, "source packet must include a license")
	}
	if s.URL == "" {
		return gngerrors.New(gngerrors.Config, "source packet must include a url")
	}
	if s.BugURL == "" {
		return gngerrors.New(gngerrors.Config, "source packet must include a bug_url")
	}
	if s.Description == "" {
		return gngerrors.New(gngerrors.Config, "source packet must include a description")
	}
	if _, err := url.Parse(s.URL); err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "source packet has an invalid url %q", s.URL)
	}
	if _, err := url.Parse(s.BugURL); err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "source packet has an invalid bug_url %q", s.BugURL)
	}

	valid, invalid, err := spdxexp.ValidateLicenses([]string{s.License})
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "source packet license %q could not be validated", s.License)
	}
	if !valid || len(invalid) > 0 {
		return gngerrors.Newf(gngerrors.Config, "source packet license %q is not a valid SPDX expression", s.License)
	}

	if len(s.Packets) == 0 {
		return gngerrors.New(gngerrors.Config, "at least one packet must be defined")
	}
	for _, p := range s.Packets {
		if err := p.Validate(); err != nil {
			return err
		}
		if !p.Dependencies.IsSubsetOf(s.BuildDependencies) {
			return gngerrors.Newf(gngerrors.Config, "packet %q depends on names outside the source's build dependencies", p.Name)
		}
	}
	for _, source := range s.Sources {
		if err := source.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func compileGlobs(patterns []string) ([]string, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, gngerrors.Newf(gngerrors.Config, "invalid glob pattern %q", p)
		}
	}
	return patterns, nil
}

func compileRegexes(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Config, err, "invalid mime regex %q", p)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
