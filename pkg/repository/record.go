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

package repository

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// SourceKind distinguishes a repository's data source.
type SourceKind int

const (
	// SourceLocal is a repository users adopt local build output into.
	SourceLocal SourceKind = iota
	// SourceRemote is a repository hosted elsewhere and pulled from.
	SourceRemote
)

// Source is the tagged union of a repository's data source (spec §3).
type Source struct {
	Kind SourceKind

	// Local fields, valid when Kind == SourceLocal.
	SourcesBaseDirectory string
	ExportDirectory      string // empty if unset

	// Remote fields, valid when Kind == SourceRemote.
	RemoteURL  string
	PacketsURL string // empty if unset
}

// RelationKind distinguishes a repository's relation to other repositories.
type RelationKind int

const (
	// RelationOverride replaces another repository at lookup time.
	RelationOverride RelationKind = iota
	// RelationDependency depends on zero or more other repositories.
	RelationDependency
)

// Relation is the tagged union of a repository's override/dependency relation.
type Relation struct {
	Kind RelationKind

	// OverrideTarget is valid when Kind == RelationOverride.
	OverrideTarget uuid.UUID

	// DependencyTargets is valid when Kind == RelationDependency.
	DependencyTargets []uuid.UUID
}

// Record is one repository configuration record (spec §3).
type Record struct {
	Name     identifier.Name
	UUID     uuid.UUID
	Priority uint32
	Source   Source
	Relation Relation
}

// recordWire is the on-disk JSON shape: a flattened envelope mirroring the
// relation and source tags, per spec §6 ("UTF-8 JSON with fields per §3").
type recordWire struct {
	Name      string   `json:"name"`
	UUID      string   `json:"uuid"`
	Priority  uint32   `json:"priority"`
	Override  *string  `json:"override,omitempty"`
	DependsOn []string `json:"dependencies,omitempty"`

	Type                 string `json:"type"`
	SourcesBaseDirectory string `json:"sources_base_directory,omitempty"`
	ExportDirectory      string `json:"export_directory,omitempty"`
	RemoteURL            string `json:"remote_url,omitempty"`
	PacketsURL           string `json:"packets_url,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Record) MarshalJSON() ([]byte, error) {
	w := recordWire{
		Name:     r.Name.String(),
		UUID:     r.UUID.String(),
		Priority: r.Priority,
	}
	switch r.Relation.Kind {
	case RelationOverride:
		s := r.Relation.OverrideTarget.String()
		w.Override = &s
	case RelationDependency:
		deps := make([]string, 0, len(r.Relation.DependencyTargets))
		for _, d := range r.Relation.DependencyTargets {
			deps = append(deps, d.String())
		}
		w.DependsOn = deps
	}
	switch r.Source.Kind {
	case SourceLocal:
		w.Type = "local"
		w.SourcesBaseDirectory = r.Source.SourcesBaseDirectory
		w.ExportDirectory = r.Source.ExportDirectory
	case SourceRemote:
		w.Type = "remote"
		w.RemoteURL = r.Source.RemoteURL
		w.PacketsURL = r.Source.PacketsURL
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	name, err := identifier.NewName(w.Name)
	if err != nil {
		return gngerrors.Wrap(gngerrors.Repository, "repository record has an invalid name", err)
	}
	id, err := uuid.Parse(w.UUID)
	if err != nil {
		return gngerrors.Wrap(gngerrors.Repository, "repository record has an invalid uuid", err)
	}

	var relation Relation
	switch {
	case w.Override != nil:
		target, err := uuid.Parse(*w.Override)
		if err != nil {
			return gngerrors.Wrapf(gngerrors.Repository, err, "repository %q has an invalid override target", w.Name)
		}
		relation = Relation{Kind: RelationOverride, OverrideTarget: target}
	case w.DependsOn != nil:
		targets := make([]uuid.UUID, 0, len(w.DependsOn))
		for _, d := range w.DependsOn {
			target, err := uuid.Parse(d)
			if err != nil {
				return gngerrors.Wrapf(gngerrors.Repository, err, "repository %q has an invalid dependency target", w.Name)
			}
			targets = append(targets, target)
		}
		relation = Relation{Kind: RelationDependency, DependencyTargets: targets}
	default:
		relation = Relation{Kind: RelationDependency}
	}

	var source Source
	switch w.Type {
	case "local":
		source = Source{Kind: SourceLocal, SourcesBaseDirectory: w.SourcesBaseDirectory, ExportDirectory: w.ExportDirectory}
	case "remote":
		source = Source{Kind: SourceRemote, RemoteURL: w.RemoteURL, PacketsURL: w.PacketsURL}
	default:
		return gngerrors.Newf(gngerrors.Repository, "repository %q has an unknown source type %q", w.Name, w.Type)
	}

	*r = Record{Name: name, UUID: id, Priority: w.Priority, Source: source, Relation: relation}
	return nil
}

// Validate checks the single-record invariants of spec §3 that don't
// require comparing against other records (uniqueness and relation-target
// checks are graph-wide and live in NewGraph).
func (r Record) Validate() error {
	if r.Name.IsZero() {
		return gngerrors.New(gngerrors.Repository, "repository record must have a name")
	}
	if r.UUID == uuid.Nil {
		return gngerrors.New(gngerrors.Repository, "repository record must have a uuid")
	}

	switch r.Source.Kind {
	case SourceLocal:
		if r.Source.SourcesBaseDirectory == "" {
			return gngerrors.Newf(gngerrors.Repository, "local repository %q must have a sources_base_directory", r.Name)
		}
	case SourceRemote:
		if err := validateRemoteURL(r.Source.RemoteURL); err != nil {
			return gngerrors.Wrapf(gngerrors.Repository, err, "remote repository %q has an invalid remote_url", r.Name)
		}
	default:
		return gngerrors.Newf(gngerrors.Repository, "repository %q has no recognized source", r.Name)
	}

	if r.Relation.Kind == RelationDependency {
		seen := make(map[uuid.UUID]bool, len(r.Relation.DependencyTargets))
		for _, d := range r.Relation.DependencyTargets {
			if seen[d] {
				return gngerrors.Newf(gngerrors.Repository, "repository %q lists dependency %q more than once", r.Name, d)
			}
			seen[d] = true
		}
	}

	return nil
}

func validateRemoteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https", "file":
		return nil
	default:
		return gngerrors.Newf(gngerrors.Repository, "remote url %q must use http, https, or file", raw)
	}
}

func isPathPrefix(prefix, path string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	path = strings.TrimSuffix(path, "/")
	if prefix == path {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
