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
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/gng-project/gng/pkg/gngerrors"
)

type node struct {
	record Record

	overrides    *int // index of the base node this one overrides
	overriddenBy []int
	dependsOn    []int
	dependedOn   []int

	searchPath []uuid.UUID
}

// Graph is the validated, built repository DAG: override/dependency edges,
// leaf nodes, and every node's computed search path (spec §4.9).
type Graph struct {
	nodes     []*node
	byUUID    map[uuid.UUID]int
	leafOrder []int
	global    []uuid.UUID
}

// NewGraph validates records against spec §3 and builds the override and
// dependency graph, computing every node's search path and the global
// search path.
func NewGraph(records []Record) (*Graph, error) {
	if err := validateRecords(records); err != nil {
		return nil, err
	}

	byUUID := make(map[uuid.UUID]int, len(records))
	nodes := make([]*node, len(records))
	for i, r := range records {
		byUUID[r.UUID] = i
		nodes[i] = &node{record: r}
	}

	for i, r := range records {
		if r.Relation.Kind == RelationOverride {
			targetIdx, ok := byUUID[r.Relation.OverrideTarget]
			if !ok {
				return nil, gngerrors.Newf(gngerrors.Repository, "repository %q overrides unknown repository %q", r.Name, r.Relation.OverrideTarget)
			}
			if nodes[targetIdx].record.Relation.Kind == RelationOverride {
				return nil, gngerrors.Newf(gngerrors.Repository, "repository %q overrides another override repository %q", r.Name, r.Relation.OverrideTarget)
			}
			nodes[i].overrides = &targetIdx
			nodes[targetIdx].overriddenBy = append(nodes[targetIdx].overriddenBy, i)
		}
	}

	for i, r := range records {
		if r.Relation.Kind != RelationDependency {
			continue
		}
		for _, dep := range r.Relation.DependencyTargets {
			depIdx, ok := byUUID[dep]
			if !ok {
				return nil, gngerrors.Newf(gngerrors.Repository, "repository %q depends on unknown repository %q", r.Name, dep)
			}
			if nodes[depIdx].record.Relation.Kind == RelationOverride {
				return nil, gngerrors.Newf(gngerrors.Repository, "repository %q depends on an override repository %q", r.Name, dep)
			}
			nodes[i].dependsOn = append(nodes[i].dependsOn, depIdx)
			nodes[depIdx].dependedOn = append(nodes[depIdx].dependedOn, i)
		}
	}

	less := func(nodes []*node) func(a, b int) bool {
		return func(a, b int) bool {
			ra, rb := nodes[a].record, nodes[b].record
			if ra.Priority != rb.Priority {
				return ra.Priority > rb.Priority
			}
			return strings.Compare(ra.UUID.String(), rb.UUID.String()) < 0
		}
	}(nodes)

	for _, n := range nodes {
		sort.Slice(n.overriddenBy, func(i, j int) bool { return less(n.overriddenBy[i], n.overriddenBy[j]) })
		sort.Slice(n.dependsOn, func(i, j int) bool { return less(n.dependsOn[i], n.dependsOn[j]) })
	}

	if err := detectDependencyCycle(nodes); err != nil {
		return nil, err
	}

	leafIdx := make([]int, 0, len(nodes))
	for i, n := range nodes {
		if n.overrides == nil && len(n.dependedOn) == 0 {
			leafIdx = append(leafIdx, i)
		}
	}
	sort.Slice(leafIdx, func(i, j int) bool { return less(leafIdx[i], leafIdx[j]) })

	memo := make([][]uuid.UUID, len(nodes))
	var global []uuid.UUID
	for _, l := range leafIdx {
		sp := computeSearchPath(nodes, l, memo)
		global = append(global, sp...)
	}
	global = dedupeFirstOccurrence(global)

	for i, n := range nodes {
		if memo[i] == nil {
			return nil, gngerrors.Newf(gngerrors.Repository, "repository %q has no computable search path", n.record.Name)
		}
		n.searchPath = memo[i]
	}

	return &Graph{nodes: nodes, byUUID: byUUID, leafOrder: leafIdx, global: global}, nil
}

func computeSearchPath(nodes []*node, idx int, memo [][]uuid.UUID) []uuid.UUID {
	if memo[idx] != nil {
		return memo[idx]
	}

	chain := make([]uuid.UUID, 0, len(nodes[idx].overriddenBy)+1)
	for _, o := range nodes[idx].overriddenBy {
		chain = append(chain, nodes[o].record.UUID)
	}
	chain = append(chain, nodes[idx].record.UUID)

	result := append([]uuid.UUID(nil), chain...)
	for _, dep := range nodes[idx].dependsOn {
		result = append(result, computeSearchPath(nodes, dep, memo)...)
	}
	result = dedupeFirstOccurrence(result)

	memo[idx] = result
	for _, o := range nodes[idx].overriddenBy {
		memo[o] = result
	}
	return result
}

func dedupeFirstOccurrence(in []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(in))
	out := make([]uuid.UUID, 0, len(in))
	for _, u := range in {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

func detectDependencyCycle(nodes []*node) error {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(nodes))

	var visit func(idx int) error
	visit = func(idx int) error {
		color[idx] = gray
		for _, dep := range nodes[idx].dependsOn {
			switch color[dep] {
			case gray:
				return gngerrors.Newf(gngerrors.Repository, "repository %q produces a dependency loop", nodes[idx].record.Name)
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		color[idx] = black
		return nil
	}

	for i := range nodes {
		if color[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRecords(records []Record) error {
	knownNames := make(map[string]bool, len(records))
	knownUUIDs := make(map[uuid.UUID]bool, len(records))
	var localDirs []string
	knownRemoteURLs := make(map[string]bool, len(records))

	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
		if knownNames[r.Name.String()] {
			return gngerrors.Newf(gngerrors.Repository, "repository name %q is not unique", r.Name)
		}
		knownNames[r.Name.String()] = true

		if knownUUIDs[r.UUID] {
			return gngerrors.Newf(gngerrors.Repository, "repository uuid %q is not unique", r.UUID)
		}
		knownUUIDs[r.UUID] = true

		switch r.Source.Kind {
		case SourceLocal:
			for _, other := range localDirs {
				if isPathPrefix(other, r.Source.SourcesBaseDirectory) || isPathPrefix(r.Source.SourcesBaseDirectory, other) {
					return gngerrors.Newf(gngerrors.Repository, "repository %q has a sources_base_directory that conflicts with another local repository", r.Name)
				}
			}
			localDirs = append(localDirs, r.Source.SourcesBaseDirectory)
		case SourceRemote:
			if knownRemoteURLs[r.Source.RemoteURL] {
				return gngerrors.Newf(gngerrors.Repository, "repository %q has a duplicate remote_url", r.Name)
			}
			knownRemoteURLs[r.Source.RemoteURL] = true
		}
	}
	return nil
}

// Resolve parses input as a uuid first, falling back to a repository name.
func (g *Graph) Resolve(input string) (Record, bool) {
	if id, err := uuid.Parse(input); err == nil {
		if idx, ok := g.byUUID[id]; ok {
			return g.nodes[idx].record, true
		}
		return Record{}, false
	}
	for _, n := range g.nodes {
		if n.record.Name.String() == input {
			return n.record, true
		}
	}
	return Record{}, false
}

// RepositoryForSourcePath returns the unique local repository whose
// sources_base_directory is a prefix of path.
func (g *Graph) RepositoryForSourcePath(path string) (Record, bool) {
	for _, n := range g.nodes {
		if n.record.Source.Kind == SourceLocal && isPathPrefix(n.record.Source.SourcesBaseDirectory, path) {
			return n.record, true
		}
	}
	return Record{}, false
}

// SearchPath returns the node's own search path: its override chain
// (topmost overrider down to its base) followed by its dependency closure,
// deduplicated by first occurrence.
func (g *Graph) SearchPath(id uuid.UUID) ([]uuid.UUID, bool) {
	idx, ok := g.byUUID[id]
	if !ok {
		return nil, false
	}
	return append([]uuid.UUID(nil), g.nodes[idx].searchPath...), true
}

// GlobalSearchPath returns the ordered, deduplicated concatenation of every
// leaf node's search path, leaves visited in priority-descending order.
func (g *Graph) GlobalSearchPath() []uuid.UUID {
	return append([]uuid.UUID(nil), g.global...)
}

// Records returns every repository record, sorted by descending priority
// then ascending uuid.
func (g *Graph) Records() []Record {
	out := make([]Record, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.record
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return strings.Compare(out[i].UUID.String(), out[j].UUID.String()) < 0
	})
	return out
}

// Leaves returns the non-override nodes with no incoming dependency edge,
// in priority-descending order.
func (g *Graph) Leaves() []Record {
	out := make([]Record, 0, len(g.leafOrder))
	for _, idx := range g.leafOrder {
		out = append(out, g.nodes[idx].record)
	}
	return out
}
