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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/identifier"
)

func dependentRecord(name string, id uuid.UUID, deps []uuid.UUID, priority uint32) Record {
	return Record{
		Name:     identifier.MustName(name),
		UUID:     id,
		Priority: priority,
		Source:   Source{Kind: SourceLocal, SourcesBaseDirectory: "/src/" + name},
		Relation: Relation{Kind: RelationDependency, DependencyTargets: deps},
	}
}

func overrideRecord(name string, id uuid.UUID, overrides uuid.UUID, priority uint32) Record {
	return Record{
		Name:     identifier.MustName(name),
		UUID:     id,
		Priority: priority,
		Source:   Source{Kind: SourceLocal, SourcesBaseDirectory: "/src/" + name},
		Relation: Relation{Kind: RelationOverride, OverrideTarget: overrides},
	}
}

func TestNewGraph_RejectsDuplicateName(t *testing.T) {
	a := dependentRecord("base", uuid.New(), nil, 100)
	b := dependentRecord("base", uuid.New(), nil, 1500)
	_, err := NewGraph([]Record{a, b})
	assert.Error(t, err)
}

func TestNewGraph_RejectsDuplicateUUID(t *testing.T) {
	id := uuid.New()
	a := dependentRecord("base", id, nil, 100)
	b := dependentRecord("ext", id, nil, 1500)
	_, err := NewGraph([]Record{a, b})
	assert.Error(t, err)
}

func TestNewGraph_RejectsUnknownDependency(t *testing.T) {
	a := dependentRecord("base", uuid.New(), []uuid.UUID{uuid.New()}, 100)
	_, err := NewGraph([]Record{a})
	assert.Error(t, err)
}

func TestNewGraph_RejectsDependencyLoop(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	a := dependentRecord("base", u2, []uuid.UUID{u1}, 100)
	b := dependentRecord("ext", u1, []uuid.UUID{u2}, 1500)
	_, err := NewGraph([]Record{a, b})
	assert.Error(t, err)
}

func TestNewGraph_RejectsOverrideLoop(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	a := overrideRecord("base", u2, u1, 100)
	b := overrideRecord("ext", u1, u2, 1500)
	_, err := NewGraph([]Record{a, b})
	assert.Error(t, err)
}

func TestNewGraph_RejectsDependencyOnOverride(t *testing.T) {
	base := uuid.New()
	over := uuid.New()
	dependent := uuid.New()
	records := []Record{
		dependentRecord("base", base, nil, 100),
		overrideRecord("over", over, base, 1500),
		dependentRecord("dependent", dependent, []uuid.UUID{over}, 1500),
	}
	_, err := NewGraph(records)
	assert.Error(t, err)
}

func TestNewGraph_RejectsLocalSourcesDirectoryConflict(t *testing.T) {
	a := dependentRecord("base", uuid.New(), nil, 100)
	a.Source.SourcesBaseDirectory = "/src/shared"
	b := dependentRecord("ext", uuid.New(), nil, 1500)
	b.Source.SourcesBaseDirectory = "/src/shared/nested"
	_, err := NewGraph([]Record{a, b})
	assert.Error(t, err)
}

// TestNewGraph_LineSearchPath mirrors a single base repository overridden
// once, depended on transitively by a chain of three more overridden bases.
func TestNewGraph_LineSearchPath(t *testing.T) {
	u0 := uuid.New()
	u1 := uuid.New()
	u1o0 := uuid.New()
	u2 := uuid.New()
	u2o0 := uuid.New()
	u2o1 := uuid.New()
	u3 := uuid.New()
	u3o0 := uuid.New()

	records := []Record{
		dependentRecord("r3", u3, []uuid.UUID{u2}, 1500),
		overrideRecord("r1o0", u1o0, u1, 10000),
		overrideRecord("r2o1", u2o1, u2, 2000),
		dependentRecord("r1", u1, []uuid.UUID{u0}, 1500),
		overrideRecord("r2o0", u2o0, u2, 15000),
		dependentRecord("r0", u0, nil, 1500),
		dependentRecord("r2", u2, []uuid.UUID{u1}, 1500),
		overrideRecord("r3o0", u3o0, u3, 150),
	}

	g, err := NewGraph(records)
	require.NoError(t, err)

	leaves := g.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, u3, leaves[0].UUID)

	sp, ok := g.SearchPath(u3)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{u3o0, u3, u2o0, u2o1, u2, u1o0, u1, u0}, sp)

	assert.Equal(t, sp, g.GlobalSearchPath())
}

// TestNewGraph_DiamondSearchPath mirrors a diamond dependency with an
// override hanging off one of its branches.
func TestNewGraph_DiamondSearchPath(t *testing.T) {
	u0 := uuid.New()
	u1 := uuid.New()
	u2left0 := uuid.New()
	u2left1 := uuid.New()
	u2right0 := uuid.New()
	u2right0o0 := uuid.New()
	u3 := uuid.New()

	records := []Record{
		dependentRecord("r0", u0, nil, 1500),
		dependentRecord("r1", u1, []uuid.UUID{u0}, 1500),
		dependentRecord("r2l0", u2left0, []uuid.UUID{u1}, 1500),
		dependentRecord("r2l1", u2left1, []uuid.UUID{u2left0}, 5100),
		dependentRecord("r2r0", u2right0, []uuid.UUID{u1}, 1500),
		overrideRecord("r2r0o0", u2right0o0, u2right0, 99),
		dependentRecord("r3", u3, []uuid.UUID{u2left1, u2right0}, 1500),
	}

	g, err := NewGraph(records)
	require.NoError(t, err)

	leaves := g.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, u3, leaves[0].UUID)

	sp, ok := g.SearchPath(u3)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{u3, u2left1, u2left0, u1, u0, u2right0o0, u2right0}, sp)
}

func TestGraph_ResolveByUUIDAndName(t *testing.T) {
	id := uuid.New()
	records := []Record{dependentRecord("base", id, nil, 100)}
	g, err := NewGraph(records)
	require.NoError(t, err)

	byUUID, ok := g.Resolve(id.String())
	require.True(t, ok)
	assert.Equal(t, "base", byUUID.Name.String())

	byName, ok := g.Resolve("base")
	require.True(t, ok)
	assert.Equal(t, id, byName.UUID)

	_, ok = g.Resolve("missing")
	assert.False(t, ok)
}

func TestGraph_RepositoryForSourcePath(t *testing.T) {
	a := dependentRecord("base", uuid.New(), nil, 100)
	a.Source.SourcesBaseDirectory = "/src/base"
	g, err := NewGraph([]Record{a})
	require.NoError(t, err)

	found, ok := g.RepositoryForSourcePath("/src/base/mypkg")
	require.True(t, ok)
	assert.Equal(t, "base", found.Name.String())

	_, ok = g.RepositoryForSourcePath("/other/path")
	assert.False(t, ok)
}

func TestGraph_RecordsSortedByPriorityDescThenUUIDAsc(t *testing.T) {
	low := dependentRecord("low", uuid.New(), nil, 10)
	high := dependentRecord("high", uuid.New(), nil, 1000)
	g, err := NewGraph([]Record{low, high})
	require.NoError(t, err)

	records := g.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "high", records[0].Name.String())
	assert.Equal(t, "low", records[1].Name.String())
}
