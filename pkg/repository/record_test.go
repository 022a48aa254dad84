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
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/identifier"
)

func localRecord(name string, priority uint32, sourcesDir string) Record {
	return Record{
		Name:     identifier.MustName(name),
		UUID:     uuid.New(),
		Priority: priority,
		Source:   Source{Kind: SourceLocal, SourcesBaseDirectory: sourcesDir},
		Relation: Relation{Kind: RelationDependency},
	}
}

func TestRecord_ValidateRejectsLocalWithoutSourcesDirectory(t *testing.T) {
	r := localRecord("base", 100, "")
	assert.Error(t, r.Validate())
}

func TestRecord_ValidateRejectsRemoteWithBadScheme(t *testing.T) {
	r := Record{
		Name:     identifier.MustName("remote"),
		UUID:     uuid.New(),
		Source:   Source{Kind: SourceRemote, RemoteURL: "ftp://example.com"},
		Relation: Relation{Kind: RelationDependency},
	}
	assert.Error(t, r.Validate())
}

func TestRecord_ValidateAcceptsHTTPSAndFileRemotes(t *testing.T) {
	for _, scheme := range []string{"https://example.com/repo", "http://example.com/repo", "file:///srv/repo"} {
		r := Record{
			Name:     identifier.MustName("remote"),
			UUID:     uuid.New(),
			Source:   Source{Kind: SourceRemote, RemoteURL: scheme},
			Relation: Relation{Kind: RelationDependency},
		}
		assert.NoError(t, r.Validate(), scheme)
	}
}

func TestRecord_ValidateRejectsDuplicateDependencyTarget(t *testing.T) {
	dep := uuid.New()
	r := localRecord("base", 100, "/src/base")
	r.Relation = Relation{Kind: RelationDependency, DependencyTargets: []uuid.UUID{dep, dep}}
	assert.Error(t, r.Validate())
}

func TestRecord_JSONRoundTripLocalDependency(t *testing.T) {
	dep := uuid.New()
	r := localRecord("base", 1500, "/src/base")
	r.Relation = Relation{Kind: RelationDependency, DependencyTargets: []uuid.UUID{dep}}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var out Record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, r.Name, out.Name)
	assert.Equal(t, r.UUID, out.UUID)
	assert.Equal(t, r.Priority, out.Priority)
	assert.Equal(t, r.Source, out.Source)
	assert.Equal(t, r.Relation, out.Relation)
}

func TestRecord_JSONRoundTripOverrideAndRemote(t *testing.T) {
	target := uuid.New()
	r := Record{
		Name:     identifier.MustName("mirror"),
		UUID:     uuid.New(),
		Priority: 10,
		Source:   Source{Kind: SourceRemote, RemoteURL: "https://example.com/repo", PacketsURL: "https://example.com/packets"},
		Relation: Relation{Kind: RelationOverride, OverrideTarget: target},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var out Record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, r, out)
}

func TestIsPathPrefix(t *testing.T) {
	assert.True(t, isPathPrefix("/src/base", "/src/base"))
	assert.True(t, isPathPrefix("/src/base", "/src/base/pkg"))
	assert.False(t, isPathPrefix("/src/base", "/src/basement"))
	assert.False(t, isPathPrefix("/src/base/pkg", "/src/base"))
}
