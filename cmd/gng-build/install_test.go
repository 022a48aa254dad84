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

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/identifier"
	"github.com/gng-project/gng/pkg/repodata"
	"github.com/gng-project/gng/pkg/repository"
)

func TestNewRepoInstaller_NoConfigDirectoryIsANoOp(t *testing.T) {
	ri, err := newRepoInstaller("")
	require.NoError(t, err)
	require.NoError(t, ri.Install(identifier.Names{}, t.TempDir()))
}

func TestRepoInstaller_InstallFailsWithoutConfigWhenDepsAreDeclared(t *testing.T) {
	ri, err := newRepoInstaller("")
	require.NoError(t, err)

	names := identifier.NewNames(identifier.MustName("libfoo"))
	err = ri.Install(names, t.TempDir())
	require.Error(t, err)
}

func TestRepoInstaller_Install_ExtractsResolvedPacket(t *testing.T) {
	repoDir := t.TempDir()

	version := identifier.MustVersion(0, "1.0.0", "1")
	metadata := []byte(`{"name":"libfoo","description":"a lib"}`)
	w := archive.NewWriter(repoDir, "libfoo", "", version, metadata, archive.MayHaveContents)
	require.NoError(t, w.AddBuffer("lib/libfoo.so", []byte("binary"), 0o644, 0, 0))
	_, err := w.Finish()
	require.NoError(t, err)

	index, err := repodata.Open(repoDir, true)
	require.NoError(t, err)
	tx := index.Begin()
	require.NoError(t, tx.AddPacketFile(filepath.Join(repoDir, "libfoo-1.0.0-1.gng")))
	require.NoError(t, tx.Apply())

	record := repository.Record{
		Name:     identifier.MustName("core"),
		UUID:     uuid.New(),
		Priority: 100,
		Source:   repository.Source{Kind: repository.SourceLocal, SourcesBaseDirectory: repoDir, ExportDirectory: repoDir},
		Relation: repository.Relation{Kind: repository.RelationDependency},
	}
	graph, err := repository.NewGraph([]repository.Record{record})
	require.NoError(t, err)

	ri := &repoInstaller{graph: graph}
	rootDir := t.TempDir()
	names := identifier.NewNames(identifier.MustName("libfoo"))
	require.NoError(t, ri.Install(names, rootDir))

	data, err := os.ReadFile(filepath.Join(rootDir, "usr", "lib", "libfoo.so"))
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))
}

func TestRepoInstaller_Install_FailsWhenNoRepositoryProvidesTheName(t *testing.T) {
	repoDir := t.TempDir()
	record := repository.Record{
		Name:     identifier.MustName("core"),
		UUID:     uuid.New(),
		Priority: 100,
		Source:   repository.Source{Kind: repository.SourceLocal, SourcesBaseDirectory: repoDir, ExportDirectory: repoDir},
		Relation: repository.Relation{Kind: repository.RelationDependency},
	}
	graph, err := repository.NewGraph([]repository.Record{record})
	require.NoError(t, err)

	ri := &repoInstaller{graph: graph}
	names := identifier.NewNames(identifier.MustName("missing"))
	err = ri.Install(names, t.TempDir())
	require.Error(t, err)
}
