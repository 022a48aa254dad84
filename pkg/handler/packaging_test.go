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
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/identifier"
	"github.com/gng-project/gng/pkg/sourcepacket"
)

func writeInstallFile(t *testing.T, installDir, relPath string, data []byte) {
	t.Helper()
	full := filepath.Join(installDir, "usr", relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func TestPackagingDriver_IgnoresOtherPhases(t *testing.T) {
	cell := NewRecipeCell()
	driver := NewPackagingDriver(cell, t.TempDir(), t.TempDir())
	require.NoError(t, driver.Cleanup(agent.PhaseBuild))
	assert.Empty(t, driver.Produced)
}

func TestPackagingDriver_RequiresParsedRecipe(t *testing.T) {
	driver := NewPackagingDriver(NewRecipeCell(), t.TempDir(), t.TempDir())
	assert.Error(t, driver.Cleanup(agent.PhasePackage))
}

func TestPackagingDriver_ProducesOneArchivePerPacket(t *testing.T) {
	installDir := t.TempDir()
	outputDir := t.TempDir()
	writeInstallFile(t, installDir, "bin/foo", []byte("binary"))
	writeInstallFile(t, installDir, "share/doc/foo/README", []byte("docs"))

	cell := NewRecipeCell()
	cell.Set(&sourcepacket.SourcePacket{
		Name:    identifier.MustName("foo"),
		Version: identifier.MustVersion(0, "1", ""),
		Packets: []sourcepacket.PacketDefinition{
			{Name: identifier.MustName("foo"), Description: "d"},
		},
	})

	driver := NewPackagingDriver(cell, installDir, outputDir)
	require.NoError(t, driver.Cleanup(agent.PhasePackage))
	require.Len(t, driver.Produced, 1)

	r := archive.NewReader(driver.Produced[0])
	contents, err := r.Contents()
	require.NoError(t, err)
	var names []string
	for _, c := range contents {
		names = append(names, c.Path)
	}
	assert.Contains(t, names, "bin/foo")
	assert.Contains(t, names, "share/doc/foo/README")
}

func TestPackagingDriver_RoutesDeclaredFacetIntoItsOwnArchive(t *testing.T) {
	installDir := t.TempDir()
	outputDir := t.TempDir()
	writeInstallFile(t, installDir, "bin/foo", []byte("binary"))
	writeInstallFile(t, installDir, "share/doc/foo/README", []byte("docs"))

	cell := NewRecipeCell()
	cell.Set(&sourcepacket.SourcePacket{
		Name:    identifier.MustName("foo"),
		Version: identifier.MustVersion(0, "1", ""),
		Packets: []sourcepacket.PacketDefinition{
			{
				Name:        identifier.MustName("foo"),
				Description: "d",
				Facet: &sourcepacket.FacetDefinition{
					DescriptionSuffix: "documentation",
					Files:             []string{"share/doc/**"},
				},
			},
		},
	})

	driver := NewPackagingDriver(cell, installDir, outputDir)
	require.NoError(t, driver.Cleanup(agent.PhasePackage))
	sort.Strings(driver.Produced)
	require.Len(t, driver.Produced, 2)

	mainReader := archive.NewReader(driver.Produced[0])
	mainContents, err := mainReader.Contents()
	require.NoError(t, err)
	var mainNames []string
	for _, c := range mainContents {
		mainNames = append(mainNames, c.Path)
	}
	assert.Contains(t, mainNames, "bin/foo")
	assert.NotContains(t, mainNames, "share/doc/foo/README")

	facetReader := archive.NewReader(driver.Produced[1])
	facetContents, err := facetReader.Contents()
	require.NoError(t, err)
	var facetNames []string
	for _, c := range facetContents {
		facetNames = append(facetNames, c.Path)
	}
	assert.Contains(t, facetNames, "share/doc/foo/README")
	assert.NotContains(t, facetNames, "bin/foo")
}

func TestPackagingDriver_UnmatchedFileFailsPackaging(t *testing.T) {
	installDir := t.TempDir()
	outputDir := t.TempDir()
	writeInstallFile(t, installDir, "bin/foo", []byte("binary"))

	cell := NewRecipeCell()
	cell.Set(&sourcepacket.SourcePacket{
		Name:    identifier.MustName("foo"),
		Version: identifier.MustVersion(0, "1", ""),
		Packets: []sourcepacket.PacketDefinition{
			{Name: identifier.MustName("foo"), Description: "d", Files: []string{"lib/**"}},
		},
	})

	driver := NewPackagingDriver(cell, installDir, outputDir)
	assert.Error(t, driver.Cleanup(agent.PhasePackage))
}
