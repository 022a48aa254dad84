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
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/identifier"
)

func dirEntry(path string) *Entry {
	return &Entry{Path: path, Kind: KindDirectory, Mode: 0o755}
}

func fileEntry(path string, data []byte) *Entry {
	return &Entry{Path: path, Kind: KindFile, Mode: 0o644, Size: int64(len(data)), Buffer: data}
}

// TestPackager_FacetRouting mirrors the facet-routing scenario: packet "foo"
// with a catch-all filter, facets f1/unused/f2/main, and entries under f1/
// and f2/ only.
func TestPackager_FacetRouting(t *testing.T) {
	version := identifier.MustVersion(0, "1", "")
	outputDir := t.TempDir()

	packets := []PacketDefinition{
		{
			Name:    identifier.MustName("foo"),
			Version: version,
			Filter:  AlwaysTrue(),
			Policy:  archive.MayHaveContents,
		},
	}
	f1 := identifier.MustName("f1")
	unused := identifier.MustName("unused")
	f2 := identifier.MustName("f2")
	facets := []FacetDefinition{
		{Name: &f1, Filter: Glob("f1", "f1/**")},
		{Name: &unused, Filter: Glob("unused", "unused/**")},
		{Name: &f2, Filter: Glob("f2", "f2/**")},
		{Name: nil, Filter: AlwaysTrue()},
	}

	p, err := Build(outputDir, packets, facets)
	require.NoError(t, err)

	require.NoError(t, p.Package(dirEntry("f1")))
	require.NoError(t, p.Package(fileEntry("f1/foo", []byte("x"))))
	require.NoError(t, p.Package(dirEntry("f2")))
	require.NoError(t, p.Package(fileEntry("f2/bar", []byte("y"))))

	paths, err := p.Finish()
	require.NoError(t, err)
	sort.Strings(paths)

	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(outputDir, "foo-f1-1.gng"), paths[0])
	assert.Equal(t, filepath.Join(outputDir, "foo-f2-1.gng"), paths[1])

	r := archive.NewReader(paths[0])
	contents, err := r.Contents()
	require.NoError(t, err)
	var names []string
	for _, c := range contents {
		names = append(names, c.Path)
	}
	assert.Contains(t, names, "f1")
	assert.Contains(t, names, "f1/foo")

	r2 := archive.NewReader(paths[1])
	contents2, err := r2.Contents()
	require.NoError(t, err)
	names = nil
	for _, c := range contents2 {
		names = append(names, c.Path)
	}
	assert.Contains(t, names, "f2")
	assert.Contains(t, names, "f2/bar")
}

func singlePacketPackager(t *testing.T, policy archive.ContentsPolicy) *Packager {
	t.Helper()
	p, err := Build(t.TempDir(), []PacketDefinition{
		{
			Name:    identifier.MustName("foo"),
			Version: identifier.MustVersion(0, "1", ""),
			Filter:  AlwaysTrue(),
			Policy:  policy,
		},
	}, []FacetDefinition{{Name: nil, Filter: AlwaysTrue()}})
	require.NoError(t, err)
	return p
}

func TestPackager_RejectsLocalPaths(t *testing.T) {
	p := singlePacketPackager(t, archive.MayHaveContents)
	err := p.Package(fileEntry("local/admin.conf", []byte("x")))
	assert.Error(t, err)
}

func TestPackager_UnmatchedPathFails(t *testing.T) {
	p, err := Build(t.TempDir(), []PacketDefinition{
		{
			Name:    identifier.MustName("foo"),
			Version: identifier.MustVersion(0, "1", ""),
			Filter:  AlwaysFalse(),
			Policy:  archive.MayHaveContents,
		},
	}, []FacetDefinition{{Name: nil, Filter: AlwaysTrue()}})
	require.NoError(t, err)

	err = p.Package(fileEntry("foo.txt", []byte("x")))
	assert.Error(t, err)
}

func TestPackager_MustHaveContentsFailsWhenEmpty(t *testing.T) {
	p := singlePacketPackager(t, archive.MustHaveContents)
	_, err := p.Finish()
	assert.Error(t, err)
}

func TestBuild_RequiresCatchAllLast(t *testing.T) {
	named := identifier.MustName("f1")
	_, err := Build(t.TempDir(), nil, []FacetDefinition{{Name: &named, Filter: AlwaysTrue()}})
	assert.Error(t, err)
}

func TestFilters(t *testing.T) {
	e := fileEntry("usr/foo", []byte("x"))

	ok, err := AlwaysTrue().Matches(e)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = AlwaysFalse().Matches(e)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = And(AlwaysTrue(), AlwaysFalse()).Matches(e)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Or(AlwaysFalse(), AlwaysTrue()).Matches(e)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Glob("usr/*").Matches(e)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Glob("other/*").Matches(e)
	require.NoError(t, err)
	assert.False(t, ok)
}
