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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRecordFile(t *testing.T, dir, filename string, r Record) {
	t.Helper()
	data, err := r.MarshalJSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), data, 0o644))
}

func TestLoadDirectory_ReadsConfFilesInLexicographicOrder(t *testing.T) {
	dir := t.TempDir()
	a := localRecord("alpha", 100, "/src/alpha")
	b := localRecord("beta", 100, "/src/beta")

	writeRecordFile(t, dir, "b-beta.conf", b)
	writeRecordFile(t, dir, "a-alpha.conf", a)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not a record"), 0o644))

	records, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alpha", records[0].Name.String())
	assert.Equal(t, "beta", records[1].Name.String())
}

func TestLoadDirectory_RejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.conf"), []byte("{not json"), 0o644))

	_, err := LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_RejectsMissingDirectory(t *testing.T) {
	_, err := LoadDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestOpen_LoadsAndBuildsGraph(t *testing.T) {
	dir := t.TempDir()
	base := localRecord("base", 100, "/src/base")
	dependent := localRecord("dependent", 100, "/src/dependent")
	dependent.Relation = Relation{Kind: RelationDependency, DependencyTargets: []uuid.UUID{base.UUID}}

	writeRecordFile(t, dir, "0-base.conf", base)
	writeRecordFile(t, dir, "1-dependent.conf", dependent)

	g, err := Open(dir)
	require.NoError(t, err)

	leaves := g.Leaves()
	require.Len(t, leaves, 1)
	assert.Equal(t, dependent.UUID, leaves[0].UUID)

	sp, ok := g.SearchPath(dependent.UUID)
	require.True(t, ok)
	assert.Equal(t, []uuid.UUID{dependent.UUID, base.UUID}, sp)
}

func TestOpen_PropagatesGraphValidationError(t *testing.T) {
	dir := t.TempDir()
	a := localRecord("dup", 100, "/src/dup")
	b := localRecord("dup", 200, "/src/other")
	writeRecordFile(t, dir, "0-a.conf", a)
	writeRecordFile(t, dir, "1-b.conf", b)

	_, err := Open(dir)
	assert.Error(t, err)
}
