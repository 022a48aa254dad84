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

package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/identifier"
)

func mustVersion(t *testing.T) identifier.Version {
	t.Helper()
	v, err := identifier.NewVersion(0, "1.0.0", "1")
	require.NoError(t, err)
	return v
}

func TestWriter_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MayHaveContents)

	require.NoError(t, w.AddDirectory("foo", 0o755, 0, 0))
	require.NoError(t, w.AddBuffer("foo/test.data", []byte("test data\n"), 0o644, 0, 0))

	path, err := w.Finish()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "example-1.0.0-1.gng"), path)

	extractRoot := t.TempDir()
	r := NewReader(path)
	metadata, err := r.Extract(extractRoot)
	require.NoError(t, err)
	assert.Equal(t, []byte("M"), metadata)

	metaBytes, err := os.ReadFile(filepath.Join(extractRoot, "usr", ".gng", "example.meta"))
	require.NoError(t, err)
	assert.Equal(t, []byte("M"), metaBytes)

	info, err := os.Stat(filepath.Join(extractRoot, "usr", "foo"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	data, err := os.ReadFile(filepath.Join(extractRoot, "usr", "foo", "test.data"))
	require.NoError(t, err)
	assert.Equal(t, "test data\n", string(data))

	fileInfo, err := os.Stat(filepath.Join(extractRoot, "usr", "foo", "test.data"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fileInfo.Mode().Perm())
}

func TestWriter_MetadataIsStableAcrossReads(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte(`{"name":"example"}`), MayHaveContents)
	require.NoError(t, w.AddBuffer("foo.txt", []byte("hi"), 0o644, 0, 0))
	path, err := w.Finish()
	require.NoError(t, err)

	r := NewReader(path)
	first, err := r.RawMetadata()
	require.NoError(t, err)
	second, err := r.RawMetadata()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriter_DeterministicAcrossRuns(t *testing.T) {
	build := func() []byte {
		dir := t.TempDir()
		w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MayHaveContents)
		require.NoError(t, w.AddDirectory("foo", 0o755, 0, 0))
		require.NoError(t, w.AddBuffer("foo/test.data", []byte("test data\n"), 0o644, 0, 0))
		path, err := w.Finish()
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		return data
	}

	first := build()
	second := build()
	assert.Equal(t, first, second)
}

func TestWriter_MustStayEmpty_RejectsContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MustStayEmpty)
	require.NoError(t, w.AddBuffer("foo.txt", []byte("hi"), 0o644, 0, 0))

	_, err := w.Finish()
	assert.Error(t, err)
}

func TestWriter_MustStayEmpty_AllowsNoContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MustStayEmpty)

	path, err := w.Finish()
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriter_MustHaveContents_RejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MustHaveContents)

	_, err := w.Finish()
	assert.Error(t, err)
}

func TestWriter_MayHaveContents_AllowsEmpty(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MayHaveContents)

	path, err := w.Finish()
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestWriter_Finish_Twice(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "", mustVersion(t), []byte("M"), MayHaveContents)
	require.NoError(t, w.AddBuffer("foo.txt", []byte("hi"), 0o644, 0, 0))

	_, err := w.Finish()
	require.NoError(t, err)

	_, err = w.Finish()
	assert.Error(t, err)
}

func TestWriter_FacetedName(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "example", "debug", mustVersion(t), []byte("M"), MustStayEmpty)
	path, err := w.Finish()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "example-debug-1.0.0-1.gng"), path)
}
