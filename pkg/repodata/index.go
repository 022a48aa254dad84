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

package repodata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// indexFileName is the per-repository data file's name, placed directly
// inside the repository directory passed to Open (spec §4.10).
const indexFileName = "repository.json"

// Index is one repository's packet index, backed by an append-only,
// newline-delimited JSON file. Entries are immutable once loaded; mutation
// only happens by applying a Transaction.
type Index struct {
	directory string
	entries   []Entry
}

// Open loads the index for the repository rooted at directory. A missing
// data file is not an error when createIfMissing is set: the repository
// driver's "--from-scratch" start (spec §6).
func Open(directory string, createIfMissing bool) (*Index, error) {
	path := filepath.Join(directory, indexFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if !createIfMissing {
			return nil, gngerrors.Wrapf(gngerrors.Io, err, "repository data file %q does not exist", path)
		}
		return &Index{directory: directory}, nil
	}
	if err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to read repository data file %q", path)
	}

	entries, err := decodeEntries(data, path)
	if err != nil {
		return nil, err
	}
	return &Index{directory: directory, entries: entries}, nil
}

func decodeEntries(data []byte, path string) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Repository, err, "failed to parse repository data file %q", path)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to read repository data file %q", path)
	}
	return entries, nil
}

// Entries returns every indexed packet entry, in sorted order.
func (ix *Index) Entries() []Entry {
	return append([]Entry(nil), ix.entries...)
}

// Begin starts a transaction against this index.
func (ix *Index) Begin() *Transaction {
	return &Transaction{index: ix, toRemove: make(map[string]bool)}
}

// save atomically rewrites the repository data file: write to a temporary
// file in the same directory, then rename over the target.
func (ix *Index) save() error {
	path := filepath.Join(ix.directory, indexFileName)

	tmp, err := os.CreateTemp(ix.directory, ".repository-*.json")
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create temporary repository data file in %q", ix.directory)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	w := bufio.NewWriter(tmp)
	for _, e := range ix.entries {
		data, err := json.Marshal(e)
		if err != nil {
			tmp.Close()
			return gngerrors.Wrapf(gngerrors.Repository, err, "failed to serialize repository data entry for %q", e.Name)
		}
		if _, err := w.Write(data); err != nil {
			tmp.Close()
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to write repository data file %q", tmpPath)
		}
		if err := w.WriteByte('\n'); err != nil {
			tmp.Close()
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to write repository data file %q", tmpPath)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to flush repository data file %q", tmpPath)
	}
	if err := tmp.Close(); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to close temporary repository data file %q", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to replace repository data file %q", path)
	}
	return nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return less(entries[i], entries[j]) })
}
