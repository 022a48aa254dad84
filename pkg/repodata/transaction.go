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
	"path/filepath"
	"strings"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// Transaction collects add/remove/clear operations against an Index.
// Nothing is visible to readers of the index until Apply succeeds.
type Transaction struct {
	index *Index

	toApply  []Entry
	toRemove map[string]bool
	doClear  bool
}

// Clear drops every previously queued operation and marks the transaction
// to replace the whole index with only what it goes on to add.
func (tx *Transaction) Clear() {
	tx.doClear = true
	tx.toApply = nil
	tx.toRemove = make(map[string]bool)
}

// Remove queues every entry named name for removal.
func (tx *Transaction) Remove(name identifier.Name) {
	tx.toRemove[name.String()] = true
}

// AddPacketFile opens the packet archive at path, reads its metadata via
// the archive codec, and queues it for addition. path may be absolute or
// relative to the current working directory; it must resolve to a file
// inside the repository directory, since the recorded relative_file_path
// is what other drivers use to locate the packet from the data file
// (spec §4.10).
func (tx *Transaction) AddPacketFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to resolve packet file %q", path)
	}
	absDir, err := filepath.Abs(tx.index.directory)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to resolve repository directory %q", tx.index.directory)
	}

	relPath, err := filepath.Rel(absDir, absPath)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return gngerrors.Newf(gngerrors.Repository, "packet file %q must be inside repository directory %q", path, tx.index.directory)
	}

	entry, err := entryFromPacketFile(absPath, filepath.ToSlash(relPath))
	if err != nil {
		return err
	}

	// Adding a packet always supersedes every existing entry for its name,
	// matching how the repository driver replaces stale versions in one
	// invocation rather than accumulating every version ever published.
	tx.toRemove[entry.Name.String()] = true
	tx.toApply = append(tx.toApply, entry)
	return nil
}

// Apply computes the new ordered entry set and atomically rewrites the
// repository data file. On success the index's in-memory entries reflect
// the new state; on failure the index and the on-disk file are unchanged.
func (tx *Transaction) Apply() error {
	var kept []Entry
	if !tx.doClear {
		for _, e := range tx.index.entries {
			if !tx.toRemove[e.Name.String()] {
				kept = append(kept, e)
			}
		}
	}
	kept = append(kept, tx.toApply...)
	sortEntries(kept)

	previous := tx.index.entries
	tx.index.entries = kept
	if err := tx.index.save(); err != nil {
		tx.index.entries = previous
		return err
	}
	return nil
}
