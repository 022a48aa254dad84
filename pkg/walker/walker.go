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

package walker

import (
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// Kind classifies a walked Entry.
type Kind int

const (
	// KindDirectory is a directory node, always emitted before its children.
	KindDirectory Kind = iota
	// KindFile is a regular file.
	KindFile
	// KindSymlink is a symbolic link, reported with its target unresolved.
	KindSymlink
)

// Entry is one item yielded by the walker.
type Entry struct {
	// RelativePath is the entry's path relative to the walked root, using '/' separators.
	RelativePath string
	Kind         Kind
	// Mode holds the permission bits only (mode & 0o7777).
	Mode uint32
	UID  uint32
	GID  uint32
	// Size is the on-disk size for regular files; zero otherwise.
	Size int64
	// AbsolutePath is the entry's absolute on-disk location (useful for KindFile to open it).
	AbsolutePath string
	// LinkTarget holds the raw, unresolved symlink target for KindSymlink entries.
	LinkTarget string
}

type stackFrame struct {
	// remaining holds sibling names still to be emitted, in reverse
	// lexicographic order so the walker can pop from the back in
	// ascending order.
	remaining []string
	// dir is this frame's relative directory path (empty for the root).
	dir string
	// absDir is this frame's absolute on-disk directory.
	absDir string
}

// Walker yields the entries of a directory subtree in a fixed, stable total
// order. It is single-shot: once exhausted it always returns (Entry{}, false, nil).
type Walker struct {
	stack []stackFrame
}

// New constructs a Walker rooted at directory.
func New(directory string) (*Walker, error) {
	info, err := os.Lstat(directory)
	if err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to stat walk root %q", directory)
	}
	if !info.IsDir() {
		return nil, gngerrors.Newf(gngerrors.Io, "%q is not a directory", directory)
	}

	names, err := readSortedNames(directory)
	if err != nil {
		return nil, err
	}

	return &Walker{
		stack: []stackFrame{{remaining: reversed(names), dir: "", absDir: directory}},
	}, nil
}

// Next returns the next Entry in deterministic order. ok is false once the
// walk is exhausted; once that happens every subsequent call also returns
// ok=false.
func (w *Walker) Next() (Entry, bool, error) {
	w.popEmptyFrames()
	if len(w.stack) == 0 {
		return Entry{}, false, nil
	}

	top := &w.stack[len(w.stack)-1]
	name := top.remaining[len(top.remaining)-1]
	top.remaining = top.remaining[:len(top.remaining)-1]

	relPath := name
	if top.dir != "" {
		relPath = top.dir + "/" + name
	}
	absPath := filepath.Join(top.absDir, name)

	info, err := os.Lstat(absPath)
	if err != nil {
		return Entry{}, false, gngerrors.Wrapf(gngerrors.Io, err, "failed to stat %q", absPath)
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	var uid, gid uint32
	if ok {
		uid, gid = stat.Uid, stat.Gid
	}
	mode := uint32(info.Mode().Perm())

	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(absPath)
		if err != nil {
			return Entry{}, false, gngerrors.Wrapf(gngerrors.Io, err, "failed to read symlink %q", absPath)
		}
		return Entry{
			RelativePath: relPath,
			Kind:         KindSymlink,
			UID:          uid,
			GID:          gid,
			AbsolutePath: absPath,
			LinkTarget:   target,
		}, true, nil

	case info.Mode().IsRegular():
		return Entry{
			RelativePath: relPath,
			Kind:         KindFile,
			Mode:         mode,
			UID:          uid,
			GID:          gid,
			Size:         info.Size(),
			AbsolutePath: absPath,
		}, true, nil

	case info.IsDir():
		childNames, err := readSortedNames(absPath)
		if err != nil {
			return Entry{}, false, err
		}
		w.stack = append(w.stack, stackFrame{remaining: reversed(childNames), dir: relPath, absDir: absPath})
		return Entry{
			RelativePath: relPath,
			Kind:         KindDirectory,
			Mode:         mode,
			UID:          uid,
			GID:          gid,
			AbsolutePath: absPath,
		}, true, nil

	default:
		return Entry{}, false, gngerrors.Newf(gngerrors.Io, "unsupported file type for %q", absPath).
			WithContext("path", absPath)
	}
}

// popEmptyFrames discards stack frames whose sibling list has been fully consumed.
func (w *Walker) popEmptyFrames() {
	for len(w.stack) > 0 && len(w.stack[len(w.stack)-1].remaining) == 0 {
		w.stack = w.stack[:len(w.stack)-1]
	}
}

func readSortedNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to read directory %q", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Name() == "." || e.Name() == ".." {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
