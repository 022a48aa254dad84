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
	"io"
	"net/http"
	"os"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/walker"
)

// EntryKind mirrors walker.Kind for the entries presented to the filter
// tree and storage stages.
type EntryKind int

const (
	// KindDirectory is a directory entry.
	KindDirectory EntryKind = iota
	// KindFile is a regular file entry.
	KindFile
	// KindLink is a symlink entry.
	KindLink
)

// Entry is one item routed through the stage tree. It generalizes
// walker.Entry with lazy MIME classification and an optional in-memory
// buffer, so a Storage stage can package either from disk or from memory.
type Entry struct {
	Path         string
	Kind         EntryKind
	Mode         uint32
	UID          uint32
	GID          uint32
	Size         int64
	LinkTarget   string
	AbsolutePath string
	Buffer       []byte // non-nil to package from memory instead of AbsolutePath

	mimeType   string
	mimeLoaded bool
}

// FromWalkerEntry adapts a walker.Entry into an Entry for MIME classification
// and filter evaluation.
func FromWalkerEntry(we walker.Entry) Entry {
	e := Entry{
		Path:         we.RelativePath,
		Mode:         we.Mode,
		UID:          we.UID,
		GID:          we.GID,
		Size:         we.Size,
		LinkTarget:   we.LinkTarget,
		AbsolutePath: we.AbsolutePath,
	}
	switch we.Kind {
	case walker.KindDirectory:
		e.Kind = KindDirectory
	case walker.KindSymlink:
		e.Kind = KindLink
	default:
		e.Kind = KindFile
	}
	return e
}

// MimeType lazily sniffs the content type of a regular file's first 512
// bytes, caching the result for subsequent filter evaluations of the same
// entry. Non-regular-file entries always report an empty MIME type.
func (e *Entry) MimeType() (string, error) {
	if e.mimeLoaded {
		return e.mimeType, nil
	}
	e.mimeLoaded = true
	if e.Kind != KindFile {
		return "", nil
	}

	var head [512]byte
	var n int
	if e.Buffer != nil {
		n = copy(head[:], e.Buffer)
	} else {
		f, err := os.Open(e.AbsolutePath)
		if err != nil {
			return "", gngerrors.Wrapf(gngerrors.Io, err, "failed to sniff content type of %q", e.AbsolutePath)
		}
		defer f.Close()
		n, err = io.ReadFull(f, head[:])
		if n == 0 && (err == io.EOF || err == io.ErrUnexpectedEOF) {
			e.mimeType = "application/x-empty"
			return e.mimeType, nil
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return "", gngerrors.Wrapf(gngerrors.Io, err, "failed to sniff content type of %q", e.AbsolutePath)
		}
	}
	e.mimeType = http.DetectContentType(head[:n])
	return e.mimeType, nil
}
