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
	"archive/tar"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// zstdLevel is the compression level mandated by spec §6 ("zstd, level 21").
const zstdLevel = zstd.SpeedBestCompression

type writerState int

const (
	stateEmpty writerState = iota
	stateWriting
	stateDone
)

type tarball struct {
	file *os.File
	zstd *zstd.Encoder
	tar  *tar.Writer
}

// Writer lazily produces a single packet archive. It is not safe for
// concurrent use.
type Writer struct {
	fullPacketPath  string
	metaMemberName  string // ".gng/<packet>[-<facet>].meta", without extension logic repeated
	metadata        []byte
	policy          ContentsPolicy
	state           writerState
	tb              *tarball
	hadAnyRealEntry bool
}

// NewWriter constructs a Writer for one (packetName, facetName) pair.
// facetName may be empty, meaning the packet's main (unfaceted) archive.
func NewWriter(outputDir string, packetName string, facetName string, version identifier.Version, metadata []byte, policy ContentsPolicy) *Writer {
	fileStem := packetName
	if facetName != "" {
		fileStem = fmt.Sprintf("%s-%s", packetName, facetName)
	}
	fullName := fmt.Sprintf("%s-%s", fileStem, version.String())

	metaBase := packetName
	if facetName != "" {
		metaBase = fmt.Sprintf("%s-%s", packetName, facetName)
	}

	return &Writer{
		fullPacketPath: filepath.Join(outputDir, fullName+".gng"),
		metaMemberName: filepath.Join(".gng", metaBase+".meta"),
		metadata:       metadata,
		policy:         policy,
		state:          stateEmpty,
	}
}

// Path returns the path this Writer will produce (whether or not it has
// been created yet).
func (w *Writer) Path() string { return w.fullPacketPath }

func newHeader(name string, typ byte, size int64, mode int64, uid, gid int) *tar.Header {
	return &tar.Header{
		Name:       name,
		Typeflag:   typ,
		Size:       size,
		Mode:       mode,
		Uid:        uid,
		Gid:        gid,
		Uname:      "",
		Gname:      "",
		ModTime:    zeroTime,
		AccessTime: zeroTime,
		ChangeTime: zeroTime,
		Devmajor:   0,
		Devminor:   0,
	}
}

func (w *Writer) open() error {
	if w.state == stateWriting {
		return nil
	}
	if w.state == stateDone {
		return gngerrors.New(gngerrors.Archive, "packet file already closed")
	}

	f, err := os.OpenFile(w.fullPacketPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create packet file %q", w.fullPacketPath)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstdLevel))
	if err != nil {
		f.Close()
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to open zstd encoder for %q", w.fullPacketPath)
	}

	tw := tar.NewWriter(enc)
	w.tb = &tarball{file: f, zstd: enc, tar: tw}
	w.state = stateWriting

	hdr := newHeader(w.metaMemberName, tar.TypeReg, int64(len(w.metadata)), 0o600, 0, 0)
	if err := tw.WriteHeader(hdr); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to write metadata header for %q", w.fullPacketPath)
	}
	if _, err := tw.Write(w.metadata); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to write metadata for %q", w.fullPacketPath)
	}
	return nil
}

// AddDirectory appends a directory entry.
func (w *Writer) AddDirectory(path string, mode uint32, uid, gid uint32) error {
	if err := w.open(); err != nil {
		return err
	}
	w.hadAnyRealEntry = true
	hdr := newHeader(path, tar.TypeDir, 0, int64(mode), int(uid), int(gid))
	if err := w.tb.tar.WriteHeader(hdr); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to package directory %q", path)
	}
	return nil
}

// AddBuffer appends a regular file entry with in-memory contents.
func (w *Writer) AddBuffer(path string, data []byte, mode uint32, uid, gid uint32) error {
	if err := w.open(); err != nil {
		return err
	}
	w.hadAnyRealEntry = true
	hdr := newHeader(path, tar.TypeReg, int64(len(data)), int64(mode), int(uid), int(gid))
	if err := w.tb.tar.WriteHeader(hdr); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to package buffer %q", path)
	}
	if _, err := w.tb.tar.Write(data); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to write buffer %q", path)
	}
	return nil
}

// AddFile appends a regular file entry copied from disk.
func (w *Writer) AddFile(path string, onDisk string, size int64, mode uint32, uid, gid uint32) error {
	if err := w.open(); err != nil {
		return err
	}
	w.hadAnyRealEntry = true
	hdr := newHeader(path, tar.TypeReg, size, int64(mode), int(uid), int(gid))
	if err := w.tb.tar.WriteHeader(hdr); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to package file %q", path)
	}

	f, err := os.Open(onDisk)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to open %q for packaging", onDisk)
	}
	defer f.Close()

	if _, err := copyN(w.tb.tar, f, size); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to copy %q into packet", onDisk)
	}
	return nil
}

// AddLink appends a symlink entry.
func (w *Writer) AddLink(path string, target string) error {
	if err := w.open(); err != nil {
		return err
	}
	w.hadAnyRealEntry = true
	hdr := newHeader(path, tar.TypeSymlink, 0, 0o777, 0, 0)
	hdr.Linkname = target
	if err := w.tb.tar.WriteHeader(hdr); err != nil {
		return gngerrors.Wrapf(gngerrors.Archive, err, "failed to package symlink %q", path)
	}
	return nil
}

// Finish closes the archive (if opened) and reports the resulting file
// path. Calling Finish a second time returns an Archive error reporting that
// the packet has already been closed.
func (w *Writer) Finish() (string, error) {
	switch w.state {
	case stateDone:
		return "", gngerrors.New(gngerrors.Archive, "packet has already been closed")

	case stateEmpty:
		switch w.policy {
		case MustStayEmpty:
			err := w.open()
			w.state = stateDone
			if err != nil {
				return "", err
			}
			return w.close()
		case MustHaveContents:
			w.state = stateDone
			return "", gngerrors.Newf(gngerrors.Packaging, "packet %q stayed empty but must have contents", w.fullPacketPath)
		default:
			w.state = stateDone
			return "", nil
		}

	default: // stateWriting
		w.state = stateDone
		if w.policy == MustStayEmpty {
			return "", gngerrors.Newf(gngerrors.Packaging, "packet %q has contents but must stay empty", w.fullPacketPath)
		}
		return w.close()
	}
}

func (w *Writer) close() (string, error) {
	if err := w.tb.tar.Close(); err != nil {
		return "", gngerrors.Wrapf(gngerrors.Archive, err, "failed to close tar stream for %q", w.fullPacketPath)
	}
	if err := w.tb.zstd.Close(); err != nil {
		return "", gngerrors.Wrapf(gngerrors.Archive, err, "failed to finish zstd compression for %q", w.fullPacketPath)
	}
	if err := w.tb.file.Close(); err != nil {
		return "", gngerrors.Wrapf(gngerrors.Io, err, "failed to close %q", w.fullPacketPath)
	}
	return w.fullPacketPath, nil
}
