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
	"encoding/json"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// maxMetadataSize bounds raw metadata reads, per spec §4.2.
const maxMetadataSize = 64 * 1024

// ContentKind classifies one entry returned by Contents.
type ContentKind int

const (
	// ContentDir is a directory entry.
	ContentDir ContentKind = iota
	// ContentFile is a regular file entry.
	ContentFile
	// ContentLink is a symlink entry.
	ContentLink
)

// ContentInfo describes one entry of a packet archive.
type ContentInfo struct {
	Path   string
	Mode   int64
	UID    int
	GID    int
	Kind   ContentKind
	Size   int64  // valid for ContentFile
	Target string // valid for ContentLink
}

// Reader reads back a packet archive written by Writer.
type Reader struct {
	packetPath string
}

// NewReader constructs a Reader for the archive at packetPath.
func NewReader(packetPath string) *Reader {
	return &Reader{packetPath: packetPath}
}

func (r *Reader) openTar() (*os.File, *zstd.Decoder, *tar.Reader, error) {
	f, err := os.Open(r.packetPath)
	if err != nil {
		return nil, nil, nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to open packet %q", r.packetPath)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, nil, gngerrors.Wrapf(gngerrors.Archive, err, "failed to decompress packet %q", r.packetPath)
	}
	return f, dec, tar.NewReader(dec), nil
}

func closeAll(f *os.File, dec *zstd.Decoder) {
	dec.Close()
	f.Close()
}

// RawMetadata reads the first tar entry, verifies it is the metadata member
// (".gng/<name>.meta"), and returns its raw bytes.
func (r *Reader) RawMetadata() ([]byte, error) {
	_, data, err := r.MetadataEntry()
	return data, err
}

// MetadataEntry reads the first tar entry, verifies it is the metadata
// member, and returns both its member path (".gng/<name>[-<facet>].meta")
// and its raw bytes. The member path's base name, with the ".meta"
// extension and packet name prefix stripped, recovers the facet a packet
// file belongs to (spec §6, §4.10).
func (r *Reader) MetadataEntry() (string, []byte, error) {
	f, dec, tr, err := r.openTar()
	if err != nil {
		return "", nil, err
	}
	defer closeAll(f, dec)

	hdr, err := tr.Next()
	if err == io.EOF {
		return "", nil, gngerrors.Newf(gngerrors.Archive, "packet %q has no entries", r.packetPath)
	}
	if err != nil {
		return "", nil, gngerrors.Wrapf(gngerrors.Archive, err, "failed to read first entry of %q", r.packetPath)
	}
	data, err := readMetadataEntry(hdr, tr, r.packetPath)
	if err != nil {
		return "", nil, err
	}
	return hdr.Name, data, nil
}

func readMetadataEntry(hdr *tar.Header, tr *tar.Reader, packetPath string) ([]byte, error) {
	if hdr.Typeflag != tar.TypeReg {
		return nil, gngerrors.Newf(gngerrors.Archive, "metadata entry of packet %q must be a regular file", packetPath)
	}
	if path.Dir(hdr.Name) != ".gng" {
		return nil, gngerrors.Newf(gngerrors.Archive, "first entry of packet %q is not the metadata member (wrong parent directory %q)", packetPath, path.Dir(hdr.Name))
	}
	if path.Ext(hdr.Name) != ".meta" {
		return nil, gngerrors.Newf(gngerrors.Archive, "first entry of packet %q is not the metadata member (wrong extension)", packetPath)
	}
	if hdr.Size > maxMetadataSize {
		return nil, gngerrors.Newf(gngerrors.Archive, "metadata of packet %q is too large (%d bytes)", packetPath, hdr.Size)
	}

	data := make([]byte, hdr.Size)
	if _, err := io.ReadFull(tr, data); err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Archive, err, "failed to read metadata of packet %q", packetPath)
	}
	return data, nil
}

// Metadata reads and JSON-deserializes the metadata member into v.
func (r *Reader) Metadata(v any) error {
	raw, err := r.RawMetadata()
	if err != nil {
		return err
	}
	return unmarshalJSON(raw, v)
}

// Contents enumerates every entry in the archive, including the metadata
// member.
func (r *Reader) Contents() ([]ContentInfo, error) {
	f, dec, tr, err := r.openTar()
	if err != nil {
		return nil, err
	}
	defer closeAll(f, dec)

	var out []ContentInfo
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Archive, err, "failed to read entry of packet %q", r.packetPath)
		}

		info := ContentInfo{
			Path: hdr.Name,
			Mode: hdr.Mode,
			UID:  hdr.Uid,
			GID:  hdr.Gid,
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			info.Kind = ContentDir
		case tar.TypeSymlink:
			info.Kind = ContentLink
			info.Target = hdr.Linkname
		default:
			info.Kind = ContentFile
			info.Size = hdr.Size
		}
		out = append(out, info)
	}
	return out, nil
}

// Extract writes the metadata member to "<root>/usr/.gng/<name>.meta" and
// unpacks every other entry under "<root>/usr/", refusing to overwrite
// existing files.
func (r *Reader) Extract(root string) ([]byte, error) {
	f, dec, tr, err := r.openTar()
	if err != nil {
		return nil, err
	}
	defer closeAll(f, dec)

	usrDir := filepath.Join(root, "usr")
	var metadata []byte
	first := true

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Archive, err, "failed to read entry of packet %q", r.packetPath)
		}

		if first {
			first = false
			metadata, err = readMetadataEntry(hdr, tr, r.packetPath)
			if err != nil {
				return nil, err
			}
			metaPath := filepath.Join(usrDir, ".gng", filepath.Base(hdr.Name))
			if err := writeNoOverwrite(metaPath, metadata, 0o600); err != nil {
				return nil, err
			}
			continue
		}

		if err := extractEntry(usrDir, hdr, tr); err != nil {
			return nil, err
		}
	}

	if first {
		return nil, gngerrors.Newf(gngerrors.Archive, "packet %q has no metadata", r.packetPath)
	}
	return metadata, nil
}

func extractEntry(usrDir string, hdr *tar.Header, tr *tar.Reader) error {
	dest := filepath.Join(usrDir, filepath.FromSlash(hdr.Name))

	switch hdr.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(dest, os.FileMode(hdr.Mode&0o7777)); err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to create directory %q", dest)
		}
		return nil

	case tar.TypeSymlink:
		if _, err := os.Lstat(dest); err == nil {
			return gngerrors.Newf(gngerrors.Archive, "refusing to overwrite existing %q", dest)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to create parent of %q", dest)
		}
		if err := os.Symlink(hdr.Linkname, dest); err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to create symlink %q", dest)
		}
		return nil

	default:
		if _, err := os.Lstat(dest); err == nil {
			return gngerrors.Newf(gngerrors.Archive, "refusing to overwrite existing %q", dest)
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to create parent of %q", dest)
		}
		out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, os.FileMode(hdr.Mode&0o7777))
		if err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", dest)
		}
		defer out.Close()
		if _, err := io.Copy(out, tr); err != nil {
			return gngerrors.Wrapf(gngerrors.Io, err, "failed to write %q", dest)
		}
		return nil
	}
}

func writeNoOverwrite(path string, data []byte, mode os.FileMode) error {
	if _, err := os.Lstat(path); err == nil {
		return gngerrors.Newf(gngerrors.Archive, "refusing to overwrite existing %q", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create parent of %q", path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", path)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to write %q", path)
	}
	return nil
}

func unmarshalJSON(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return gngerrors.Wrap(gngerrors.Archive, "failed to decode packet metadata", err)
	}
	return nil
}
