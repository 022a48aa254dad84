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

// Package archive implements the packet archive codec (spec §4.2): a
// zstd-compressed tar with a deterministic header policy and a metadata
// member that is always the first entry.
//
// # Layout
//
// A packet file is named "<packet>[-<facet>]-<version>.gng". Its first tar
// entry is a regular file at ".gng/<packet>[-<facet>].meta" holding a JSON
// metadata blob. Every entry has mtime/atime/ctime zeroed, device
// major/minor zeroed, and explicit mode/uid/gid. Symlinks are stored with
// mode 0o777 and zero size.
//
// # Writer
//
// A Writer is constructed with an output directory, packet/facet name,
// version, metadata bytes, and a ContentsPolicy. The archive file is not
// created until the first content entry is added — the metadata member is
// written as part of persisting that first entry. Writer is not safe for
// concurrent use; the Packager (pkg/packager) owns exactly one Writer per
// (packet, facet) pair.
//
// # Reader
//
// A Reader exposes RawMetadata, Metadata, Contents, and Extract, mirroring
// the Writer's layout contract.
package archive
