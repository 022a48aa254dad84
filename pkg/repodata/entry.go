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
	"encoding/json"
	"path"
	"strings"

	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// Entry is one indexed packet: its metadata (as written into the packet
// archive's metadata member) and the packet file's path relative to the
// repository directory (spec §4.10).
type Entry struct {
	Name             identifier.Name    `json:"name"`
	Version          identifier.Version `json:"version"`
	Facet            string             `json:"facet,omitempty"`
	Metadata         json.RawMessage    `json:"packet_metadata"`
	RelativeFilePath string             `json:"relative_file_path"`
}

// entryNameProbe decodes only the "name" field common to every packet
// metadata blob, without committing repodata to the full packet schema.
type entryNameProbe struct {
	Name identifier.Name `json:"name"`
}

// entryFromPacketFile opens the packet archive at absolutePath and builds
// the Entry it contributes to the index, recording relativeFilePath as the
// path other drivers should use to reach it from the repository directory.
func entryFromPacketFile(absolutePath, relativeFilePath string) (Entry, error) {
	r := archive.NewReader(absolutePath)
	memberPath, metadata, err := r.MetadataEntry()
	if err != nil {
		return Entry{}, err
	}

	var probe entryNameProbe
	if err := json.Unmarshal(metadata, &probe); err != nil {
		return Entry{}, gngerrors.Wrapf(gngerrors.Repository, err, "failed to read packet name from %q", absolutePath)
	}

	facet, err := facetFromMemberPath(memberPath, probe.Name)
	if err != nil {
		return Entry{}, err
	}

	version, err := versionFromFilename(absolutePath, probe.Name, facet)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Name:             probe.Name,
		Version:          version,
		Facet:            facet,
		Metadata:         metadata,
		RelativeFilePath: relativeFilePath,
	}, nil
}

// facetFromMemberPath recovers the facet slug, if any, from a metadata
// member path of the form ".gng/<name>[-<facet>].meta": the writer never
// embeds the version there, so stripping the known name prefix is
// unambiguous (spec §6).
func facetFromMemberPath(memberPath string, name identifier.Name) (string, error) {
	base := strings.TrimSuffix(path.Base(memberPath), ".meta")
	prefix := name.String()
	if base == prefix {
		return "", nil
	}
	if !strings.HasPrefix(base, prefix+"-") {
		return "", gngerrors.Newf(gngerrors.Repository, "metadata member %q does not match packet name %q", memberPath, name)
	}
	return strings.TrimPrefix(base, prefix+"-"), nil
}

// versionFromFilename recovers the version component from a packet file
// name of the form "<name>[-<facet>]-<version>.gng" (spec §6). The name
// and facet, once known, strip off unambiguously, leaving the version.
func versionFromFilename(absolutePath string, name identifier.Name, facet string) (identifier.Version, error) {
	stem := strings.TrimSuffix(path.Base(absolutePath), ".gng")
	prefix := name.String()
	if facet != "" {
		prefix = prefix + "-" + facet
	}
	if !strings.HasPrefix(stem, prefix+"-") {
		return identifier.Version{}, gngerrors.Newf(gngerrors.Repository, "packet file %q does not match packet %q", absolutePath, prefix)
	}
	version, err := identifier.ParseVersion(strings.TrimPrefix(stem, prefix+"-"))
	if err != nil {
		return identifier.Version{}, gngerrors.Wrapf(gngerrors.Repository, err, "packet file %q has an invalid version", absolutePath)
	}
	return version, nil
}

// less orders entries by packet name, then version, then facet, matching
// the sort applied whenever a transaction is applied.
func less(a, b Entry) bool {
	if a.Name.String() != b.Name.String() {
		return a.Name.String() < b.Name.String()
	}
	if c := a.Version.Compare(b.Version); c != 0 {
		return c < 0
	}
	return a.Facet < b.Facet
}
