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
	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// storageStage owns a single archive.Writer for one (packet, facet) pair,
// opened lazily by the writer itself on the first entry.
type storageStage struct {
	writer *archive.Writer
}

// Storage builds a Stage that writes every entry it is offered into a
// packet archive at (outputDir, packetName, facetName, version).
func Storage(outputDir, packetName, facetName string, version identifier.Version, metadata []byte, policy archive.ContentsPolicy) Stage {
	return &storageStage{
		writer: archive.NewWriter(outputDir, packetName, facetName, version, metadata, policy),
	}
}

func (s *storageStage) Package(e *Entry) (bool, error) {
	switch e.Kind {
	case KindDirectory:
		if err := s.writer.AddDirectory(e.Path, e.Mode, e.UID, e.GID); err != nil {
			return false, err
		}
	case KindLink:
		if err := s.writer.AddLink(e.Path, e.LinkTarget); err != nil {
			return false, err
		}
	case KindFile:
		if e.Buffer != nil {
			if err := s.writer.AddBuffer(e.Path, e.Buffer, e.Mode, e.UID, e.GID); err != nil {
				return false, err
			}
		} else {
			if err := s.writer.AddFile(e.Path, e.AbsolutePath, e.Size, e.Mode, e.UID, e.GID); err != nil {
				return false, err
			}
		}
	default:
		return false, gngerrors.Newf(gngerrors.Packaging, "entry %q has an unsupported kind", e.Path)
	}
	return true, nil
}

func (s *storageStage) Finish() ([]string, error) {
	path, err := s.writer.Finish()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}
	return []string{path}, nil
}
