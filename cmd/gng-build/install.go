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

package main

import (
	"path/filepath"

	"github.com/gng-project/gng/pkg/archive"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
	"github.com/gng-project/gng/pkg/repodata"
	"github.com/gng-project/gng/pkg/repository"
)

// repoInstaller resolves dependency names against the repositories named in
// a repository configuration directory (spec §4.9/§4.10, C9/C10) and
// extracts the matching packet into the container rootfs. A nil graph makes
// every Install a no-op, for builds that declare no dependencies.
type repoInstaller struct {
	graph *repository.Graph
}

func newRepoInstaller(configDirectory string) (*repoInstaller, error) {
	if configDirectory == "" {
		return &repoInstaller{}, nil
	}
	graph, err := repository.Open(configDirectory)
	if err != nil {
		return nil, err
	}
	return &repoInstaller{graph: graph}, nil
}

func (ri *repoInstaller) Install(names identifier.Names, rootDirectory string) error {
	if names.IsEmpty() {
		return nil
	}
	if ri.graph == nil {
		return gngerrors.Newf(gngerrors.Config, "build declares %d dependencies but no repository configuration directory was given", names.Len())
	}

	for _, name := range names.Slice() {
		entry, repoDirectory, err := ri.resolve(name)
		if err != nil {
			return err
		}
		packetPath := filepath.Join(repoDirectory, filepath.FromSlash(entry.RelativeFilePath))
		if _, err := archive.NewReader(packetPath).Extract(rootDirectory); err != nil {
			return err
		}
	}
	return nil
}

// resolve walks repositories in priority order, returning the first whose
// index carries an entry for name — sequential lookup, not a solver (spec
// "Non-goals").
func (ri *repoInstaller) resolve(name identifier.Name) (repodata.Entry, string, error) {
	for _, record := range ri.graph.Records() {
		directory := repositoryDataDirectory(record)
		if directory == "" {
			continue
		}
		index, err := repodata.Open(directory, true)
		if err != nil {
			continue
		}
		for _, entry := range index.Entries() {
			if entry.Name == name {
				return entry, directory, nil
			}
		}
	}
	return repodata.Entry{}, "", gngerrors.Newf(gngerrors.Repository, "no repository provides packet %q", name)
}

func repositoryDataDirectory(record repository.Record) string {
	switch record.Source.Kind {
	case repository.SourceLocal:
		if record.Source.ExportDirectory != "" {
			return record.Source.ExportDirectory
		}
		return record.Source.SourcesBaseDirectory
	default:
		return ""
	}
}
