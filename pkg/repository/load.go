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

package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// LoadDirectory reads every "*.conf" file directly inside directory,
// deserializing each as a repository record (spec §4.9 Load). Files are
// read in lexicographic filename order for a stable, reproducible error
// message and graph-build order.
func LoadDirectory(directory string) ([]Record, error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to read repository configuration directory %q", directory)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".conf" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	records := make([]Record, 0, len(names))
	for _, name := range names {
		path := filepath.Join(directory, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to read repository record %q", path)
		}

		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Repository, err, "failed to parse repository record %q", path)
		}
		records = append(records, r)
	}
	return records, nil
}

// Open loads every repository record from directory and builds the graph.
func Open(directory string) (*Graph, error) {
	records, err := LoadDirectory(directory)
	if err != nil {
		return nil, err
	}
	return NewGraph(records)
}
