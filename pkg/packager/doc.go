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

// Package packager routes the entries of a staged install tree into packet
// archives (spec §4.4).
//
// # Filters
//
// Filter is a small composable algebra (Glob, Mime, AlwaysTrue, AlwaysFalse,
// And, Or) evaluated purely over an Entry.
//
// # Stages
//
// A Stage is the unit of composition: Filtered forwards only matching
// entries to an inner stage; Switching offers an entry to each child in
// order, stopping at the first to consume it; Storage owns one archive
// writer for a single (packet, facet) pair, opened lazily on first entry.
//
// # Composition
//
// Build constructs the canonical tree described in spec §4.4: a Switching
// stage over one Filtered-by-packet-filter stage per packet, each wrapping a
// Switching stage over one Filtered-by-facet-filter stage per non-merged
// facet, each wrapping a Storage stage.
package packager
