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

// Package handler implements the handler chain (spec §4.8): the set of
// observers a Case Officer drives through every phase's prepare, message,
// and cleanup steps, and the canonical handlers that turn a build's framed
// message stream into a parsed, validated recipe and, ultimately, packet
// archives.
package handler
