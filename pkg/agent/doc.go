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

// Package agent runs the build agent inside a container for one phase at a
// time, and decodes its framed stdout protocol (spec §4.6).
//
// Runner is constructed with a scratch directory, the agent binary, the
// script library directory, the recipe build file, and the container
// launcher binary. It lays out rootfs/, rootfs/usr/, work/, and install/
// under the scratch directory, then builds a container.Runner with the base
// bindings every phase shares. CreateCommand adds the phase-specific
// bindings on top. Run spawns the container, decodes its stdout into framed
// messages and plain lines using golang.org/x/sync/errgroup to join the
// stdout-decoding goroutine with the stderr-mirroring goroutine, and maps
// the exit status to Ok/AgentFailed/AgentKilled.
package agent
