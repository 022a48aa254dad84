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

// Package gngerrors provides the structured error kinds shared by every
// subsystem of the build toolchain.
//
// # Overview
//
// All errors observable at a package boundary carry one of a closed set of
// Kind values (Config, Io, Container, AgentFailed, AgentKilled, Protocol,
// Packaging, Repository, Archive, ScriptLimit), a human-readable message, an optional
// cause, and optional debugging context. This mirrors the error taxonomy of
// spec §7: core subsystems never invent ad-hoc error types, they classify
// into this set so a caller can branch on Kind without inspecting strings.
//
// # Usage
//
//	err := gngerrors.New(gngerrors.Protocol, "unknown message type")
//	err = gngerrors.Wrap(gngerrors.Io, "failed to read scratch dir", cause)
//
//	var structErr *gngerrors.Error
//	if errors.As(err, &structErr) {
//	    switch structErr.Kind {
//	    case gngerrors.AgentFailed:
//	        ...
//	    }
//	}
package gngerrors
