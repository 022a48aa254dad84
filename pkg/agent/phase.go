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

package agent

// Phase is one step of the build sequence, in execution order.
type Phase int

const (
	// PhaseQuery asks the recipe for its source packet definition.
	PhaseQuery Phase = iota
	// PhasePrepare stages sources for the build.
	PhasePrepare
	// PhaseBuild compiles the sources.
	PhaseBuild
	// PhaseCheck runs the recipe's test suite.
	PhaseCheck
	// PhaseInstall stages build output into the install tree.
	PhaseInstall
	// PhasePackage packages the install tree into packet archives.
	PhasePackage
)

// Phases lists every phase, in the order the Case Officer runs them.
var Phases = []Phase{PhaseQuery, PhasePrepare, PhaseBuild, PhaseCheck, PhaseInstall, PhasePackage}

// String returns the phase's command-line argument form.
func (p Phase) String() string {
	switch p {
	case PhaseQuery:
		return "query"
	case PhasePrepare:
		return "prepare"
	case PhaseBuild:
		return "build"
	case PhaseCheck:
		return "check"
	case PhaseInstall:
		return "install"
	case PhasePackage:
		return "package"
	default:
		return "unknown"
	}
}
