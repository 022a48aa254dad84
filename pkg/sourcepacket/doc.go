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

// Package sourcepacket holds the recipe output data model (spec §3): the
// shape a recipe evaluates to, and the invariants §3 places on it. It knows
// nothing about how a recipe is evaluated or how its packets get written to
// disk; it is the contract between the Query phase and everything after it.
package sourcepacket
