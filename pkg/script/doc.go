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

// Package script is the thin bridge between the build agent and the recipe
// scripting runtime (spec §6, C11). The runtime itself is out of scope
// (spec "Out of scope"): this package only defines the narrow capability
// surface an Evaluator must offer — instruction and memory budgets, named
// string constants, recipe evaluation, and single host-function calls, all
// returning JSON — plus the fixed set of host functions a recipe script may
// call back into: fs.chdir/currentdir/mkdir/rmdir, version.epoch/upstream/
// release, hash.algorithm/value.
//
// # Budgets
//
// Exceeding either the instruction or memory budget set on an Evaluator
// fails with gngerrors.ScriptLimit (spec §7).
//
// # Bridge
//
// Bridge wires the fixed host-function surface onto any Evaluator
// implementation, so a real embedded runtime only needs to implement
// Evaluator itself and gets the fs/version/hash capability surface for
// free by registering Bridge's functions with it.
//
// # Reference evaluator
//
// Reference is a minimal in-module Evaluator used by this package's own
// tests and as a fallback for recipes that need no real scripting language
// (only constant injection and host-function calls). It is not a substitute
// for an embedded Lua (or similar) runtime in production.
package script
