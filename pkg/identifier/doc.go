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

// Package identifier implements the parsed, validated identifier types
// shared by every other layer of the build toolchain: Name, Version, and
// Hash, plus the Names set type.
//
// # Name
//
// A Name is non-empty, starts with a lowercase letter or digit, and its
// remaining characters are lowercase letters, digits, or '_'. Names have a
// total lexicographic order.
//
// # Version
//
// A Version is the triple (epoch uint32, upstream string, release string),
// parsed from the grammar "[epoch:]upstream[-release]". upstream must be
// nonempty; release may be empty. Both fields are restricted to lowercase
// letters, digits, '.', and '_', and must start with a letter or digit when
// nonempty. Ordering compares epoch, then upstream, then release,
// lexicographically per field.
//
// # Hash
//
// A Hash is a tagged union of a 32-byte SHA-256 digest or a 64-byte SHA-512
// digest. Its textual form is "algo:hex". Hashes order first by algorithm
// (Sha256 before Sha512), then by digest bytes.
package identifier
