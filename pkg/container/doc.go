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

// Package container composes a systemd-nspawn-style argument vector from a
// Command and the Runner that will execute it (spec §4.5).
//
// A Runner holds the root directory of the container, a fixed machine uuid,
// the paths to the container launcher and privilege escalator, and a base
// set of environment variables and bindings. Run builds the full argument
// vector (quiet/volatile/settings/register/resolv-conf/timezone/journal
// flags, network isolation, uuid, environment, bindings, private-users,
// directory, then the command itself), wrapping the invocation with the
// privilege escalator when the calling process is not already root.
package container
