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

// Package logging wraps the standard library's log/slog with the build and
// repository drivers' conventions for structured, leveled logging.
//
// # Environment configuration
//
// GNG_LOG selects the level (debug, info, warn, error; default info).
// GNG_LOG_FORMAT selects the stderr output shape, one of pretty, full, compact, or
// json (default json) — see spec §6.
//
// When the process runs under systemd ($JOURNAL_STREAM set), every record
// is additionally sent to the journal via
// github.com/coreos/go-systemd/v22/journal, independent of GNG_LOG_FORMAT.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("gng-build", version.String())
//	    slog.Info("starting build", "recipe", recipeDir)
//	}
package logging
