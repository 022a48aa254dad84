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

import (
	"errors"
	"os/exec"
	"syscall"
)

// exitError is the platform-neutral shape mapExitError needs out of an
// *exec.ExitError.
type exitError struct {
	Code     int
	Signaled bool
}

func asExitError(err error) (*exitError, bool) {
	var ee *exec.ExitError
	if !errors.As(err, &ee) {
		return nil, false
	}
	result := &exitError{Code: ee.ExitCode()}
	if status, ok := ee.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		result.Signaled = true
	}
	return result, true
}
