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

package caseofficer

import (
	"io"
	"os"
	"time"

	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/metrics"
)

// Preparer is called before a phase's agent run.
type Preparer func(agent.Phase) error

// MessageCallback is called for every framed message a phase's agent run
// produces, alongside the phase that produced it.
type MessageCallback func(agent.Phase, agent.MessageType, string) error

// Cleanup is called after a phase's agent run, only when that run
// succeeded.
type Cleanup func(agent.Phase) error

// agentRunner is the slice of *agent.Runner that CaseOfficer depends on,
// narrowed so tests can sequence phases without spawning a container.
type agentRunner interface {
	Run(phase agent.Phase, callback agent.MessageCallback, stdout, stderr io.Writer) error
}

// CaseOfficer sequences agentRunner through every build phase in order.
type CaseOfficer struct {
	runner agentRunner

	// Stdout/Stderr receive forwarded plain agent output; default to the
	// process's own stdout/stderr.
	Stdout io.Writer
	Stderr io.Writer

	scratchDirectories []string
}

// New builds a CaseOfficer around runner. scratchDirectories are removed by
// CleanUp once the build is over.
func New(runner *agent.Runner, scratchDirectories ...string) *CaseOfficer {
	return &CaseOfficer{
		runner:             runner,
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		scratchDirectories: scratchDirectories,
	}
}

// Process runs every phase in order (spec §4.7): prepare, then the agent
// run, then cleanup. A failing prepare short-circuits the phase and skips
// its cleanup; a failing agent run or cleanup aborts before later phases.
func (c *CaseOfficer) Process(preparer Preparer, callback MessageCallback, cleanup Cleanup) error {
	for _, phase := range agent.Phases {
		started := time.Now()

		if err := preparer(phase); err != nil {
			return gngerrors.Wrapf(gngerrors.AgentFailed, err, "prepare failed for phase %q", phase)
		}

		runErr := c.runner.Run(phase, func(mt agent.MessageType, payload string) error {
			metrics.IncMessageDispatched(phase.String(), string(mt))
			return callback(phase, mt, payload)
		}, c.Stdout, c.Stderr)
		if runErr != nil {
			return runErr
		}

		if err := cleanup(phase); err != nil {
			return gngerrors.Wrapf(gngerrors.AgentFailed, err, "cleanup failed for phase %q", phase)
		}

		metrics.ObservePhaseDuration(phase.String(), time.Since(started).Seconds())
	}
	return nil
}

// CleanUp removes the scratch directories registered with New. Every
// directory is attempted regardless of earlier failures; the first error
// encountered is returned after all have been attempted.
func (c *CaseOfficer) CleanUp() error {
	var firstErr error
	for _, dir := range c.scratchDirectories {
		if err := os.RemoveAll(dir); err != nil && firstErr == nil {
			firstErr = gngerrors.Wrapf(gngerrors.Io, err, "failed to remove scratch directory %q", dir)
		}
	}
	return firstErr
}
