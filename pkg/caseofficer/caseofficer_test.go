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
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gng-project/gng/pkg/agent"
)

// fakeRunner records the phases it was asked to run and lets tests inject
// a failure at a chosen phase.
type fakeRunner struct {
	ran     []agent.Phase
	failAt  agent.Phase
	failErr error
}

func (f *fakeRunner) Run(phase agent.Phase, callback agent.MessageCallback, stdout, stderr io.Writer) error {
	f.ran = append(f.ran, phase)
	if f.failErr != nil && phase == f.failAt {
		return f.failErr
	}
	return callback(agent.MessageData, phase.String())
}

func newOfficer(runner agentRunner, scratch ...string) *CaseOfficer {
	return &CaseOfficer{runner: runner, Stdout: io.Discard, Stderr: io.Discard, scratchDirectories: scratch}
}

func TestProcess_RunsEveryPhaseInOrder(t *testing.T) {
	runner := &fakeRunner{}
	officer := newOfficer(runner)

	var prepared, cleaned []agent.Phase
	var messages []string

	err := officer.Process(
		func(p agent.Phase) error { prepared = append(prepared, p); return nil },
		func(p agent.Phase, mt agent.MessageType, payload string) error {
			messages = append(messages, payload)
			return nil
		},
		func(p agent.Phase) error { cleaned = append(cleaned, p); return nil },
	)

	require.NoError(t, err)
	assert.Equal(t, agent.Phases, prepared)
	assert.Equal(t, agent.Phases, runner.ran)
	assert.Equal(t, agent.Phases, cleaned)
	assert.Len(t, messages, len(agent.Phases))
}

func TestProcess_PrepareFailureSkipsRunAndCleanupForThatPhase(t *testing.T) {
	runner := &fakeRunner{}
	officer := newOfficer(runner)

	boom := errors.New("boom")
	var cleaned []agent.Phase

	err := officer.Process(
		func(p agent.Phase) error {
			if p == agent.PhaseBuild {
				return boom
			}
			return nil
		},
		func(p agent.Phase, mt agent.MessageType, payload string) error { return nil },
		func(p agent.Phase) error { cleaned = append(cleaned, p); return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, runner.ran, agent.PhaseBuild)
	assert.NotContains(t, cleaned, agent.PhaseBuild)
	assert.Contains(t, cleaned, agent.PhaseQuery)
	assert.Contains(t, cleaned, agent.PhasePrepare)
}

func TestProcess_RunFailureAbortsBeforeCleanupAndLaterPhases(t *testing.T) {
	boom := errors.New("agent died")
	runner := &fakeRunner{failAt: agent.PhaseCheck, failErr: boom}
	officer := newOfficer(runner)

	var cleaned []agent.Phase

	err := officer.Process(
		func(p agent.Phase) error { return nil },
		func(p agent.Phase, mt agent.MessageType, payload string) error { return nil },
		func(p agent.Phase) error { cleaned = append(cleaned, p); return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []agent.Phase{agent.PhaseQuery, agent.PhasePrepare, agent.PhaseBuild, agent.PhaseCheck}, runner.ran)
	assert.NotContains(t, cleaned, agent.PhaseCheck)
	assert.NotContains(t, cleaned, agent.PhaseInstall)
}

func TestProcess_CleanupFailureAbortsLaterPhases(t *testing.T) {
	runner := &fakeRunner{}
	officer := newOfficer(runner)

	boom := errors.New("cleanup failed")

	err := officer.Process(
		func(p agent.Phase) error { return nil },
		func(p agent.Phase, mt agent.MessageType, payload string) error { return nil },
		func(p agent.Phase) error {
			if p == agent.PhasePrepare {
				return boom
			}
			return nil
		},
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []agent.Phase{agent.PhaseQuery, agent.PhasePrepare}, runner.ran)
}

func TestProcess_MessageCallbackErrorAborts(t *testing.T) {
	runner := &fakeRunner{}
	officer := newOfficer(runner)

	boom := errors.New("bad message")

	err := officer.Process(
		func(p agent.Phase) error { return nil },
		func(p agent.Phase, mt agent.MessageType, payload string) error { return boom },
		func(p agent.Phase) error { t.Fatalf("cleanup must not run after a callback failure"); return nil },
	)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestCleanUp_RemovesAllScratchDirectories(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	require.NoError(t, os.MkdirAll(a, 0o755))
	require.NoError(t, os.MkdirAll(b, 0o755))

	officer := newOfficer(&fakeRunner{}, a, b)

	require.NoError(t, officer.CleanUp())
	assert.NoDirExists(t, a)
	assert.NoDirExists(t, b)
}

func TestCleanUp_IsIdempotentOnMissingDirectories(t *testing.T) {
	officer := newOfficer(&fakeRunner{}, filepath.Join(t.TempDir(), "already-gone"))
	assert.NoError(t, officer.CleanUp())
}

func TestNew_DefaultsToProcessStdio(t *testing.T) {
	officer := New(nil)
	assert.Equal(t, os.Stdout, officer.Stdout)
	assert.Equal(t, os.Stderr, officer.Stderr)
}
