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
	"bufio"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gng-project/gng/pkg/container"
	"github.com/gng-project/gng/pkg/gngerrors"
)

// Runner runs the build agent inside a container, one phase at a time.
type Runner struct {
	scratchDirectory string
	runner           *container.Runner

	// OutPrefix/ErrPrefix are written before every forwarded plain line of
	// the agent's stdout/stderr, defaulting to the example corpus's values.
	OutPrefix string
	ErrPrefix string
}

func (r *Runner) rootDirectory() string    { return filepath.Join(r.scratchDirectory, "rootfs") }
func (r *Runner) workDirectory() string    { return filepath.Join(r.scratchDirectory, "work") }
func (r *Runner) installDirectory() string { return filepath.Join(r.scratchDirectory, "install") }

// New validates the given paths and lays out the scratch directory tree
// (rootfs/, rootfs/usr/, work/, install/), then builds the base Runner
// bindings shared by every phase.
func New(scratchDirectory, agentBinary, scriptLibraryDir, recipeBuildFile, launcherBinary string) (*Runner, error) {
	info, err := os.Stat(scratchDirectory)
	if err != nil || !info.IsDir() {
		return nil, gngerrors.Newf(gngerrors.Config, "scratch directory %q does not exist", scratchDirectory)
	}

	if err := validateExecutable(agentBinary); err != nil {
		return nil, err
	}
	if err := validateDirectory(scriptLibraryDir); err != nil {
		return nil, err
	}
	if err := validateRegularFile(recipeBuildFile); err != nil {
		return nil, err
	}
	if err := validateExecutable(launcherBinary); err != nil {
		return nil, err
	}

	a := &Runner{
		scratchDirectory: scratchDirectory,
		OutPrefix:        defaultAgentOut,
		ErrPrefix:        defaultAgentErr,
	}

	for _, dir := range []string{a.rootDirectory(), filepath.Join(a.rootDirectory(), "usr"), a.workDirectory(), a.installDirectory()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, gngerrors.Wrapf(gngerrors.Io, err, "failed to create %q", dir)
		}
	}

	cr := container.NewRunner(a.rootDirectory(), builderMachineID())
	cr.LauncherPath = launcherBinary
	cr.Bindings = []container.Binding{
		container.Tmpfs(containerGngDir),
		container.RO(agentBinary, containerAgentExecutable),
		container.RO(recipeBuildFile, containerGngDir+"/build.lua"),
		container.RO(scriptLibraryDir, containerLuaDir),
	}
	cr.Env = []string{
		fmt.Sprintf("%s=%s", envBuildAgent, containerAgentExecutable),
		fmt.Sprintf("%s=%s", envWorkDir, containerWorkDir),
		fmt.Sprintf("%s=%s", envInstallDir, containerInstallDir),
		fmt.Sprintf("%s=%s", envLuaDir, containerLuaDir),
	}
	if logLevel := os.Getenv(envLogLevel); logLevel != "" {
		cr.Env = append(cr.Env, fmt.Sprintf("%s=%s", envLogLevel, logLevel))
	}
	if logFormat := os.Getenv(envLogFormat); logFormat != "" {
		cr.Env = append(cr.Env, fmt.Sprintf("%s=%s", envLogFormat, logFormat))
	}
	a.runner = cr

	return a, nil
}

func builderMachineID() container.MachineID {
	var id container.MachineID
	copy(id[:], "0bf95bb771364ef997e1df5eb3b26422")
	return id
}

// CreateCommand builds the Command for phase, carrying messagePrefix so the
// agent can address its framed messages to this run.
func (r *Runner) CreateCommand(phase Phase, messagePrefix string) container.Command {
	cmd := container.Command{
		Exe:  containerAgentExecutable,
		Args: []string{phase.String()},
		Env:  []string{fmt.Sprintf("%s=%s", envMessagePrefix, messagePrefix)},
	}

	usrDirectory := filepath.Join(r.rootDirectory(), "usr")

	switch phase {
	case PhaseQuery:
		cmd.Bindings = []container.Binding{
			container.RO(r.workDirectory(), containerWorkDir),
			container.Tmpfs(containerInstallDir),
		}
	case PhasePrepare, PhaseBuild, PhaseCheck:
		cmd.Bindings = []container.Binding{
			container.RW(r.workDirectory(), containerWorkDir),
			container.Tmpfs(containerInstallDir),
		}
	case PhaseInstall:
		cmd.Bindings = []container.Binding{
			container.RO(r.workDirectory(), containerWorkDir),
			container.Tmpfs(containerInstallDir),
			container.Overlay([]string{usrDirectory, r.installDirectory()}, "/usr"),
		}
	case PhasePackage:
		cmd.Bindings = []container.Binding{
			container.RW(r.workDirectory(), containerWorkDir),
			container.RW(r.installDirectory(), containerInstallDir),
		}
	}

	return cmd
}

// MessageCallback receives every framed message decoded from the agent's
// stdout.
type MessageCallback func(MessageType, string) error

// Run spawns the container for phase, decodes its framed stdout protocol,
// mirrors plain lines and stderr to the given writers, and maps the exit
// status to Ok/AgentFailed/AgentKilled.
func (r *Runner) Run(phase Phase, callback MessageCallback, stdout, stderr io.Writer) error {
	messagePrefix, err := randomAlphanumeric(messagePrefixLen)
	if err != nil {
		return gngerrors.Wrap(gngerrors.Config, "failed to generate message prefix", err)
	}

	command := r.CreateCommand(phase, messagePrefix)
	process, err := r.runner.Run(command)
	if err != nil {
		return err
	}

	var eg errgroup.Group
	eg.Go(func() error {
		scanner := bufio.NewScanner(process.Stderr)
		for scanner.Scan() {
			fmt.Fprintf(stderr, "%s%s\n", r.ErrPrefix, scanner.Text())
		}
		return scanner.Err()
	})

	eg.Go(func() error {
		scanner := bufio.NewScanner(process.Stdout)
		for scanner.Scan() {
			line := scanner.Text()
			msgType, payload := findTypeAndContents(messagePrefix, line)
			if msgType == "" {
				fmt.Fprintf(stdout, "%s%s\n", r.OutPrefix, payload)
				continue
			}
			parsed, err := parseMessageType(msgType)
			if err != nil {
				return err
			}
			if err := callback(parsed, payload); err != nil {
				return err
			}
		}
		return scanner.Err()
	})

	ioErr := eg.Wait()

	waitErr := process.Cmd.Wait()
	if ioErr != nil {
		return ioErr
	}
	return mapExitError(waitErr)
}

func mapExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exitError
	if ee, ok := asExitError(err); ok {
		exitErr = ee
	} else {
		return gngerrors.Wrap(gngerrors.AgentFailed, "agent exited abnormally", err)
	}
	if exitErr.Signaled {
		return gngerrors.New(gngerrors.AgentKilled, "agent was killed by a signal")
	}
	return gngerrors.Newf(gngerrors.AgentFailed, "agent failed with exit status %d", exitErr.Code)
}

func randomAlphanumeric(n int) (string, error) {
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(messagePrefixAlph))))
		if err != nil {
			return "", err
		}
		out[i] = messagePrefixAlph[idx.Int64()]
	}
	return string(out), nil
}

func validateExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "%q does not exist", path)
	}
	if info.IsDir() {
		return gngerrors.Newf(gngerrors.Config, "%q is a directory, not an executable", path)
	}
	if info.Mode()&0o111 == 0 {
		return gngerrors.Newf(gngerrors.Config, "%q is not executable", path)
	}
	return nil
}

func validateDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return gngerrors.Newf(gngerrors.Config, "%q is not a directory", path)
	}
	return nil
}

func validateRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return gngerrors.Newf(gngerrors.Config, "%q is not a regular file", path)
	}
	return nil
}
