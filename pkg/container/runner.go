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

package container

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/gng-project/gng/pkg/gngerrors"
)

// MachineID is a fixed 32-byte machine identity string, passed to the
// launcher as --uuid=.
type MachineID [32]byte

// String returns the raw 32 bytes as a string.
func (m MachineID) String() string { return string(m[:]) }

// Runner holds everything needed to invoke the container launcher, except
// the per-run Command.
type Runner struct {
	RootDirectory      string
	MachineID          MachineID
	LauncherPath       string
	PrivilegeEscalator string
	Env                []string
	Bindings           []Binding

	// IsRoot reports whether the calling process is already root. It is a
	// field (not a call to os.Geteuid) so tests can force either branch.
	IsRoot func() bool
}

// NewRunner builds a Runner with the given root directory and machine id,
// defaulting the launcher and escalator paths the way the example corpus
// does and IsRoot to checking the real effective uid.
func NewRunner(rootDirectory string, machineID MachineID) *Runner {
	return &Runner{
		RootDirectory:      rootDirectory,
		MachineID:          machineID,
		LauncherPath:       "/usr/bin/systemd-nspawn",
		PrivilegeEscalator: "/usr/bin/sudo",
		IsRoot:             func() bool { return os.Geteuid() == 0 },
	}
}

// Build composes the full argument vector for running command under this
// Runner, per spec §4.5. It returns the binary to execute and its
// arguments; the binary is the privilege escalator when the caller is not
// already root, in which case the launcher path is prefixed into args.
func (r *Runner) Build(command Command) (binary string, args []string, err error) {
	info, statErr := os.Stat(r.RootDirectory)
	if statErr != nil || !info.IsDir() {
		return "", nil, gngerrors.Newf(gngerrors.Config, "%q is not a directory", r.RootDirectory)
	}

	if r.IsRoot() {
		binary = r.LauncherPath
	} else {
		binary = r.PrivilegeEscalator
		args = append(args, r.LauncherPath)
	}

	args = append(args,
		"--quiet",
		"--volatile=yes",
		"--settings=off",
		"--register=off",
		"--resolv-conf=off",
		"--timezone=off",
		"--link-journal=no",
		"--console=pipe",
	)

	if !command.EnableNetwork {
		args = append(args, "--private-network")
	}

	args = append(args, "--uuid="+r.MachineID.String())

	for _, e := range r.Env {
		args = append(args, "--setenv="+e)
	}
	for _, e := range command.Env {
		args = append(args, "--setenv="+e)
	}

	for _, b := range r.Bindings {
		args = append(args, b.arg())
	}
	for _, b := range command.Bindings {
		args = append(args, b.arg())
	}

	if command.EnablePrivateUsers {
		args = append(args, fmt.Sprintf("--private-users=%d:1", os.Geteuid()))
	}

	args = append(args, "--directory="+r.RootDirectory)
	args = append(args, command.Exe)
	args = append(args, command.Args...)

	return binary, args, nil
}

// Process bundles a spawned container's pipes together with the underlying
// *exec.Cmd, for the agent runner (pkg/agent) to drive.
type Process struct {
	Cmd    *exec.Cmd
	Stdin  io.WriteCloser
	Stdout io.ReadCloser
	Stderr io.ReadCloser
}

// Run builds the argument vector, opens stdin/stdout/stderr pipes, clears
// the environment, and spawns the container (spec §4.5 "Spawn").
func (r *Runner) Run(command Command) (*Process, error) {
	binary, args, err := r.Build(command)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(binary, args...)
	cmd.Env = []string{}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, gngerrors.Wrap(gngerrors.Container, "failed to open stdin pipe", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, gngerrors.Wrap(gngerrors.Container, "failed to open stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, gngerrors.Wrap(gngerrors.Container, "failed to open stderr pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Container, err, "failed to spawn %q", binary)
	}
	return &Process{Cmd: cmd, Stdin: stdin, Stdout: stdout, Stderr: stderr}, nil
}
