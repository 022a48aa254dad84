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

package handler

import (
	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// Installer materializes the dependency closure of names into rootDirectory.
// It is an external collaborator (spec §4.8): this package only decides
// which names are owed to which phase.
type Installer interface {
	Install(names identifier.Names, rootDirectory string) error
}

// DependencyInstaller materializes build, check, or runtime dependency
// closures into the container rootfs ahead of Build, Check, and Install.
type DependencyInstaller struct {
	Base
	Cell          *RecipeCell
	RootDirectory string
	Installer     Installer
}

// NewDependencyInstaller returns a DependencyInstaller reading the recipe
// from cell and materializing dependencies into rootDirectory via installer.
func NewDependencyInstaller(cell *RecipeCell, rootDirectory string, installer Installer) *DependencyInstaller {
	return &DependencyInstaller{Cell: cell, RootDirectory: rootDirectory, Installer: installer}
}

// Prepare implements Handler.
func (h *DependencyInstaller) Prepare(phase agent.Phase) error {
	var deps identifier.Names

	sp, ok := h.Cell.Get()
	switch phase {
	case agent.PhaseBuild:
		if !ok {
			return gngerrors.New(gngerrors.Protocol, "source packet data was not parsed before installing build dependencies")
		}
		deps = sp.BuildDependencies
	case agent.PhaseInstall:
		if !ok {
			return gngerrors.New(gngerrors.Protocol, "source packet data was not parsed before installing runtime dependencies")
		}
		for _, p := range sp.Packets {
			deps.Merge(p.Dependencies)
		}
	case agent.PhaseCheck:
		if !ok {
			return gngerrors.New(gngerrors.Protocol, "source packet data was not parsed before installing check dependencies")
		}
		deps = sp.CheckDependencies
	default:
		return nil
	}

	if deps.IsEmpty() {
		return nil
	}
	if err := h.Installer.Install(deps, h.RootDirectory); err != nil {
		return gngerrors.Wrapf(gngerrors.Io, err, "failed to install dependencies for phase %q", phase)
	}
	return nil
}
