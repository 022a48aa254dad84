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

package script

import (
	"encoding/json"
	"os"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/identifier"
)

// HashInfo is the hash a recipe's current source archive was verified
// against, exposed to scripts through hash.algorithm/value.
type HashInfo struct {
	Algorithm string
	Value     string
}

// Bridge wires the fixed host-function surface (spec §6: fs, version,
// hash) onto any Evaluator. Version and Hash are read at call time, so
// callers may update them between phases.
type Bridge struct {
	Version identifier.Version
	Hash    HashInfo
}

// Wire registers every fs.*, version.*, and hash.* host function onto e.
func (b *Bridge) Wire(e Evaluator) {
	e.Register("fs.chdir", b.fsChdir)
	e.Register("fs.currentdir", b.fsCurrentDir)
	e.Register("fs.mkdir", b.fsMkdir)
	e.Register("fs.rmdir", b.fsRmdir)
	e.Register("version.epoch", b.versionEpoch)
	e.Register("version.upstream", b.versionUpstream)
	e.Register("version.release", b.versionRelease)
	e.Register("hash.algorithm", b.hashAlgorithm)
	e.Register("hash.value", b.hashValue)
}

func (b *Bridge) fsChdir(args ...string) (json.RawMessage, error) {
	path, err := singleArg("fs.chdir", args)
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(path); err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "fs.chdir(%q) failed", path)
	}
	return jsonString(path)
}

func (b *Bridge) fsCurrentDir(args ...string) (json.RawMessage, error) {
	if err := noArgs("fs.currentdir", args); err != nil {
		return nil, err
	}
	dir, err := os.Getwd()
	if err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "fs.currentdir failed")
	}
	return jsonString(dir)
}

func (b *Bridge) fsMkdir(args ...string) (json.RawMessage, error) {
	path, err := singleArg("fs.mkdir", args)
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "fs.mkdir(%q) failed", path)
	}
	return jsonString(path)
}

func (b *Bridge) fsRmdir(args ...string) (json.RawMessage, error) {
	path, err := singleArg("fs.rmdir", args)
	if err != nil {
		return nil, err
	}
	if err := os.Remove(path); err != nil {
		return nil, gngerrors.Wrapf(gngerrors.Io, err, "fs.rmdir(%q) failed", path)
	}
	return jsonString(path)
}

func (b *Bridge) versionEpoch(args ...string) (json.RawMessage, error) {
	if err := noArgs("version.epoch", args); err != nil {
		return nil, err
	}
	return json.Marshal(b.Version.Epoch())
}

func (b *Bridge) versionUpstream(args ...string) (json.RawMessage, error) {
	if err := noArgs("version.upstream", args); err != nil {
		return nil, err
	}
	return jsonString(b.Version.Upstream())
}

func (b *Bridge) versionRelease(args ...string) (json.RawMessage, error) {
	if err := noArgs("version.release", args); err != nil {
		return nil, err
	}
	return jsonString(b.Version.Release())
}

func (b *Bridge) hashAlgorithm(args ...string) (json.RawMessage, error) {
	if err := noArgs("hash.algorithm", args); err != nil {
		return nil, err
	}
	return jsonString(b.Hash.Algorithm)
}

func (b *Bridge) hashValue(args ...string) (json.RawMessage, error) {
	if err := noArgs("hash.value", args); err != nil {
		return nil, err
	}
	return jsonString(b.Hash.Value)
}

func singleArg(name string, args []string) (string, error) {
	if len(args) != 1 {
		return "", gngerrors.Newf(gngerrors.Config, "%s expects exactly one argument, got %d", name, len(args))
	}
	return args[0], nil
}

func noArgs(name string, args []string) error {
	if len(args) != 0 {
		return gngerrors.Newf(gngerrors.Config, "%s expects no arguments, got %d", name, len(args))
	}
	return nil
}

func jsonString(s string) (json.RawMessage, error) {
	return json.Marshal(s)
}
