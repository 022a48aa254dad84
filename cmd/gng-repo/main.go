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

// Command gng-repo maintains one repository's packet index: add packet
// archives to it, optionally clearing prior entries first (spec §4.10,
// §6).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/logging"
	"github.com/gng-project/gng/pkg/repodata"
)

// repoVersion is overridden at link time with -ldflags.
var repoVersion = "dev"

func main() {
	cmd := newRootCommand()
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "gng-repo",
		Usage: "A repository manager for gng.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "configuration file to read",
			},
			&cli.BoolFlag{
				Name:  "from-scratch",
				Usage: "start from scratch: it is OK if there is no repository.json file yet",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "clear all existing entries from repository.json before adding packets",
			},
		},
		ArgsUsage: "REPO_DIR [GNG_FILE...]",
		Action:    runRepo,
	}
}

func runRepo(_ context.Context, cmd *cli.Command) error {
	logging.SetDefaultStructuredLogger("gng-repo", repoVersion)

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return gngerrors.New(gngerrors.Config, "a repository directory is required")
	}
	repoDir := args[0]
	packets := args[1:]

	if len(packets) == 0 && !cmd.Bool("clear") {
		slog.Warn("no packets provided, nothing to do")
		return nil
	}

	index, err := repodata.Open(repoDir, cmd.Bool("from-scratch"))
	if err != nil {
		return err
	}

	tx := index.Begin()
	if cmd.Bool("clear") {
		tx.Clear()
	}

	for _, p := range packets {
		if err := tx.AddPacketFile(p); err != nil {
			return err
		}
	}

	if err := tx.Apply(); err != nil {
		return err
	}

	slog.Info("updated repository", "directory", repoDir, "packets_added", len(packets), "cleared", cmd.Bool("clear"))
	return nil
}
