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

// Command gng-build runs one source packet recipe through every build phase
// (spec §4.7, §6): query, prepare, build, check, install, package.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gng-project/gng/pkg/agent"
	"github.com/gng-project/gng/pkg/caseofficer"
	"github.com/gng-project/gng/pkg/gngerrors"
	"github.com/gng-project/gng/pkg/handler"
	"github.com/gng-project/gng/pkg/logging"
)

const buildScriptName = "build.lua"

// buildVersion is overridden at link time with -ldflags, following the
// example corpus's "version/commit/date overridden during build" pattern.
var buildVersion = "dev"

var (
	cfgFile          string
	agentExecutable  string
	luaDirectory     string
	scratchDirectory string
	workDirectory    string
	installDirectory string
	outputDirectory  string
	launcherPath     string
	repoConfigDir    string
	keepTemporaries  bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gng-build <recipe-dir>",
		Short: "A packet builder for gng.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(args[0])
		},
	}

	cobra.OnInitialize(func() { initConfig(cmd) })

	cmd.Flags().StringVar(&cfgFile, "config", "", "configuration file to read")
	cmd.Flags().StringVar(&agentExecutable, "agent", "/usr/bin/gng-build-agent", "the build agent executable")
	cmd.Flags().StringVar(&luaDirectory, "lua-dir", "/usr/share/gng/lua", "the directory containing the script runtime environment")
	cmd.Flags().StringVar(&scratchDirectory, "scratch-dir", "", "the directory to store temporary data in (default: a fresh temp directory)")
	cmd.Flags().StringVar(&workDirectory, "work-dir", "", "the directory the build agent script will work in [DEBUG OPTION]")
	cmd.Flags().StringVar(&installDirectory, "install-dir", "", "the directory the build agent script will install into [DEBUG OPTION]")
	cmd.Flags().StringVar(&outputDirectory, "output-dir", ".", "the directory finished packet archives are written to")
	cmd.Flags().StringVar(&launcherPath, "launcher", "/usr/bin/systemd-nspawn", "the container launcher executable")
	cmd.Flags().StringVar(&repoConfigDir, "repo-config-dir", "", "a repository configuration directory to resolve build/check dependencies against")
	cmd.Flags().BoolVar(&keepTemporaries, "keep-temporaries", false, "keep temporary directories after the build")

	return cmd
}

func initConfig(cmd *cobra.Command) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "error reading config file %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	} else {
		viper.SetConfigName(".gng-build")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		_ = viper.ReadInConfig()
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("GNG_BUILD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	bindViperFlags(cmd)

	logging.SetDefaultStructuredLogger("gng-build", buildVersion)
}

func bindViperFlags(cmd *cobra.Command) {
	for _, name := range []string{"agent", "lua-dir", "scratch-dir", "work-dir", "install-dir", "output-dir", "launcher", "repo-config-dir", "keep-temporaries"} {
		_ = viper.BindPFlag(name, cmd.Flags().Lookup(name))
	}
}

func runBuild(recipeDir string) error {
	recipeDir, err := filepath.Abs(recipeDir)
	if err != nil {
		return gngerrors.Wrapf(gngerrors.Config, err, "failed to resolve recipe directory %q", recipeDir)
	}
	buildFile := filepath.Join(recipeDir, buildScriptName)
	if info, err := os.Stat(buildFile); err != nil || info.IsDir() {
		return gngerrors.Newf(gngerrors.Config, "recipe directory %q has no %s", recipeDir, buildScriptName)
	}

	scratch := scratchDirectory
	ownsScratch := scratch == ""
	if ownsScratch {
		scratch, err = os.MkdirTemp("", "gng-build-")
		if err != nil {
			return gngerrors.Wrap(gngerrors.Io, "failed to create scratch directory", err)
		}
	}

	runner, err := agent.New(scratch, agentExecutable, luaDirectory, buildFile, launcherPath)
	if err != nil {
		return err
	}

	officer := caseofficer.New(runner, scratchCleanupDirs(scratch, ownsScratch, keepTemporaries)...)

	installer, err := newRepoInstaller(repoConfigDir)
	if err != nil {
		return err
	}

	queryParser := handler.NewQueryParser()
	cell := queryParser.Cell

	chain := handler.NewChain(
		queryParser,
		handler.NewValidator(cell),
		handler.NewImmutabilityGuard(agent.PhaseQuery),
		handler.NewSourceFetcher(cell, workDirectoryOrDefault(scratch), newHTTPFetcher()),
		handler.NewDependencyInstaller(cell, rootDirectoryOrDefault(scratch), installer),
		handler.NewPackagingDriver(cell, installDirectoryOrDefault(scratch), outputDirectory),
	)

	slog.Info("starting build", "recipe", recipeDir, "scratch", scratch)
	runErr := officer.Process(chain.Prepare, chain.Handle, chain.Cleanup)
	if cleanupErr := officer.CleanUp(); cleanupErr != nil && runErr == nil {
		runErr = cleanupErr
	}
	return runErr
}

func scratchCleanupDirs(scratch string, ownsScratch, keep bool) []string {
	if keep || !ownsScratch {
		return nil
	}
	return []string{scratch}
}

func workDirectoryOrDefault(scratch string) string {
	if workDirectory != "" {
		return workDirectory
	}
	return filepath.Join(scratch, "work")
}

func rootDirectoryOrDefault(scratch string) string {
	return filepath.Join(scratch, "rootfs")
}

func installDirectoryOrDefault(scratch string) string {
	if installDirectory != "" {
		return installDirectory
	}
	return filepath.Join(scratch, "install")
}
