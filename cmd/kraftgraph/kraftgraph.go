// SPDX-License-Identifier: BSD-3-Clause
//
// Authors: Alexander Jung <alex@unikraft.io>
//
// Copyright (c) 2022, Unikraft GmbH.  All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the names of its
//    contributors may be used to endorse or promote products derived from
//    this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"kraftgraph.sh/cmd/kraftgraph/resolve"
	"kraftgraph.sh/cmd/kraftgraph/triples"
	"kraftgraph.sh/cmdfactory"
	"kraftgraph.sh/config"
	"kraftgraph.sh/internal/version"
	"kraftgraph.sh/log"
)

// KraftGraph is the root command. It carries only the flags shared by every
// subcommand; the resolver itself is invoked from the "resolve" subcommand.
type KraftGraph struct {
	ConfigFile string `long:"config" usage:"path to the kraftgraph configuration file"`
	LogLevel   string `long:"log-level" usage:"set the logging verbosity (fatal, error, warn, info, debug, trace)"`
	LogType    string `long:"log-type" usage:"set the logging renderer (quiet, basic, fancy, json)"`
}

func New() (*cobra.Command, error) {
	cmd, err := cmdfactory.New(&KraftGraph{}, cobra.Command{
		Short:   "Resolve Cargo-style features and dependencies across target triples",
		Use:     "kraftgraph [SUBCOMMAND] [FLAGS]",
		Version: version.String(),
		Long: heredoc.Doc(`
			kraftgraph expands a workspace's per-crate feature declarations to
			a fixed point, partitions the resulting dependency edges between
			host and target per build-script/proc-macro rules, gates them by
			platform predicate, and emits one { common, selects } annotation
			per crate — the way cargo metadata --features=... does, without
			shelling out to cargo.`),
		Example: heredoc.Doc(`
			# Resolve every workspace crate for a couple of triples
			$ kraftgraph resolve -i snapshot.yaml -t x86_64-unknown-linux-gnu -t aarch64-apple-darwin

			# List the triples kraftgraph can itself act as a build host for
			$ kraftgraph triples`),
	})
	if err != nil {
		return nil, err
	}

	cmd.AddCommand(resolve.New())
	cmd.AddCommand(triples.New())

	return cmd, nil
}

func (opts *KraftGraph) PersistentPre(cmd *cobra.Command, _ []string) error {
	fileOpt := config.WithDefaultConfigFile()
	if opts.ConfigFile != "" {
		fileOpt = config.WithFile(opts.ConfigFile, false)
	}

	cfgMgr, err := config.NewConfigManager(
		fileOpt,
		config.WithEnv(),
	)
	if err != nil {
		// Defaults remain usable even if the file/env feeders failed, so this
		// is surfaced as a warning rather than aborting the command.
		fmt.Fprintf(os.Stderr, "warning: %s\n", err)
		cfgMgr, _ = config.NewConfigManager()
	}

	cfg := cfgMgr.Config
	if opts.ConfigFile != "" {
		cfg.Paths.Config = opts.ConfigFile
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.LogType != "" {
		cfg.Log.Type = opts.LogType
	}

	logger := logrus.New()
	if lvl, ok := log.Levels()[cfg.Log.Level]; ok {
		logger.SetLevel(lvl)
	}

	switch log.LoggerTypeFromString(cfg.Log.Type) {
	case log.QUIET:
		logger.SetOutput(io.Discard)
	case log.JSON:
		logger.SetFormatter(new(logrus.JSONFormatter))
	default:
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp: cfg.Log.Timestamps,
		})
	}

	ctx := log.WithLogger(cmd.Context(), logger)
	ctx = config.WithConfig(ctx, cfg)
	cmd.SetContext(ctx)

	return nil
}

func (*KraftGraph) Run(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd, err := New()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmdfactory.Main(ctx, cmd)
}
