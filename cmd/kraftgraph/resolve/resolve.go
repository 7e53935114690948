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

package resolve

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"kraftgraph.sh/cmdfactory"
	"kraftgraph.sh/config"
	"kraftgraph.sh/internal/loader"
	"kraftgraph.sh/internal/render"
	"kraftgraph.sh/internal/watch"
	"kraftgraph.sh/log"
	coreresolve "kraftgraph.sh/resolve"
)

// Resolve implements `kraftgraph resolve`.
type Resolve struct {
	Input      string   `long:"input" short:"i" usage:"path to the metadata snapshot YAML document"`
	Triples    []string `long:"triple" short:"t" usage:"target triple to resolve (repeatable)"`
	TripleSet  string   `long:"triple-set" usage:"named group of triples from the configuration file"`
	Format     string   `long:"format" short:"f" usage:"output format: yaml, json or tree"`
	Output     string   `long:"output" short:"o" usage:"write the result to this file instead of stdout"`
	Watch      bool     `long:"watch" short:"w" usage:"re-resolve whenever the input snapshot changes"`
	NoParallel bool     `long:"no-parallel" usage:"resolve (host, target) pairs sequentially instead of concurrently"`
}

func New() *cobra.Command {
	cmd, err := cmdfactory.New(&Resolve{}, cobra.Command{
		Short: "Resolve features and dependencies for a set of target triples",
		Use:   "resolve [FLAGS]",
		Long: heredoc.Doc(`
			resolve reads a metadata snapshot, expands every workspace
			member's feature closure to a fixed point, and emits one
			{ common, selects } dependency annotation per crate.`),
		Example: heredoc.Doc(`
			# Resolve for two triples and print YAML to stdout
			$ kraftgraph resolve -i snapshot.yaml -t x86_64-unknown-linux-gnu -t aarch64-apple-darwin

			# Print a human-readable tree instead
			$ kraftgraph resolve -i snapshot.yaml -t x86_64-unknown-linux-gnu --format tree

			# Keep re-resolving as the snapshot changes on disk
			$ kraftgraph resolve -i snapshot.yaml -t x86_64-unknown-linux-gnu --watch`),
	})
	if err != nil {
		panic(err)
	}

	return cmd
}

func (opts *Resolve) Run(cmd *cobra.Command, _ []string) (retErr error) {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)

	defer func() {
		if retErr != nil {
			log.FromContext(ctx).Error(retErr)
		}
	}()

	if opts.Input == "" {
		return fmt.Errorf("--input is required")
	}

	triples := append([]string{}, opts.Triples...)
	if opts.TripleSet != "" {
		set, ok := cfg.TripleSets[opts.TripleSet]
		if !ok {
			return fmt.Errorf("unknown triple set %q", opts.TripleSet)
		}
		triples = append(triples, set...)
	}
	if len(triples) == 0 {
		return fmt.Errorf("no target triples given, use --triple or --triple-set")
	}

	format := opts.Format
	if format == "" {
		format = cfg.Format
	}

	noParallel := opts.NoParallel || cfg.NoParallel

	run := func() error {
		snap, oracle, err := loader.Load(opts.Input)
		if err != nil {
			return err
		}

		result, err := coreresolve.Resolve(snap, oracle, coreresolve.Options{
			Triples:    triples,
			NoParallel: noParallel,
		})
		if err != nil {
			return err
		}

		out, err := renderResult(result, format)
		if err != nil {
			return err
		}

		return opts.write(out)
	}

	if !opts.Watch {
		return run()
	}

	return watch.OnChange(ctx, opts.Input, func() {
		if err := run(); err != nil {
			log.FromContext(ctx).Errorf("re-resolving %s: %s", opts.Input, err)
		}
	})
}

func renderResult(result coreresolve.Result, format string) ([]byte, error) {
	switch format {
	case "", "yaml":
		return render.YAML(result)
	case "json":
		return render.JSON(result)
	case "tree":
		return []byte(render.Tree(result)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func (opts *Resolve) write(out []byte) error {
	if opts.Output == "" {
		_, err := os.Stdout.Write(out)
		return err
	}

	return os.WriteFile(opts.Output, out, 0o644)
}
