// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package resolve is the top-level orchestrator: it combines pkgindex,
// depmatch, featureresolve and annotate across every (host, target) pair
// drawn from the caller-supplied triple set, merging the results into a
// per-crate selectable.
package resolve

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"kraftgraph.sh/annotate"
	"kraftgraph.sh/featureresolve"
	"kraftgraph.sh/metadata"
	"kraftgraph.sh/pkgindex"
	"kraftgraph.sh/platform"
)

// Options configures a single Resolve invocation.
type Options struct {
	// Triples is the caller-supplied set of triples. Every one is a valid
	// target; the subset that is also host-capable additionally acts as a
	// host in the (host, target) product.
	Triples []string

	// NoParallel forces pairs to resolve sequentially instead of via
	// errgroup-managed goroutines.
	NoParallel bool
}

// Result is the final output contract: a selectable CrateAnnotation per
// crate identifier.
type Result map[metadata.PackageID]annotate.Selectable

// Resolve builds the PackageIndex once, then runs the FeatureResolver and
// Annotator for every (host, target) pair, merging results into Result.
func Resolve(snap metadata.Snapshot, oracle *platform.Oracle, opts Options) (Result, error) {
	idx, err := pkgindex.New(snap)
	if err != nil {
		return nil, wrapError(UnknownPackageId, err, "building package index")
	}

	for _, triple := range opts.Triples {
		if _, ok := oracle.Lookup(triple); !ok {
			return nil, newError(InputMissing, "no target-info record for triple %q", triple)
		}
	}

	for _, id := range idx.WorkspaceMembers() {
		if _, ok := idx.ByID(id); !ok {
			return nil, newError(UnknownPackageId, "workspace member %s is not in the package index", id)
		}
	}

	var hosts []string
	for _, triple := range opts.Triples {
		if platform.IsHostCapable(triple) {
			hosts = append(hosts, triple)
		}
	}

	type pair struct{ host, target string }
	var pairs []pair
	for _, h := range hosts {
		for _, t := range opts.Triples {
			pairs = append(pairs, pair{host: h, target: t})
		}
	}

	// perCrate[crateID][targetTriple] accumulates the annotation merged
	// across every host candidate that contributed to that target.
	perCrate := make(map[metadata.PackageID]map[string]annotate.CrateAnnotation)
	var mu sync.Mutex

	merge := func(target string, contribution map[metadata.PackageID]*annotate.CrateAnnotation) {
		mu.Lock()
		defer mu.Unlock()
		for id, ann := range contribution {
			byTriple, ok := perCrate[id]
			if !ok {
				byTriple = make(map[string]annotate.CrateAnnotation)
				perCrate[id] = byTriple
			}
			byTriple[target] = mergeAnnotations(byTriple[target], *ann)
		}
	}

	run := func(p pair) error {
		hostInfo, _ := oracle.Lookup(p.host)
		targetInfo, _ := oracle.Lookup(p.target)

		r := featureresolve.New(idx, hostInfo, targetInfo)
		if err := r.Run(); err != nil {
			return wrapError(BadCfg, err, "resolving "+p.host+" -> "+p.target)
		}

		merge(p.target, annotate.Annotate(idx, r.Resolved()))
		return nil
	}

	if opts.NoParallel {
		for _, p := range pairs {
			if err := run(p); err != nil {
				return nil, err
			}
		}
	} else {
		g, _ := errgroup.WithContext(context.Background())
		for _, p := range pairs {
			p := p
			g.Go(func() error { return run(p) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// A crate that is never admitted for some target triple (e.g. a
	// platform-gated optional dependency that only applies on one target)
	// must still be represented by an explicit empty annotation for that
	// triple, distinct from never having been computed at all: otherwise the
	// selectable collapse, seeing only the triples where the crate happened
	// to appear, would fold everything into common instead of leaving it as
	// a per-triple residual.
	for _, byTriple := range perCrate {
		for _, t := range opts.Triples {
			if _, ok := byTriple[t]; !ok {
				byTriple[t] = annotate.CrateAnnotation{}
			}
		}
	}

	result := make(Result, len(perCrate))
	for id, byTriple := range perCrate {
		sel := annotate.BuildSelectable(byTriple)
		if sel.IsEmpty() {
			continue
		}
		result[id] = sel
	}

	return result, nil
}

// CrateIDs returns the sorted list of crate identifiers in r, useful for
// stable iteration when emitting output.
func (r Result) CrateIDs() []metadata.PackageID {
	out := make([]metadata.PackageID, 0, len(r))
	for id := range r {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
