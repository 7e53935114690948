// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package featureresolve

import (
	"fmt"

	"kraftgraph.sh/metadata"
	"kraftgraph.sh/pkgindex"
	"kraftgraph.sh/platform"
)

// workItem is one entry of the fixed-point work stack: a package at a
// location, newly requested to activate the given features.
type workItem struct {
	key   StateKey
	feats []string
}

// Resolver runs the fixed-point feature and dependency propagation for a
// single (host, target) pair against an immutable, shared PackageIndex.
type Resolver struct {
	idx    *pkgindex.Index
	host   platform.Info
	target platform.Info

	resolved map[StateKey]*State
	stack    []workItem
}

// New builds a Resolver for one (host, target) pair. idx must already be
// fully constructed and is treated as read-only.
func New(idx *pkgindex.Index, host, target platform.Info) *Resolver {
	return &Resolver{
		idx:      idx,
		host:     host,
		target:   target,
		resolved: make(map[StateKey]*State),
	}
}

func (r *Resolver) infoFor(loc metadata.Location) platform.Info {
	if loc == metadata.Host {
		return r.host
	}
	return r.target
}

// Resolved returns the final resolution state, valid only after Run has
// completed.
func (r *Resolver) Resolved() map[StateKey]*State {
	return r.resolved
}

// Run seeds the work stack from the workspace members and drains it to a
// fixed point. It returns a BadCfg-class error naming the offending package
// and dependency the moment a malformed cfg(...) expression is found.
func (r *Resolver) Run() error {
	for _, id := range r.idx.WorkspaceMembers() {
		view, ok := r.idx.ByID(id)
		if !ok {
			return fmt.Errorf("unknown package id in workspace members: %s", id)
		}

		feats := make([]string, 0, len(view.Package().Features))
		for f := range view.Package().Features {
			feats = append(feats, f)
		}

		r.push(StateKey{ID: id, Loc: metadata.Target}, feats)
	}

	for len(r.stack) > 0 {
		item := r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]

		if err := r.step(item); err != nil {
			return err
		}
	}

	return nil
}

func (r *Resolver) push(key StateKey, feats []string) {
	r.stack = append(r.stack, workItem{key: key, feats: feats})
}

func (r *Resolver) step(item workItem) error {
	view, ok := r.idx.ByID(item.key.ID)
	if !ok {
		// Unreachable dependency reference: ignored per the silent-drop
		// anomaly handling.
		return nil
	}
	pkg := view.Package()

	flattened := map[string]struct{}{}
	for _, f := range item.feats {
		if _, declared := pkg.Features[f]; !declared {
			continue
		}
		for _, c := range view.FeatureClosure(f) {
			flattened[c] = struct{}{}
		}
	}

	state, exists := r.resolved[item.key]
	anyChanged := !exists
	if !exists {
		state = newState()
		r.resolved[item.key] = state
	}

	for f := range flattened {
		if state.Features.Add(f) {
			anyChanged = true
		}
	}

	if !anyChanged {
		return nil
	}

	flatSlice := make([]string, 0, len(flattened))
	for f := range flattened {
		flatSlice = append(flatSlice, f)
	}
	enabledDeps := scanEnabledDeps(pkg, flatSlice)

	for _, e := range view.Edges() {
		depLoc := item.key.Loc
		if item.key.Loc == metadata.Target {
			dstView, dstOK := r.idx.ByID(e.Dst)
			isProcMacro := dstOK && dstView.IsProcMacro()
			if e.Kind == metadata.Build || isProcMacro {
				depLoc = metadata.Host
			}
		}

		if e.Platform != "" {
			ok, err := platform.Gate(e.Platform, r.infoFor(depLoc))
			if err != nil {
				return fmt.Errorf("bad cfg expression on %s -> %s: %w", pkg.ID, e.Name, err)
			}
			if !ok {
				continue
			}
		}

		if e.Optional {
			ed, exists := enabledDeps[e.Name]
			if !exists || !ed.activating {
				continue
			}
		}

		r.admit(item.key, e, depLoc, enabledDeps[e.Name])
	}

	return nil
}

func (r *Resolver) admit(src StateKey, e metadata.DependencyEdge, depLoc metadata.Location, ed *enabledDep) {
	srcState := r.resolved[src]
	key := DepKey{Dst: e.Dst, Loc: depLoc, Kind: e.Kind}
	rec := srcState.depRecord(key)

	if e.Platform != "" {
		rec.Platform.Add(e.Platform)
	}

	alias := ""
	if e.IsAlias {
		alias = e.Name
	}
	rec.AddAlias(AliasOptional{Alias: alias, Optional: e.Optional})

	if e.UseDefaultFeatures {
		if dstView, ok := r.idx.ByID(e.Dst); ok {
			if _, hasDefault := dstView.Package().Features["default"]; hasDefault {
				rec.Features.Add("default")
			}
		}
	}

	rec.Features.Add(e.Features...)
	if ed != nil {
		rec.Features.Add(ed.features.ToSlice()...)
	}

	dstKey := StateKey{ID: e.Dst, Loc: depLoc}
	dstState, dstExists := r.resolved[dstKey]

	needEnqueue := !dstExists
	if dstExists {
		for _, f := range rec.Features.ToSlice() {
			if !dstState.Features.Contains(f) {
				needEnqueue = true
				break
			}
		}
	}

	if needEnqueue {
		r.push(dstKey, rec.Features.ToSlice())
	}
}
