// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package featureresolve implements the fixed-point feature and dependency
// activation engine: starting from workspace members with every declared
// feature enabled, it propagates feature and dependency activations across
// the dependency graph for a single (host, target) pair, applying
// LocationPolicy and PlatformGate along the way.
package featureresolve

import (
	"kraftgraph.sh/internal/set"
	"kraftgraph.sh/metadata"
)

// StateKey identifies one entry of the resolution state: a package at a
// location.
type StateKey struct {
	ID  metadata.PackageID
	Loc metadata.Location
}

// AliasOptional is a single (alias-or-none, optional) facet observed on a
// dependency edge. Distinct facets are preserved rather than collapsed,
// since repeated edges with different rename/optional combinations are
// legal.
type AliasOptional struct {
	Alias    string // empty when the edge did not rename the dependency
	Optional bool
}

// DepKey identifies one outgoing dependency bucket of a resolution-state
// entry: the destination package, its location, and the dependency kind.
type DepKey struct {
	Dst metadata.PackageID
	Loc metadata.Location
	Kind metadata.DependencyKind
}

// DepRecord accumulates everything observed about one (dst, loc, kind)
// dependency bucket of a package: the platform predicates under which it
// was admitted, the features enabled on it, and every alias/optional facet
// seen.
type DepRecord struct {
	Platform *set.StringSet
	Features *set.StringSet
	aliasSeen map[AliasOptional]struct{}
	Aliases   []AliasOptional
}

func newDepRecord() *DepRecord {
	return &DepRecord{
		Platform:  set.NewStringSet(),
		Features:  set.NewStringSet(),
		aliasSeen: make(map[AliasOptional]struct{}),
	}
}

// AddAlias inserts an (alias-or-none, optional) facet, preserving
// first-seen order and silently ignoring duplicates.
func (r *DepRecord) AddAlias(a AliasOptional) {
	if _, ok := r.aliasSeen[a]; ok {
		return
	}
	r.aliasSeen[a] = struct{}{}
	r.Aliases = append(r.Aliases, a)
}

// State is the resolution state of a single (package, location) entry.
type State struct {
	Features *set.StringSet
	Deps     map[DepKey]*DepRecord
}

func newState() *State {
	return &State{
		Features: set.NewStringSet(),
		Deps:     make(map[DepKey]*DepRecord),
	}
}

// DepRecord returns the dep record for key, creating an empty one on first
// reference.
func (s *State) depRecord(key DepKey) *DepRecord {
	r, ok := s.Deps[key]
	if !ok {
		r = newDepRecord()
		s.Deps[key] = r
	}
	return r
}
