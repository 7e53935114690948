// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.

// Package annotate transforms a drained FeatureResolver state into the
// externally visible CrateAnnotation records, classifying every admitted
// dependency edge into its output bucket and producing the per-triple map
// that the resolve package later collapses into a selectable value.
package annotate

import (
	"strings"

	"kraftgraph.sh/featureresolve"
	"kraftgraph.sh/internal/set"
	"kraftgraph.sh/metadata"
	"kraftgraph.sh/pkgindex"
)

// Dependency is a single activated dependency edge as it will be emitted.
type Dependency struct {
	Dst        metadata.PackageID
	TargetName string
	Alias      string
	Features   []string
	Optional   bool
	Platform   []string
}

// CrateAnnotation is the per-crate, per-triple output record.
type CrateAnnotation struct {
	Features []string

	Deps               []Dependency
	DepsDev            []Dependency
	ProcMacroDeps      []Dependency
	ProcMacroDepsDev   []Dependency
	BuildDeps          []Dependency
	BuildProcMacroDeps []Dependency
	BuildLinkDeps      []Dependency
}

// IsEmpty reports whether the annotation carries no information at all.
func (a *CrateAnnotation) IsEmpty() bool {
	return len(a.Features) == 0 &&
		len(a.Deps) == 0 && len(a.DepsDev) == 0 &&
		len(a.ProcMacroDeps) == 0 && len(a.ProcMacroDepsDev) == 0 &&
		len(a.BuildDeps) == 0 && len(a.BuildProcMacroDeps) == 0 &&
		len(a.BuildLinkDeps) == 0
}

// Annotate runs the Annotator over one drained Resolver's state, producing
// one CrateAnnotation per package id that appears anywhere in resolved
// (at either location).
func Annotate(idx *pkgindex.Index, resolved map[featureresolve.StateKey]*featureresolve.State) map[metadata.PackageID]*CrateAnnotation {
	out := make(map[metadata.PackageID]*CrateAnnotation)

	getOrCreate := func(id metadata.PackageID) *CrateAnnotation {
		a, ok := out[id]
		if !ok {
			a = &CrateAnnotation{}
			out[id] = a
		}
		return a
	}

	memberFeatures := memberFeatureUnions(idx, resolved)

	// Stable iteration: collect and sort keys so that output depends only on
	// input, never on Go's randomised map order.
	keys := make([]featureresolve.StateKey, 0, len(resolved))
	for k := range resolved {
		keys = append(keys, k)
	}
	sortStateKeys(keys)

	for _, key := range keys {
		state := resolved[key]
		ann := getOrCreate(key.ID)

		if idx.IsWorkspaceMember(key.ID) {
			ann.Features = memberFeatures[key.ID].ToSlice()
		} else {
			merged := set.NewStringSet(ann.Features...)
			merged.Add(state.Features.ToSlice()...)
			ann.Features = merged.ToSlice()
		}

		depKeys := make([]featureresolve.DepKey, 0, len(state.Deps))
		for dk := range state.Deps {
			depKeys = append(depKeys, dk)
		}
		sortDepKeys(depKeys)

		for _, dk := range depKeys {
			rec := state.Deps[dk]
			dstView, _ := idx.ByID(dk.Dst)

			targetName := ""
			isProcMacro := false
			links := ""
			if dstView != nil {
				targetName = dstView.LibTargetName()
				isProcMacro = dstView.IsProcMacro()
				links = dstView.Package().Links
			}

			for _, ao := range rec.Aliases {
				dep := Dependency{
					Dst:        dk.Dst,
					TargetName: targetName,
					Alias:      normalizeAlias(ao.Alias),
					Features:   rec.Features.ToSlice(),
					Optional:   ao.Optional,
					Platform:   rec.Platform.ToSlice(),
				}

				appendBucket(ann, dk.Kind, isProcMacro, dep)

				if dk.Kind == metadata.Normal && !isProcMacro && links != "" {
					ann.BuildLinkDeps = append(ann.BuildLinkDeps, dep)
				}
			}
		}
	}

	return out
}

func appendBucket(ann *CrateAnnotation, kind metadata.DependencyKind, isProcMacro bool, dep Dependency) {
	switch {
	case kind == metadata.Normal && !isProcMacro:
		ann.Deps = append(ann.Deps, dep)
	case kind == metadata.Normal && isProcMacro:
		ann.ProcMacroDeps = append(ann.ProcMacroDeps, dep)
	case kind == metadata.Development && !isProcMacro:
		ann.DepsDev = append(ann.DepsDev, dep)
	case kind == metadata.Development && isProcMacro:
		ann.ProcMacroDepsDev = append(ann.ProcMacroDepsDev, dep)
	case kind == metadata.Build && !isProcMacro:
		ann.BuildDeps = append(ann.BuildDeps, dep)
	case kind == metadata.Build && isProcMacro:
		ann.BuildProcMacroDeps = append(ann.BuildProcMacroDeps, dep)
	}
}

// normalizeAlias replaces dashes with underscores when alias is non-empty,
// turning it into the build-system identifier the dependent crate will use.
func normalizeAlias(alias string) string {
	if alias == "" {
		return ""
	}
	return strings.ReplaceAll(alias, "-", "_")
}

// memberFeatureUnions expresses "the workspace member is referenced with
// these features by its dependents": for every workspace-member id, gather
// the union of dep-record feature sets across all resolved entries whose
// dep record targets (id, Target, k) for any kind k.
func memberFeatureUnions(idx *pkgindex.Index, resolved map[featureresolve.StateKey]*featureresolve.State) map[metadata.PackageID]*set.StringSet {
	unions := make(map[metadata.PackageID]*set.StringSet)
	for _, id := range idx.WorkspaceMembers() {
		unions[id] = set.NewStringSet()
	}

	for _, state := range resolved {
		for dk, rec := range state.Deps {
			if dk.Loc != metadata.Target {
				continue
			}
			union, ok := unions[dk.Dst]
			if !ok {
				continue
			}
			union.Add(rec.Features.ToSlice()...)
		}
	}

	return unions
}
