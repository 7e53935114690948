// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package annotate

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kraftgraph.sh/featureresolve"
	"kraftgraph.sh/internal/set"
	"kraftgraph.sh/metadata"
	"kraftgraph.sh/pkgindex"
)

func buildIndex(t *testing.T, pkgs []metadata.Package, members []metadata.PackageID) *pkgindex.Index {
	t.Helper()
	idx, err := pkgindex.New(metadata.Snapshot{Packages: pkgs, WorkspaceMembers: members})
	require.NoError(t, err)
	return idx
}

func depRecord(features []string, optional bool) *featureresolve.DepRecord {
	rec := &featureresolve.DepRecord{
		Platform: set.NewStringSet(),
		Features: set.NewStringSet(features...),
	}
	rec.AddAlias(featureresolve.AliasOptional{Optional: optional})
	return rec
}

// TestLinkProjectionScenarioF mirrors scenario F: a normal dependency on a
// package with a native link name is projected into both deps and
// build_link_deps with an identical record.
func TestLinkProjectionScenarioF(t *testing.T) {
	app := metadata.Package{ID: "app@0.1.0", Name: "app"}
	zlib := metadata.Package{
		ID:      "zlib@1.0.0",
		Name:    "zlib",
		Links:   "z",
		Targets: []metadata.Target{{Name: "zlib", Kinds: []metadata.TargetKind{metadata.RLib}}},
	}
	idx := buildIndex(t, []metadata.Package{app, zlib}, []metadata.PackageID{app.ID})

	resolved := map[featureresolve.StateKey]*featureresolve.State{
		{ID: app.ID, Loc: metadata.Target}: {
			Features: set.NewStringSet(),
			Deps: map[featureresolve.DepKey]*featureresolve.DepRecord{
				{Dst: zlib.ID, Loc: metadata.Target, Kind: metadata.Normal}: depRecord(nil, false),
			},
		},
	}

	out := Annotate(idx, resolved)
	ann := out[app.ID]
	require.Len(t, ann.Deps, 1)
	require.Len(t, ann.BuildLinkDeps, 1)
	assert.Equal(t, ann.Deps[0], ann.BuildLinkDeps[0])
}

// TestLinkProjectionExcludesProcMacrosAndLinklessPackages is property 5:
// build_link_deps ⊆ deps, and never contains proc macros or packages
// without a links name.
func TestLinkProjectionExcludesProcMacrosAndLinklessPackages(t *testing.T) {
	app := metadata.Package{ID: "app@0.1.0", Name: "app"}
	plain := metadata.Package{ID: "plain@1.0.0", Name: "plain"}
	macro := metadata.Package{
		ID:      "macro@1.0.0",
		Name:    "macro",
		Links:   "somelib",
		Targets: []metadata.Target{{Name: "macro", Kinds: []metadata.TargetKind{metadata.ProcMacro}}},
	}
	idx := buildIndex(t, []metadata.Package{app, plain, macro}, []metadata.PackageID{app.ID})

	resolved := map[featureresolve.StateKey]*featureresolve.State{
		{ID: app.ID, Loc: metadata.Target}: {
			Features: set.NewStringSet(),
			Deps: map[featureresolve.DepKey]*featureresolve.DepRecord{
				{Dst: plain.ID, Loc: metadata.Target, Kind: metadata.Normal}: depRecord(nil, false),
			},
		},
		{ID: app.ID, Loc: metadata.Host}: {
			Features: set.NewStringSet(),
			Deps: map[featureresolve.DepKey]*featureresolve.DepRecord{
				{Dst: macro.ID, Loc: metadata.Host, Kind: metadata.Normal}: depRecord(nil, false),
			},
		},
	}

	out := Annotate(idx, resolved)
	ann := out[app.ID]

	assert.Empty(t, ann.BuildLinkDeps, "a links-less dependency must not be projected")

	for _, ld := range ann.BuildLinkDeps {
		found := false
		for _, d := range ann.Deps {
			if reflect.DeepEqual(d, ld) {
				found = true
				break
			}
		}
		assert.True(t, found, "build_link_deps must be a subset of deps")
	}
}

func TestRenamedDependencyScenarioD(t *testing.T) {
	app := metadata.Package{ID: "app@0.1.0", Name: "app"}
	metalPkg := metadata.Package{
		ID:      "metal@1.0.0",
		Name:    "metal",
		Targets: []metadata.Target{{Name: "metal", Kinds: []metadata.TargetKind{metadata.RLib}}},
	}
	idx := buildIndex(t, []metadata.Package{app, metalPkg}, []metadata.PackageID{app.ID})

	rec := &featureresolve.DepRecord{
		Platform: set.NewStringSet(),
		Features: set.NewStringSet(),
	}
	rec.AddAlias(featureresolve.AliasOptional{Alias: "mtl", Optional: false})

	resolved := map[featureresolve.StateKey]*featureresolve.State{
		{ID: app.ID, Loc: metadata.Target}: {
			Features: set.NewStringSet(),
			Deps: map[featureresolve.DepKey]*featureresolve.DepRecord{
				{Dst: metalPkg.ID, Loc: metadata.Target, Kind: metadata.Normal}: rec,
			},
		},
	}

	out := Annotate(idx, resolved)
	ann := out[app.ID]
	require.Len(t, ann.Deps, 1)
	assert.Equal(t, "mtl", ann.Deps[0].Alias)
	assert.Equal(t, "metal", ann.Deps[0].TargetName)
}
