// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package featureresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kraftgraph.sh/internal/set"
	"kraftgraph.sh/metadata"
	"kraftgraph.sh/pkgindex"
	"kraftgraph.sh/platform"
)

var linuxInfo = platform.Info{
	Triple: "x86_64-unknown-linux-gnu",
	OS:     "linux",
	Family: "unix",
	Arch:   "x86_64",
	Flags:  []string{"unix"},
}

func mustIndex(t *testing.T, snap metadata.Snapshot) *pkgindex.Index {
	t.Helper()
	idx, err := pkgindex.New(snap)
	require.NoError(t, err)
	return idx
}

// TestScenarioAOptionalProcMacroFeature mirrors the serde/serde_derive
// scenario: a default-feature dependency with an extra named feature that
// activates an optional proc-macro dependency through an implicit
// optional-dependency feature of the same name.
func TestScenarioAOptionalProcMacroFeature(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {}},
		Dependencies: []metadata.RawDependency{
			{Name: "serde", Req: "^1.0", UseDefaultFeatures: true, Features: []string{"derive"}},
		},
	}
	serde := metadata.Package{
		ID:   "serde@1.0.0",
		Name: "serde",
		Features: map[string][]string{
			"default":      {"std"},
			"std":          {},
			"derive":       {"serde_derive"},
			"serde_derive": {"dep:serde_derive"},
		},
		Targets: []metadata.Target{{Name: "serde", Kinds: []metadata.TargetKind{metadata.RLib}}},
		Dependencies: []metadata.RawDependency{
			{Name: "serde_derive", Req: "^1.0", Optional: true},
		},
	}
	serdeDerive := metadata.Package{
		ID:       "serde_derive@1.0.0",
		Name:     "serde_derive",
		Features: map[string][]string{"default": {}},
		Targets:  []metadata.Target{{Name: "serde_derive", Kinds: []metadata.TargetKind{metadata.ProcMacro}}},
	}

	idx := mustIndex(t, metadata.Snapshot{
		Packages:         []metadata.Package{app, serde, serdeDerive},
		WorkspaceMembers: []metadata.PackageID{app.ID},
	})

	r := New(idx, linuxInfo, linuxInfo)
	require.NoError(t, r.Run())

	serdeState := r.Resolved()[StateKey{ID: serde.ID, Loc: metadata.Target}]
	require.NotNil(t, serdeState)
	assert.ElementsMatch(t, []string{"default", "std", "derive", "serde_derive"}, serdeState.Features.ToSlice())

	depKey := DepKey{Dst: serdeDerive.ID, Loc: metadata.Host, Kind: metadata.Normal}
	rec, ok := serdeState.Deps[depKey]
	require.True(t, ok)
	require.Len(t, rec.Aliases, 1)
	assert.True(t, rec.Aliases[0].Optional)
}

func TestOptionalDependencyWithoutActivatingExprNeverAdmitted(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {}},
		Dependencies: []metadata.RawDependency{
			{Name: "maybe", Req: "^1.0", Optional: true},
		},
	}
	maybe := metadata.Package{ID: "maybe@1.0.0", Name: "maybe", Features: map[string][]string{"default": {}}}

	idx := mustIndex(t, metadata.Snapshot{
		Packages:         []metadata.Package{app, maybe},
		WorkspaceMembers: []metadata.PackageID{app.ID},
	})

	r := New(idx, linuxInfo, linuxInfo)
	require.NoError(t, r.Run())

	appState := r.Resolved()[StateKey{ID: app.ID, Loc: metadata.Target}]
	require.NotNil(t, appState)
	assert.Empty(t, appState.Deps)
}

func TestDefaultFeatureRulePropagatesToDestination(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {}},
		Dependencies: []metadata.RawDependency{
			{Name: "libfoo", Req: "^1.0", UseDefaultFeatures: true},
		},
	}
	libfoo := metadata.Package{
		ID:       "libfoo@1.0.0",
		Name:     "libfoo",
		Features: map[string][]string{"default": {"std"}, "std": {}},
	}

	idx := mustIndex(t, metadata.Snapshot{
		Packages:         []metadata.Package{app, libfoo},
		WorkspaceMembers: []metadata.PackageID{app.ID},
	})

	r := New(idx, linuxInfo, linuxInfo)
	require.NoError(t, r.Run())

	libfooState := r.Resolved()[StateKey{ID: libfoo.ID, Loc: metadata.Target}]
	require.NotNil(t, libfooState)
	assert.ElementsMatch(t, []string{"default", "std"}, libfooState.Features.ToSlice())
}

// TestMonotoneClosureSupersetNeverShrinks checks property 1: requesting a
// feature set that is a superset of another never yields a smaller closure.
func TestMonotoneClosureSupersetNeverShrinks(t *testing.T) {
	pkg := metadata.Package{
		ID:   "app@0.1.0",
		Name: "app",
		Features: map[string][]string{
			"default": {"std"},
			"std":     {},
			"extra":   {},
		},
	}

	idx := mustIndex(t, metadata.Snapshot{
		Packages:         []metadata.Package{pkg},
		WorkspaceMembers: []metadata.PackageID{pkg.ID},
	})
	view, ok := idx.ByID(pkg.ID)
	require.True(t, ok)

	small := view.FeatureClosure("default")
	big := set.NewStringSet(small...)
	big.Add(view.FeatureClosure("extra")...)

	for _, f := range small {
		assert.True(t, big.Contains(f), "closure of a superset request must retain every feature of the smaller request")
	}
	assert.True(t, big.Len() >= len(small))
}

func TestBuildDependencyResolvesAgainstHostLocation(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {}},
		Dependencies: []metadata.RawDependency{
			{Name: "autocfg", Req: "^1.0", Kind: metadata.Build},
		},
	}
	autocfg := metadata.Package{ID: "autocfg@1.0.0", Name: "autocfg", Features: map[string][]string{"default": {}}}

	idx := mustIndex(t, metadata.Snapshot{
		Packages:         []metadata.Package{app, autocfg},
		WorkspaceMembers: []metadata.PackageID{app.ID},
	})

	r := New(idx, linuxInfo, linuxInfo)
	require.NoError(t, r.Run())

	appState := r.Resolved()[StateKey{ID: app.ID, Loc: metadata.Target}]
	require.NotNil(t, appState)

	_, onTarget := appState.Deps[DepKey{Dst: autocfg.ID, Loc: metadata.Target, Kind: metadata.Build}]
	assert.False(t, onTarget)

	_, onHost := appState.Deps[DepKey{Dst: autocfg.ID, Loc: metadata.Host, Kind: metadata.Build}]
	assert.True(t, onHost)
}
