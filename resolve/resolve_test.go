// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kraftgraph.sh/metadata"
	"kraftgraph.sh/platform"
)

func quadInfos() []platform.Info {
	return []platform.Info{
		{Triple: "x86_64-apple-darwin", OS: "macos", Family: "unix", Arch: "x86_64", Flags: []string{"unix"}},
		{Triple: "x86_64-pc-windows-msvc", OS: "windows", Family: "windows", Arch: "x86_64", Flags: []string{"windows"}},
		{Triple: "x86_64-unknown-linux-gnu", OS: "linux", Family: "unix", Arch: "x86_64", Flags: []string{"unix"}},
		{Triple: "wasm32-unknown-unknown", OS: "unknown", Family: "wasm", Arch: "wasm32"},
	}
}

func quadOracle() *platform.Oracle {
	return platform.NewOracle(quadInfos()...)
}

func quadTriples() []string {
	return []string{
		"x86_64-apple-darwin",
		"x86_64-pc-windows-msvc",
		"x86_64-unknown-linux-gnu",
		"wasm32-unknown-unknown",
	}
}

// TestScenarioBCfgGatedFeatureOnlyOnUnixTriples mirrors scenario B: a
// cfg(unix)-gated dependency with an extra feature appears in selects only
// for the unix triples; the other triples get only the default feature.
func TestScenarioBCfgGatedFeatureOnlyOnUnixTriples(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {}},
		Dependencies: []metadata.RawDependency{
			{Name: "tokio", Req: "^1.0", UseDefaultFeatures: true},
			{Name: "tokio", Req: "^1.0", Platform: "cfg(unix)", Features: []string{"fs"}},
		},
	}
	tokio := metadata.Package{
		ID:       "tokio@1.0.0",
		Name:     "tokio",
		Features: map[string][]string{"default": {}, "fs": {}},
	}

	snap := metadata.Snapshot{Packages: []metadata.Package{app, tokio}, WorkspaceMembers: []metadata.PackageID{app.ID}}

	result, err := Resolve(snap, quadOracle(), Options{Triples: quadTriples()})
	require.NoError(t, err)

	sel, ok := result[tokio.ID]
	require.True(t, ok)

	assert.ElementsMatch(t, []string{"default"}, sel.Common.Features)
	assert.ElementsMatch(t, []string{"fs"}, sel.Selects["x86_64-unknown-linux-gnu"].Features)
	assert.ElementsMatch(t, []string{"fs"}, sel.Selects["x86_64-apple-darwin"].Features)
	_, hasWindows := sel.Selects["x86_64-pc-windows-msvc"]
	assert.False(t, hasWindows)
	_, hasWasm := sel.Selects["wasm32-unknown-unknown"]
	assert.False(t, hasWasm)
}

// TestScenarioCBuildDependencyNeverUnderTarget mirrors scenario C: a build
// dependency always resolves against the host location, regardless of how
// many target triples are configured.
func TestScenarioCBuildDependencyNeverUnderTarget(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {}},
		Dependencies: []metadata.RawDependency{
			{Name: "autocfg", Req: "^1.0", Kind: metadata.Build},
		},
	}
	autocfg := metadata.Package{ID: "autocfg@1.0.0", Name: "autocfg", Features: map[string][]string{"default": {}}}

	snap := metadata.Snapshot{Packages: []metadata.Package{app, autocfg}, WorkspaceMembers: []metadata.PackageID{app.ID}}

	result, err := Resolve(snap, quadOracle(), Options{Triples: quadTriples()})
	require.NoError(t, err)

	sel, ok := result[app.ID]
	require.True(t, ok)

	found := false
	for _, d := range sel.Common.BuildDeps {
		if d.Dst == autocfg.ID {
			found = true
		}
	}
	assert.True(t, found, "a build dependency common to every triple must be lifted into common.build_deps")

	for _, residual := range sel.Selects {
		assert.Empty(t, residual.BuildDeps, "a build dependency must not vary per target triple")
	}
}

// TestScenarioECfgGatedOptionalDependency mirrors scenario E: an optional
// dependency gated by cfg(target_os = "macos") and enabled through the
// `block/default` feature reference is activated only on the matching triple.
func TestScenarioECfgGatedOptionalDependency(t *testing.T) {
	app := metadata.Package{
		ID:   "app@0.1.0",
		Name: "app",
		Features: map[string][]string{
			"default": {"block/default"},
		},
		Dependencies: []metadata.RawDependency{
			{Name: "block", Req: "^1.0", Optional: true, Platform: `cfg(target_os = "macos")`},
		},
	}
	block := metadata.Package{
		ID:       "block@1.0.0",
		Name:     "block",
		Features: map[string][]string{"default": {}},
	}

	snap := metadata.Snapshot{Packages: []metadata.Package{app, block}, WorkspaceMembers: []metadata.PackageID{app.ID}}

	result, err := Resolve(snap, quadOracle(), Options{Triples: quadTriples()})
	require.NoError(t, err)

	sel, ok := result[app.ID]
	require.True(t, ok)

	for _, d := range sel.Common.Deps {
		assert.NotEqual(t, block.ID, d.Dst, "a cfg-gated optional dependency is never part of the unconditional common set")
	}

	darwin, hasDarwin := sel.Selects["x86_64-apple-darwin"]
	require.True(t, hasDarwin)
	require.Len(t, darwin.Deps, 1)
	assert.Equal(t, block.ID, darwin.Deps[0].Dst)
	assert.ElementsMatch(t, []string{"default"}, darwin.Deps[0].Features)

	for _, triple := range []string{"x86_64-pc-windows-msvc", "x86_64-unknown-linux-gnu", "wasm32-unknown-unknown"} {
		residual, has := sel.Selects[triple]
		if !has {
			continue
		}
		for _, d := range residual.Deps {
			assert.NotEqual(t, block.ID, d.Dst, "block must be absent from every non-macos triple")
		}
	}
}

// TestDeterminismSameInputSameOutput is property 7: resolving the same
// snapshot twice produces byte-identical results.
func TestDeterminismSameInputSameOutput(t *testing.T) {
	app := metadata.Package{
		ID:       "app@0.1.0",
		Name:     "app",
		Features: map[string][]string{"default": {"std"}, "std": {}},
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

	snap := metadata.Snapshot{
		Packages:         []metadata.Package{app, serde, serdeDerive},
		WorkspaceMembers: []metadata.PackageID{app.ID},
	}

	first, err := Resolve(snap, quadOracle(), Options{Triples: quadTriples()})
	require.NoError(t, err)
	second, err := Resolve(snap, quadOracle(), Options{Triples: quadTriples()})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	sequential, err := Resolve(snap, quadOracle(), Options{Triples: quadTriples(), NoParallel: true})
	require.NoError(t, err)
	assert.Equal(t, first, sequential)
}

func TestResolveRejectsUnknownTriple(t *testing.T) {
	snap := metadata.Snapshot{Packages: []metadata.Package{{ID: "app@0.1.0", Name: "app", Features: map[string][]string{"default": {}}}}, WorkspaceMembers: []metadata.PackageID{"app@0.1.0"}}

	_, err := Resolve(snap, quadOracle(), Options{Triples: []string{"does-not-exist"}})
	require.Error(t, err)

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, InputMissing, rerr.Kind)
}
