// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package pkgindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kraftgraph.sh/metadata"
)

func TestFeatureClosureFollowsOnlySelfFeatures(t *testing.T) {
	pkg := metadata.Package{
		ID:   "serde@1.0.0",
		Name: "serde",
		Features: map[string][]string{
			"default": {"std"},
			"std":     {},
			"derive":  {"dep:serde_derive"},
		},
	}

	idx, err := New(metadata.Snapshot{
		Packages:         []metadata.Package{pkg},
		WorkspaceMembers: []metadata.PackageID{pkg.ID},
	})
	require.NoError(t, err)

	view, ok := idx.ByID(pkg.ID)
	require.True(t, ok)

	assert.ElementsMatch(t, []string{"default", "std"}, view.FeatureClosure("default"))
	// "derive" references a dep:-form expression, which never expands into
	// more self-features.
	assert.ElementsMatch(t, []string{"derive"}, view.FeatureClosure("derive"))
}

func TestFeatureClosureIsCycleSafe(t *testing.T) {
	pkg := metadata.Package{
		ID:   "cyclic@1.0.0",
		Name: "cyclic",
		Features: map[string][]string{
			"a": {"b"},
			"b": {"a"},
		},
	}

	idx, err := New(metadata.Snapshot{Packages: []metadata.Package{pkg}})
	require.NoError(t, err)

	view, _ := idx.ByID(pkg.ID)
	assert.ElementsMatch(t, []string{"a", "b"}, view.FeatureClosure("a"))
}

func TestFeatureClosureIgnoresUnknownFeatureReference(t *testing.T) {
	pkg := metadata.Package{
		ID:   "weird@1.0.0",
		Name: "weird",
		Features: map[string][]string{
			"a": {"does-not-exist"},
		},
	}

	idx, err := New(metadata.Snapshot{Packages: []metadata.Package{pkg}})
	require.NoError(t, err)

	view, _ := idx.ByID(pkg.ID)
	assert.ElementsMatch(t, []string{"a"}, view.FeatureClosure("a"))
}

func TestLibTargetNameAndProcMacro(t *testing.T) {
	lib := metadata.Package{
		ID:      "mylib@1.0.0",
		Name:    "mylib",
		Targets: []metadata.Target{{Name: "mylib", Kinds: []metadata.TargetKind{metadata.RLib}}},
	}
	macro := metadata.Package{
		ID:      "mymacro@1.0.0",
		Name:    "mymacro",
		Targets: []metadata.Target{{Name: "mymacro", Kinds: []metadata.TargetKind{metadata.ProcMacro}}},
	}
	binOnly := metadata.Package{
		ID:      "mybin@1.0.0",
		Name:    "mybin",
		Targets: []metadata.Target{{Name: "mybin", Kinds: []metadata.TargetKind{metadata.Bin}}},
	}

	idx, err := New(metadata.Snapshot{Packages: []metadata.Package{lib, macro, binOnly}})
	require.NoError(t, err)

	libView, _ := idx.ByID(lib.ID)
	assert.Equal(t, "mylib", libView.LibTargetName())
	assert.False(t, libView.IsProcMacro())

	macroView, _ := idx.ByID(macro.ID)
	assert.Equal(t, "mymacro", macroView.LibTargetName())
	assert.True(t, macroView.IsProcMacro())

	binView, _ := idx.ByID(binOnly.ID)
	assert.Equal(t, "", binView.LibTargetName())
}

func TestDevDependencyDroppedOnNonWorkspaceMember(t *testing.T) {
	dep := metadata.Package{ID: "dep@1.0.0", Name: "dep", Version: "1.0.0"}
	nonMember := metadata.Package{
		ID:   "nonmember@1.0.0",
		Name: "nonmember",
		Dependencies: []metadata.RawDependency{
			{Name: "dep", Req: "^1.0", Kind: metadata.Development},
		},
	}
	member := metadata.Package{
		ID:   "member@1.0.0",
		Name: "member",
		Dependencies: []metadata.RawDependency{
			{Name: "dep", Req: "^1.0", Kind: metadata.Development},
		},
	}

	idx, err := New(metadata.Snapshot{
		Packages:         []metadata.Package{dep, nonMember, member},
		WorkspaceMembers: []metadata.PackageID{member.ID},
	})
	require.NoError(t, err)

	nonMemberView, _ := idx.ByID(nonMember.ID)
	assert.Empty(t, nonMemberView.Edges())

	memberView, _ := idx.ByID(member.ID)
	assert.Len(t, memberView.Edges(), 1)
}

func TestUnmatchedDependencyEdgeDroppedSilently(t *testing.T) {
	pkg := metadata.Package{
		ID:   "member@1.0.0",
		Name: "member",
		Dependencies: []metadata.RawDependency{
			{Name: "does-not-exist", Req: "^1.0"},
		},
	}

	idx, err := New(metadata.Snapshot{
		Packages:         []metadata.Package{pkg},
		WorkspaceMembers: []metadata.PackageID{pkg.ID},
	})
	require.NoError(t, err)

	view, _ := idx.ByID(pkg.ID)
	assert.Empty(t, view.Edges())
}

func TestWorkspaceMembersSortedAndQueryable(t *testing.T) {
	b := metadata.Package{ID: "b@1.0.0", Name: "b"}
	a := metadata.Package{ID: "a@1.0.0", Name: "a"}

	idx, err := New(metadata.Snapshot{
		Packages:         []metadata.Package{b, a},
		WorkspaceMembers: []metadata.PackageID{b.ID, a.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, []metadata.PackageID{"a@1.0.0", "b@1.0.0"}, idx.WorkspaceMembers())
	assert.True(t, idx.IsWorkspaceMember(a.ID))
	assert.False(t, idx.IsWorkspaceMember("unknown@0.0.0"))
}
